package handler

import (
	"errors"
	"net/http"

	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

const msgInternal = "the server encountered a problem and could not process your request"

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failedValidationResponse returns 422 with a field -> message map.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 for bodies that cannot be decoded.
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}

// serviceErrorResponse writes err with the status from GetCode. Field errors carry
// the offending field so clients can show the message next to the right input.
// Server faults never leak their cause.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	code := GetCode(err)

	var fe *types.FieldError
	switch {
	case errors.As(err, &fe):
		if werr := writeJSON(w, code, envelope{"error": fe.Message, "field": fe.Field}, nil); werr != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	case errors.Is(err, types.ErrRecordNotFound):
		errorResponse(w, code, "Fare record not found")
	case code >= http.StatusInternalServerError:
		internalErrorResponse(w, msgInternal)
	default:
		errorResponse(w, code, err.Error())
	}
}
