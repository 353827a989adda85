package dto

import (
	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/pkg/validator"
)

const (
	maxSRCodeLen   = 32
	maxNameLen     = 120
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

type SignupRequest struct {
	SRCode   string `json:"srcode"`
	Name     string `json:"name"`
	College  string `json:"college"`
	Password string `json:"password"`
}

// ValidateSignup checks sizes only. Missing credentials are reported by the service
// with the message clients already know.
func ValidateSignup(v *validator.Validator, req *SignupRequest) {
	v.Check(validator.MaxChars(req.SRCode, maxSRCodeLen), "srcode", "must not be more than 32 characters")
	v.Check(validator.MaxChars(req.Name, maxNameLen), "name", "must not be more than 120 characters")
	v.Check(validator.MaxChars(req.College, maxNameLen), "college", "must not be more than 120 characters")
	v.Check(len(req.Password) <= maxPasswordLen, "password", "must not be more than 72 bytes")
}

func (r *SignupRequest) ToModel() models.SignupRequest {
	return models.SignupRequest{
		SRCode:   r.SRCode,
		Name:     r.Name,
		College:  r.College,
		Password: r.Password,
	}
}

type LoginRequest struct {
	SRCode   string `json:"srcode"`
	Password string `json:"password"`
}
