package track

import (
	"errors"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

type State string

const (
	StateIdle        State = "idle"
	StateCalculating State = "calculating"
	StateCalculated  State = "calculated"
	StateSaving      State = "saving"
	StateSaved       State = "saved"
)

func (s State) String() string {
	return string(s)
}

const (
	MsgStartLocationRequired = "Please enter a start location"
	MsgCalculateFirst        = "Please calculate fare first"
	MsgSaved                 = "Data saved successfully!"
	MsgCalculateFailed       = "Error calculating fare"
	MsgSaveFailed            = "Error saving fare record"
)

// Form is the fare entry form as the user sees it.
type Form struct {
	District           types.DistrictID
	StartLocation      string
	Destination        string
	IncludeTrike       bool
	StartLocationError string
	DestinationError   string
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a message not tied to any form field.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Snapshot is a copy of the controller state. Mutating it has no effect on the controller.
type Snapshot struct {
	Form      Form
	Result    *models.FareResult
	State     State
	Notice    *Notice
	Locations []string
}

// userMessenger is implemented by gateway errors that carry server wording.
type userMessenger interface {
	UserMessage() string
}

func noticeMessage(err error, fallback string) string {
	var m userMessenger
	if errors.As(err, &m) && m.UserMessage() != "" {
		return m.UserMessage()
	}
	return fallback
}
