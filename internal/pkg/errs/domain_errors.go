package errs

import (
	"errors"
	"fmt"
)

// Allocation rejections. These are business-rule outcomes reported to the caller, never retried.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidRange          = errors.New("invalid date range")
	ErrRoomUnavailable       = errors.New("room unavailable")
	ErrRoomConflict          = errors.New("room conflict")
	ErrHoldExpiredOrNotOwned = errors.New("hold expired or not owned")
	ErrInvalidComposition    = errors.New("invalid reservation composition")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrNotOwner              = errors.New("not owner")
	ErrRoomInUse             = errors.New("room in use")
	ErrValidation            = errors.New("validation failed")
)

// Detail names the identifiers a rejection is about. Range is rendered as [start,end).
type Detail struct {
	RoomID        string `json:"roomId,omitempty"`
	HoldID        string `json:"holdId,omitempty"`
	ReservationID string `json:"reservationId,omitempty"`
	AssignmentID  string `json:"assignmentId,omitempty"`
	Range         string `json:"range,omitempty"`
}

type Rejection struct {
	kind   error
	msg    string
	Detail Detail
}

func Reject(kind error, detail Detail, format string, args ...any) *Rejection {
	return &Rejection{
		kind:   kind,
		msg:    fmt.Sprintf(format, args...),
		Detail: detail,
	}
}

func (r *Rejection) Error() string {
	if r.msg == "" {
		return r.kind.Error()
	}
	return r.kind.Error() + ": " + r.msg
}

func (r *Rejection) Unwrap() error { return r.kind }

func (r *Rejection) Kind() error { return r.kind }

func (r *Rejection) Message() string { return r.msg }

// DetailOf returns the identifiers attached to the first rejection in err's chain.
func DetailOf(err error) (Detail, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Detail, true
	}
	return Detail{}, false
}
