package httperr

import (
	"errors"
	"net/http"

	"room-allocation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, msg, "", detail)
}

func abort(c *gin.Context, status int, err error, msg, code string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	kind   error
	status int
	code   string
}

var mappings = []mapping{
	{errs.ErrNotFound, http.StatusNotFound, "not_found"},
	{errs.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
	{errs.ErrInvalidComposition, http.StatusBadRequest, "invalid_composition"},
	{errs.ErrValidation, http.StatusBadRequest, "validation_failed"},
	{errs.ErrRoomUnavailable, http.StatusConflict, "room_unavailable"},
	{errs.ErrRoomConflict, http.StatusConflict, "room_conflict"},
	{errs.ErrRoomInUse, http.StatusConflict, "room_in_use"},
	{errs.ErrHoldExpiredOrNotOwned, http.StatusGone, "hold_expired_or_not_owned"},
	{errs.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition"},
	{errs.ErrNotOwner, http.StatusForbidden, "not_owner"},
}

// Status resolves the HTTP status and error code of an allocation error.
// Anything outside the rejection taxonomy is a 500.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// AbortWithDomainError picks the status from the rejection kind and puts the offending ids in the detail.
func AbortWithDomainError(c *gin.Context, err error, fallbackMsg string) {
	status, code := Status(err)

	msg := fallbackMsg
	var detail any
	var rej *errs.Rejection
	if errors.As(err, &rej) {
		msg = rej.Error()
		if d := rej.Detail; d != (errs.Detail{}) {
			detail = d
		}
	} else if status != http.StatusInternalServerError {
		msg = err.Error()
	}

	abort(c, status, err, msg, code, detail)
}
