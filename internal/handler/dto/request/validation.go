package request

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"room-allocation-engine/internal/domain/reservation"
	"room-allocation-engine/internal/domain/room"
	"room-allocation-engine/internal/domain/stay"
	"room-allocation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the allocation binding tags to gin's validator. Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding validator is not go-playground/validator")
			return
		}
		err = registerTags(v)
	})
	return err
}

func registerTags(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"iso_date": func(fl validator.FieldLevel) bool {
			_, err := stay.ParseDate(fl.Field().String())
			return err == nil
		},
		"reservation_type": func(fl validator.FieldLevel) bool {
			return reservation.Type(fl.Field().String()).IsValid()
		},
		"room_status": func(fl validator.FieldLevel) bool {
			return room.Status(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// FieldErrors turns a binding failure into field -> message, or nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum is %s", fe.Param())
	case "max":
		return fmt.Sprintf("Maximum is %s", fe.Param())
	case "iso_date":
		return "Must be a date in YYYY-MM-DD form"
	case "reservation_type":
		return "Must be one of: individual, group, corporate"
	case "room_status":
		statuses := make([]string, 0, len(room.AllStatuses()))
		for _, s := range room.AllStatuses() {
			statuses = append(statuses, s.String())
		}
		return "Must be one of: " + strings.Join(statuses, ", ")
	default:
		return fmt.Sprintf("Invalid %s field", fe.Field())
	}
}

// parseRange turns a from/to pair into a stay range, reporting bad input as InvalidRange.
func parseRange(from, to string, detail errs.Detail) (stay.DateRange, error) {
	rng, err := stay.ParseDateRange(from, to)
	if err != nil {
		detail.Range = "[" + from + "," + to + ")"
		return stay.DateRange{}, errs.Reject(errs.ErrInvalidRange, detail, "%s", err.Error())
	}
	return rng, nil
}
