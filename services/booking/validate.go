package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"spabook/models"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizeRequest trims identifiers and drops schedule fields on immediate bookings.
func normalizeRequest(req *models.BookingRequest) {
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.TherapistID = strings.TrimSpace(req.TherapistID)
	req.TherapistName = strings.TrimSpace(req.TherapistName)
	req.ServiceType = strings.TrimSpace(req.ServiceType)
	req.ScheduledDate = strings.TrimSpace(req.ScheduledDate)
	req.ScheduledTime = strings.TrimSpace(req.ScheduledTime)
	if req.Kind == "" {
		req.Kind = models.KindImmediate
	}
	if req.Kind == models.KindImmediate {
		req.ScheduledDate = ""
		req.ScheduledTime = ""
	}
}

func (c *Coordinator) validateRequest(req models.BookingRequest) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newValidationError("", err.Error())
	}
	fe := fieldErrs[0]
	return newValidationError(fe.Field(), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
