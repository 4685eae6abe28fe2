package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"
	"time"

	"accommodation_portal/internal/models"

	"github.com/go-playground/validator/v10"
)

const isoDateLayout = "2006-01-02"

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-allocation-type", validateAllocationType)
	mustRegister("is-request-status", validateRequestStatus)
	mustRegister("is-gender", validateGender)
	mustRegister("iso-date", validateISODate)
	mustRegister("date-gt", compareDateField(func(field, other string) bool { return field > other }))
	mustRegister("date-gte", compareDateField(func(field, other string) bool { return field >= other }))
	mustRegister("card-expiry", validateCardExpiry)
}

// Empty values pass every rule below; "required" handles presence.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).Valid()
}

func validateAllocationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.AllocationType(value).Valid()
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.RequestStatus(value).Valid()
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch strings.ToLower(value) {
	case "male", "female", "other":
		return true
	default:
		return false
	}
}

func validateISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(isoDateLayout, value)
	return err == nil
}

// compareDateField compares two ISO dates lexically, which matches their chronological order.
func compareDateField(cmp func(field, other string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		parent := fl.Parent()
		if parent.Kind() == reflect.Ptr {
			parent = parent.Elem()
		}
		other := parent.FieldByName(fl.Param())
		if !other.IsValid() || other.Kind() != reflect.String || other.String() == "" {
			return true
		}
		return cmp(value, other.String())
	}
}

var cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

func validateCardExpiry(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || cardExpiryPattern.MatchString(value)
}
