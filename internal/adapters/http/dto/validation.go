package dto

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

var (
	// ErrValidation wraps struct-tag failures.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps bodies and queries that could not be decoded.
	ErrBinding = errors.New("binding failed")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field errors are reported under
// their JSON names, and three request tags are registered:
//
//	notempty  string with non-space content
//	duration  positive Go duration such as "24h"
//	clock     HH:MM wall-clock time
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			return name
		})

		_ = v.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			d, err := time.ParseDuration(fl.Field().String())
			return err == nil && d > 0
		})
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseClockTime(fl.Field().String())
			return err == nil
		})

		validate = v
	})

	return validate
}

// Validate checks v's struct tags.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// RespondBindError writes a 400 VALIDATION_ERROR for an error from one of
// the Bind functions, with one detail per offending field.
func RespondBindError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, NewErrorResponseWithDetails(
		ErrorCodeValidation,
		message,
		ValidationErrors(err),
	).WithTraceID(GetTraceID(c)))
}

// RespondBadRequest writes a 400 BAD_REQUEST with message.
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, message).WithTraceID(GetTraceID(c)))
}

// ValidationErrors maps each failing field's JSON name to a message.
// Errors that are not field failures give an empty map.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			out[fe.Field()] = validationMessage(fe)
		}
	}

	return out
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"notempty": "must not be empty",
	"duration": "must be a positive duration such as 24h",
	"clock":    "must be a time as HH:MM",
	"url":      "must be a valid URL",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of: %s",
}

func validationMessage(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "min", "max":
		unit := ""
		if fe.Kind() == reflect.String {
			unit = " characters"
		}

		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}

		return "must be " + bound + " " + fe.Param() + unit
	default:
		msg, ok := validationMessages[tag]
		if !ok {
			return "failed validation: " + tag
		}

		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, fe.Param())
		}

		return msg
	}
}
