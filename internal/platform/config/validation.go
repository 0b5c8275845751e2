package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		n, _ := sl.Current().Interface().(NotificationsConfig)
		if n.Sink == "webhook" && n.Webhook.URL == "" {
			sl.ReportError(n.Webhook.URL, "webhook.url", "URL", "required_for_sink", n.Sink)
		}
	}, NotificationsConfig{})

	return v
}

// Validate reports every invalid key at once, one per line.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	key := configKey(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if", "required_unless":
		cond := strings.ReplaceAll(fe.Param(), " ", " is ")
		if fe.Tag() == "required_unless" {
			return fmt.Sprintf("%s is required unless %s", key, strings.ToLower(cond))
		}

		return fmt.Sprintf("%s is required when %s", key, strings.ToLower(cond))
	case "required_for_sink":
		return fmt.Sprintf("%s is required when sink is %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "url":
		return key + " must be a URL"
	case "datetime":
		return key + " must be a time of day as HH:MM"
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

// configKey drops the root struct name: "Config.server.port" is server.port.
func configKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return key
}
