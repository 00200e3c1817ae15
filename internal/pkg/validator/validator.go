package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Post type validation
	validate.RegisterValidation("post_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"load", "truck", "company", "job", "resume"}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})

	// Premium tier validation
	validate.RegisterValidation("premium_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"top", "highlight", "urgent"}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "post_type":
			errors[field] = "Invalid post type. Must be: load, truck, company, job, or resume"
		case "premium_type":
			errors[field] = "Invalid premium type. Must be: top, highlight, or urgent"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
