package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Messages validates struct fields and returns one human-readable
// message per failed field, in declaration order. Nil means valid.
func Messages(v interface{}) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var msgs []string
	for _, fe := range err.(validator.ValidationErrors) {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, "invalid email")
		case "min":
			if fe.Kind().String() == "string" {
				msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s must have at least %s items", field, fe.Param()))
			}
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return msgs
}
