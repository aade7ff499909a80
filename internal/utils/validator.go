package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

// usernameRegex mirrors the registration rule: latin letters, digits and
// @ . + - _ only. The value "me" is reserved for the /users/me route.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9@.+\-_]+$`)

func InitValidator() {
	Validate = validator.New()
	_ = Validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
}

func ValidUsername(username string) bool {
	if strings.EqualFold(username, "me") {
		return false
	}
	return usernameRegex.MatchString(username)
}
