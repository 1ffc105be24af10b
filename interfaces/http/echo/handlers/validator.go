package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormValidator plugs go-playground/validator into echo. Field names in
// errors are the form field names.
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &FormValidator{validate: v}
}

func (fv *FormValidator) Validate(i interface{}) error {
	return fv.validate.Struct(i)
}

// fieldErrors turns a validation error into one message per form field.
func fieldErrors(err error) map[string]string {
	messages := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		messages["_"] = err.Error()
		return messages
	}

	for _, fe := range verrs {
		if _, seen := messages[fe.Field()]; seen {
			continue
		}
		messages[fe.Field()] = fieldMessage(fe)
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid.", label)
}
