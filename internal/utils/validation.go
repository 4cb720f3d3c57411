package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("contact", validateContact)
	validate.RegisterValidation("truck_number", validateTruckNumber)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationDetails flattens validator errors into a field→message map for
// the response envelope.
func ValidationDetails(err error) map[string]string {
	details := make(map[string]string)

	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ferr := range verrs {
			details[strings.ToLower(ferr.Field())] = "failed on '" + ferr.Tag() + "'"
		}
		return details
	}

	details["request"] = err.Error()
	return details
}

func validateContact(fl validator.FieldLevel) bool {
	return len(strings.TrimSpace(fl.Field().String())) >= MinContactLength
}

var truckNumberRegex = regexp.MustCompile(`^[A-Za-z0-9\- ]{3,50}$`)

func validateTruckNumber(fl validator.FieldLevel) bool {
	return truckNumberRegex.MatchString(fl.Field().String())
}

func IsValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func IsAllowedImageType(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
