package staff

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

var (
	pinTag   = "pin"
	pinText  = "pin must contain only digits"
	pinRegex = regexp.MustCompile(`^[0-9]+$`)
)

// InitValidators registers the staff validation tags. core.InitValidators must be called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(pinTag, pinValidation)
	core.RegisterCustomTranslation(validate, translator, pinTag, pinText)
}

func isValidPin(pin string) bool {
	return pinRegex.MatchString(pin)
}

func pinValidation(fl validator.FieldLevel) bool {
	return isValidPin(fl.Field().String())
}
