package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RuleTag is the struct tag registered by RegisterRule.
const RuleTag = "phone"

// RegisterRule adds the phone tag to v. The tag parameter is the country
// followed by option names, space separated:
//
//	Phone string `validate:"omitempty,phone=TR require_mobile"`
//
// Blank values pass; combine with required when a value must be present.
func RegisterRule(v *validator.Validate, pv *Validator) error {
	if pv == nil {
		pv = Default()
	}
	return v.RegisterValidation(RuleTag, func(fl validator.FieldLevel) bool {
		country, opts := parseRuleParam(fl.Param())
		return pv.Validate(fl.Field().String(), country, opts).Valid()
	})
}

func parseRuleParam(param string) (string, map[string]bool) {
	fields := strings.Fields(param)
	if len(fields) == 0 {
		return DefaultCountry, nil
	}
	opts := make(map[string]bool, len(fields)-1)
	for _, f := range fields[1:] {
		opts[f] = true
	}
	return fields[0], opts
}
