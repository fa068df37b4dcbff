package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

var (
	extensionRegex = regexp.MustCompile(`(?i)\s*(?:ext\.?|extension|x|#)\s*(\d{1,7})\s*$`)
	phoneRegex     = regexp.MustCompile(`^\+?\d+$`)
)

const exitPrefix = "00"

// Validator checks phone numbers against a read-only numbering-plan table.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	plans Table
}

// New builds a validator over a copy of the given table.
func New(plans Table) *Validator {
	return &Validator{plans: Table{}.Merge(plans)}
}

var defaultValidator = New(DefaultTable())

// Default returns the validator over the built-in plans.
func Default() *Validator {
	return defaultValidator
}

// Validate checks raw with the built-in plans.
func Validate(raw, country string, options map[string]bool) Result {
	return defaultValidator.Validate(raw, country, options)
}

// Plans returns a copy of the validator's table.
func (v *Validator) Plans() Table {
	return Table{}.Merge(v.plans)
}

// Validate never fails: every problem is reported in the result, in the
// order the checks ran. Blank input is valid; requiring a value is up to the
// caller.
func (v *Validator) Validate(raw, country string, options map[string]bool) Result {
	res := Result{phone: raw, country: countryKey(country)}
	if strings.TrimSpace(raw) == "" {
		return res
	}

	number, ext, hasExt := normalize(raw)

	plan, ok := v.plans[res.country]
	if !ok {
		res.problems = []Problem{problem(CodeUnsupportedCountry)}
		return res
	}
	opts := plan.Defaults.Apply(options)

	if hasExt {
		if opts.AllowExtension {
			res.extension = ext
		} else {
			res.problems = append(res.problems, problem(CodeExtensionNotAllowed))
		}
	}

	if !phoneRegex.MatchString(number) {
		res.problems = append(res.problems, problem(CodeInvalidCharacters))
	}

	national, ccOK := plan.nationalNumber(onlyDigits(number), strings.HasPrefix(number, "+"))
	if !ccOK {
		res.problems = append(res.problems, problem(CodeCallingCodeMismatch))
		return res
	}

	n := len(national)
	if opts.StrictLength {
		if n != plan.CanonicalLength {
			res.problems = append(res.problems, problem(CodeLengthOutOfRange))
		}
	} else if n < plan.MinDigits || n > plan.MaxDigits {
		res.problems = append(res.problems, problem(CodeLengthOutOfRange))
	}

	if opts.RequireMobile && !plan.IsMobile(national) {
		res.problems = append(res.problems, problem(CodeNotMobileNumber))
	}

	if len(res.problems) > 0 {
		return res
	}

	res.normalized = "+" + plan.CallingCode + national

	if opts.VerifyRegion && !validForRegion(res.normalized, plan.Country) {
		res.problems = append(res.problems, problem(CodeNotValidForRegion))
	}

	return res
}

// normalize strips separators and the extension suffix. A leading 00 is left
// alone: only the plan can tell an exit prefix from a national number.
func normalize(raw string) (number, ext string, hasExt bool) {
	s := strings.TrimSpace(raw)

	if m := extensionRegex.FindStringSubmatchIndex(s); m != nil {
		ext = s[m[2]:m[3]]
		s = s[:m[0]]
		hasExt = true
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)

	return s, ext, hasExt
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// nationalNumber removes the calling code or trunk prefix from digits. The
// second return is false when an international number carries another
// country's calling code. A leading 00 counts as an exit prefix only when the
// number is too long to be national.
func (p Plan) nationalNumber(digits string, international bool) (string, bool) {
	if !international && len(digits) > p.MaxDigits && strings.HasPrefix(digits, exitPrefix) {
		digits, international = digits[len(exitPrefix):], true
	}

	if international {
		if !strings.HasPrefix(digits, p.CallingCode) {
			return digits, false
		}
		return digits[len(p.CallingCode):], true
	}

	// 905551234567: calling code typed without the exit prefix.
	if len(digits) > p.MaxDigits && strings.HasPrefix(digits, p.CallingCode) {
		rest := digits[len(p.CallingCode):]
		if len(rest) >= p.MinDigits && len(rest) <= p.MaxDigits {
			return rest, true
		}
	}

	if p.TrunkPrefix != "" && strings.HasPrefix(digits, p.TrunkPrefix) &&
		len(digits)-len(p.TrunkPrefix) >= p.MinDigits {
		return digits[len(p.TrunkPrefix):], true
	}

	return digits, true
}

func validForRegion(e164, country string) bool {
	num, err := phonenumbers.Parse(e164, country)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(num, country)
}
