package validation

import "strings"

// Code identifies a single validation problem.
type Code string

const (
	CodeUnsupportedCountry  Code = "unsupported_country"
	CodeInvalidCharacters   Code = "invalid_characters"
	CodeLengthOutOfRange    Code = "length_out_of_range"
	CodeExtensionNotAllowed Code = "extension_not_allowed"
	CodeNotMobileNumber     Code = "not_mobile_number"
	CodeCallingCodeMismatch Code = "calling_code_mismatch"
	CodeNotValidForRegion   Code = "not_valid_for_region"
)

var messages = map[Code]string{
	CodeUnsupportedCountry:  "unsupported country",
	CodeInvalidCharacters:   "contains invalid characters",
	CodeLengthOutOfRange:    "length out of range",
	CodeExtensionNotAllowed: "extension not allowed",
	CodeNotMobileNumber:     "not a mobile number",
	CodeCallingCodeMismatch: "country calling code mismatch",
	CodeNotValidForRegion:   "not a valid number for region",
}

// Message returns the human-readable text reported for the code.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return string(c)
}

// Problem is one entry of a validation result.
type Problem struct {
	Code    Code   `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func problem(c Code) Problem {
	return Problem{Code: c, Message: c.Message()}
}

// ValidationError wraps the problems of an invalid result so it can travel
// through error returns.
type ValidationError struct {
	Phone    string
	Country  string
	Problems []Problem
}

func (e *ValidationError) Error() string {
	return "phone '" + e.Phone + "' (" + e.Country + "): " + joinProblems(e.Problems)
}

// Has reports whether the error carries the given code.
func (e *ValidationError) Has(c Code) bool {
	for _, p := range e.Problems {
		if p.Code == c {
			return true
		}
	}
	return false
}

func joinProblems(problems []Problem) string {
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Message
	}
	return strings.Join(msgs, ", ")
}
