package validation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBlankInput(t *testing.T) {
	for _, raw := range []string{"", " ", "\t", "  \n  "} {
		for _, country := range []string{"TR", "US", "XX", ""} {
			res := Validate(raw, country, map[string]bool{OptRequireMobile: true, OptStrictLength: true})

			assert.True(t, res.Valid(), "blank %q / %s", raw, country)
			_, ok := res.Normalized()
			assert.False(t, ok)
			assert.Empty(t, res.Errors())
			assert.NoError(t, res.Err())
		}
	}
}

func TestValidateTurkishScenarios(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		opts       map[string]bool
		valid      bool
		normalized string
		codes      []Code
	}{
		{name: "national with trunk prefix", raw: "0555 123 45 67", valid: true, normalized: "+905551234567"},
		{name: "too short", raw: "12345", codes: []Code{CodeLengthOutOfRange}},
		{name: "extension not allowed", raw: "+905551234567 ext 12", opts: map[string]bool{OptAllowExtension: false}, codes: []Code{CodeExtensionNotAllowed}},
		{name: "mobile required and present", raw: "05551234567", opts: map[string]bool{OptRequireMobile: true}, valid: true, normalized: "+905551234567"},
		{name: "landline rejected as mobile", raw: "02121234567", opts: map[string]bool{OptRequireMobile: true}, codes: []Code{CodeNotMobileNumber}},
		{name: "exit prefix 00", raw: "00 90 555 123 45 67", valid: true, normalized: "+905551234567"},
		{name: "punctuation", raw: "(0555) 123-45-67", valid: true, normalized: "+905551234567"},
		{name: "calling code without plus", raw: "905551234567", valid: true, normalized: "+905551234567"},
		{name: "landline without mobile requirement", raw: "0212 123 45 67", valid: true, normalized: "+902121234567"},
		{name: "letters", raw: "0555 12a 45 67", codes: []Code{CodeInvalidCharacters}},
		{name: "letters and short", raw: "0555 12a 45", codes: []Code{CodeInvalidCharacters, CodeLengthOutOfRange}},
		{name: "foreign calling code", raw: "+44 7911 123456", codes: []Code{CodeCallingCodeMismatch}},
		{name: "double plus", raw: "++905551234567", codes: []Code{CodeInvalidCharacters}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.raw, "TR", tt.opts)

			require.Equal(t, tt.valid, res.Valid(), "errors: %v", res.Errors())
			if tt.valid {
				n, ok := res.Normalized()
				require.True(t, ok)
				assert.Equal(t, tt.normalized, n)
				return
			}

			_, ok := res.Normalized()
			assert.False(t, ok)
			codes := make([]Code, 0, len(res.Problems()))
			for _, p := range res.Problems() {
				codes = append(codes, p.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	res := Validate("0212 12a ext 9", "TR", map[string]bool{OptRequireMobile: true})

	assert.False(t, res.Valid())
	assert.Equal(t, []string{
		"extension not allowed",
		"contains invalid characters",
		"length out of range",
		"not a mobile number",
	}, res.Errors())
	assert.Equal(t, "extension not allowed, contains invalid characters, length out of range, not a mobile number", res.Message())
}

func TestValidateExtensionAllowed(t *testing.T) {
	for _, raw := range []string{
		"+905551234567 ext 12",
		"+905551234567 ext.12",
		"+90 555 123 45 67 EXTENSION 12",
		"05551234567x12",
		"0555 123 45 67 #12",
	} {
		res := Validate(raw, "TR", map[string]bool{OptAllowExtension: true})

		require.True(t, res.Valid(), "%s: %v", raw, res.Errors())
		n, _ := res.Normalized()
		assert.Equal(t, "+905551234567", n)
		assert.Equal(t, "12", res.Extension())
	}
}

func TestValidateUnsupportedCountry(t *testing.T) {
	for _, raw := range []string{"+905551234567", "abc", "12345", "+1 555 ext 4"} {
		res := Validate(raw, "ZZ", map[string]bool{OptRequireMobile: true})

		assert.False(t, res.Valid())
		assert.Equal(t, []Problem{{Code: CodeUnsupportedCountry, Message: "unsupported country"}}, res.Problems())
	}
}

func TestValidateCountryResolution(t *testing.T) {
	res := Validate("05551234567", "", nil)
	assert.True(t, res.Valid())
	assert.Equal(t, "TR", res.Country())

	res = Validate("05551234567", " tr ", nil)
	assert.True(t, res.Valid())
	assert.Equal(t, "TR", res.Country())
}

func TestValidateCanonicalLengthDigits(t *testing.T) {
	table := DefaultTable()
	for _, country := range table.Countries() {
		plan := table[country]
		digits := ""
		for i := 0; i < plan.CanonicalLength; i++ {
			digits += fmt.Sprint((i + 2) % 10)
		}

		// Same length, but starting like an exit prefix.
		zeros := "00" + digits[2:]

		for _, raw := range []string{digits, zeros} {
			res := Validate(raw, country, nil)

			assert.True(t, res.Valid(), "%s %s: %v", country, raw, res.Errors())
			_, ok := res.Normalized()
			assert.True(t, ok)
		}
	}
}

func TestValidateExitPrefix(t *testing.T) {
	cases := []struct {
		raw, country, normalized string
	}{
		{"0012345678", "TR", "+900012345678"},
		{"00123456789", "DE", "+490123456789"},
		{"001234567", "UZ", "+998001234567"},
		{"0090 555 123 45 67", "TR", "+905551234567"},
		{"0049 30 1234567", "DE", "+49301234567"},
	}

	for _, c := range cases {
		res := Validate(c.raw, c.country, nil)
		require.True(t, res.Valid(), "%s: %v", c.raw, res.Errors())
		normalized, _ := res.Normalized()
		assert.Equal(t, c.normalized, normalized, c.raw)
	}

	res := Validate("0044 20 7946 0958", "TR", nil)
	require.Len(t, res.Problems(), 1)
	assert.Equal(t, CodeCallingCodeMismatch, res.Problems()[0].Code)
}

func TestValidateIdempotent(t *testing.T) {
	cases := []struct {
		raw, country string
		opts         map[string]bool
	}{
		{"0555 123 45 67", "TR", nil},
		{"+90 (212) 123-45-67", "TR", nil},
		{"+905551234567 x 77", "TR", map[string]bool{OptAllowExtension: true}},
		{"07911 123456", "GB", map[string]bool{OptRequireMobile: true}},
		{"0171 1234567", "DE", nil},
		{"8 916 123-45-67", "RU", map[string]bool{OptStrictLength: true}},
		{"(201) 555-0123", "US", nil},
		{"90 123 45 67", "UZ", map[string]bool{OptRequireMobile: true}},
	}

	for _, c := range cases {
		first := Validate(c.raw, c.country, c.opts)
		require.True(t, first.Valid(), "%s: %v", c.raw, first.Errors())
		n1, _ := first.Normalized()

		second := Validate(n1, c.country, c.opts)
		require.True(t, second.Valid(), "%s: %v", n1, second.Errors())
		n2, _ := second.Normalized()
		assert.Equal(t, n1, n2)
	}
}

func TestValidateStrictLength(t *testing.T) {
	// DE numbers range from 6 to 11 national digits, canonical 11.
	raw := "+49 3012345678"

	res := Validate(raw, "DE", nil)
	assert.True(t, res.Valid(), "%v", res.Errors())

	res = Validate(raw, "DE", map[string]bool{OptStrictLength: true})
	assert.False(t, res.Valid())
	assert.True(t, res.Has(CodeLengthOutOfRange))

	res = Validate("+49 30123456789", "DE", map[string]bool{OptStrictLength: true})
	assert.True(t, res.Valid(), "%v", res.Errors())
}

func TestValidateUnknownOptionsIgnored(t *testing.T) {
	res := Validate("02121234567", "TR", map[string]bool{"require_fax": true, "Require_Mobile ": false})
	assert.True(t, res.Valid())
}

func TestValidatePlanDefaults(t *testing.T) {
	table := DefaultTable()
	tr := table["TR"]
	tr.Defaults = Options{RequireMobile: true}
	table["TR"] = tr
	v := New(table)

	res := v.Validate("02121234567", "TR", nil)
	assert.True(t, res.Has(CodeNotMobileNumber))

	res = v.Validate("02121234567", "TR", map[string]bool{OptRequireMobile: false})
	assert.True(t, res.Valid())

	// the built-in table is untouched
	assert.True(t, Validate("02121234567", "TR", nil).Valid())
}

func TestValidateVerifyRegion(t *testing.T) {
	res := Validate("(201) 555-0123", "US", map[string]bool{OptVerifyRegion: true})
	assert.True(t, res.Valid(), "%v", res.Errors())

	// 555 is not an assigned area code.
	res = Validate("(555) 123-4567", "US", map[string]bool{OptVerifyRegion: true})
	assert.False(t, res.Valid())
	assert.Equal(t, CodeNotValidForRegion, res.Problems()[0].Code)

	res = Validate("(555) 123-4567", "US", nil)
	assert.True(t, res.Valid())
}

func TestValidationError(t *testing.T) {
	res := Validate("12345", "TR", nil)

	err := res.Err()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(CodeLengthOutOfRange))
	assert.False(t, verr.Has(CodeNotMobileNumber))
	assert.Equal(t, "phone '12345' (TR): length out of range", err.Error())
}

func TestResultJSON(t *testing.T) {
	b, err := Validate("0555 123 45 67", "TR", nil).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":true,"normalized":"+905551234567","errors":[]}`, string(b))

	b, err = Validate("12345", "TR", nil).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":false,"normalized":null,"errors":["length out of range"]}`, string(b))

	b, err = Validate("", "TR", nil).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":true,"normalized":null,"errors":[]}`, string(b))

	b, err = Validate("05551234567 ext 5", "TR", map[string]bool{OptAllowExtension: true}).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_valid":true,"normalized":"+905551234567","extension":"5","errors":[]}`, string(b))
}

func TestResultErrorsIsCopy(t *testing.T) {
	res := Validate("12345", "TR", nil)
	errs := res.Errors()
	errs[0] = "changed"
	problems := res.Problems()
	problems[0].Message = "changed"

	assert.Equal(t, []string{"length out of range"}, res.Errors())
}

func TestValidateConcurrent(t *testing.T) {
	v := Default()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Go(func() {
			for j := 0; j < 200; j++ {
				res := v.Validate("0555 123 45 67", "TR", map[string]bool{OptRequireMobile: true})
				n, ok := res.Normalized()
				if !ok || n != "+905551234567" {
					t.Errorf("unexpected result: %q %v", n, res.Errors())
					return
				}
			}
		})
	}
	wg.Wait()
}
