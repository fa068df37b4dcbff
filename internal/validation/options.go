package validation

import "strings"

// Recognized option keys.
const (
	OptAllowExtension = "allow_extension"
	OptRequireMobile  = "require_mobile"
	OptStrictLength   = "strict_length"
	OptVerifyRegion   = "verify_region"
)

// Options toggles the optional checks. Each field turns one check on.
type Options struct {
	AllowExtension bool `yaml:"allow_extension,omitempty" json:"allow_extension"`
	RequireMobile  bool `yaml:"require_mobile,omitempty" json:"require_mobile"`
	StrictLength   bool `yaml:"strict_length,omitempty" json:"strict_length"`
	// VerifyRegion cross-checks valid numbers against libphonenumber metadata.
	VerifyRegion bool `yaml:"verify_region,omitempty" json:"verify_region"`
}

// Apply overrides o with the recognized keys of m. Unknown keys are ignored.
func (o Options) Apply(m map[string]bool) Options {
	for k, v := range m {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case OptAllowExtension:
			o.AllowExtension = v
		case OptRequireMobile:
			o.RequireMobile = v
		case OptStrictLength:
			o.StrictLength = v
		case OptVerifyRegion:
			o.VerifyRegion = v
		}
	}
	return o
}

// Map returns the options keyed by their recognized names.
func (o Options) Map() map[string]bool {
	return map[string]bool{
		OptAllowExtension: o.AllowExtension,
		OptRequireMobile:  o.RequireMobile,
		OptStrictLength:   o.StrictLength,
		OptVerifyRegion:   o.VerifyRegion,
	}
}
