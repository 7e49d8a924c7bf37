package config

import (
	"fmt"
	"regexp"

	"git.home.luguber.info/inful/testbin/internal/foundation"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// Validate checks the structural rules of a configuration. Build option
// conflicts are left to the testbin builder, which reports them per binary.
func Validate(cfg *Config) error {
	res := foundation.Valid()
	if len(cfg.Binaries) == 0 {
		res = res.Combine(foundation.Invalid(foundation.NewValidationError("binaries", "required", "at least one binary must be configured")))
	}

	seen := make(map[string]int, len(cfg.Binaries))
	nameValidator := foundation.NewValidatorChain(
		foundation.StringNotEmpty("name"),
		foundation.StringMatches("name", namePattern, "is not a valid target name"),
	)
	for i, b := range cfg.Binaries {
		field := fmt.Sprintf("binaries[%d].name", i)
		r := nameValidator.Validate(b.Name)
		for j := range r.Errors {
			r.Errors[j].Field = field
		}
		res = res.Combine(r)
		if prev, dup := seen[b.Name]; dup && b.Name != "" {
			res = res.Combine(foundation.Invalid(foundation.NewValidationError(field, "duplicate",
				fmt.Sprintf("%q is already defined by binaries[%d]", b.Name, prev))))
		} else {
			seen[b.Name] = i
		}
	}

	for k := range cfg.Env {
		if k == "" {
			res = res.Combine(foundation.Invalid(foundation.NewValidationError("env", "required", "variable names must not be empty")))
		}
	}
	return res.ToError()
}
