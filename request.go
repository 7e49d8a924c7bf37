package testbin

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/testbin/internal/cargo"
	"git.home.luguber.info/inful/testbin/internal/foundation"
)

// ManifestFile is the file a source directory must contain.
const ManifestFile = "Cargo.toml"

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)
	featurePattern = regexp.MustCompile(`^[^\s,]+$`)
	envPattern     = regexp.MustCompile(`^[^=\s]+=`)
)

// Request is one validated build. Use Builder.Request to obtain one.
type Request struct {
	Binary  string
	Dir     string
	Profile Profile
	// Features is deduplicated and keeps the order of first appearance.
	Features          []string
	NoDefaultFeatures bool
	AllFeatures       bool
	Args              []string
}

func (r Request) spec() cargo.Spec {
	return cargo.Spec{
		Binary:            r.Binary,
		Dir:               r.Dir,
		Profile:           r.Profile.Name(),
		Features:          r.Features,
		NoDefaultFeatures: r.NoDefaultFeatures,
		AllFeatures:       r.AllFeatures,
		Args:              r.Args,
	}
}

var (
	binaryValidator = foundation.NewValidatorChain(
		foundation.StringNotEmpty("binary"),
		foundation.StringMatches("binary", namePattern, "is not a valid target name"),
	)
	featureValidator = foundation.Each("features", foundation.StringMatches("features", featurePattern, "must not contain whitespace or commas"))
	profileValidator = foundation.StringMatches("profile", namePattern, "is not a valid profile name")
	envValidator     = foundation.Each("env", foundation.StringMatches("env", envPattern, "is not of the form KEY=VALUE"))
)

func validateFields(r Request) foundation.ValidationResult {
	res := binaryValidator.Validate(r.Binary)
	res = res.Combine(validateDir(r.Dir))
	if r.Profile.IsCustom() {
		res = res.Combine(profileValidator(r.Profile.Name()))
	}
	for i, f := range r.Features {
		if f == "" {
			res = res.Combine(foundation.Invalid(foundation.NewValidationError(fmt.Sprintf("features[%d]", i), "required", "must not be empty")))
		}
	}
	res = res.Combine(featureValidator(r.Features))
	res = res.Combine(foundation.Conflict("all_features", "no_default_features", r.AllFeatures && r.NoDefaultFeatures))
	res = res.Combine(foundation.Conflict("all_features", "features", r.AllFeatures && len(r.Features) > 0))
	for i, a := range r.Args {
		if cargo.IsManagedFlag(a) {
			res = res.Combine(foundation.Invalid(foundation.NewValidationError(
				fmt.Sprintf("args[%d]", i), "managed", fmt.Sprintf("%q is set by testbin and cannot be passed as an extra argument", a))))
		}
	}
	return res
}

func validateDir(dir string) foundation.ValidationResult {
	if strings.TrimSpace(dir) == "" {
		return foundation.Invalid(foundation.NewValidationError("dir", "required", "must not be empty"))
	}
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		return foundation.Invalid(foundation.NewValidationError("dir", "missing", err.Error()))
	case !info.IsDir():
		return foundation.Invalid(foundation.NewValidationError("dir", "not_dir", fmt.Sprintf("%s is not a directory", dir)))
	}
	manifest := filepath.Join(dir, ManifestFile)
	if st, err := os.Stat(manifest); err != nil || st.IsDir() {
		return foundation.Invalid(foundation.NewValidationError("dir", "manifest", fmt.Sprintf("%s not found in %s", ManifestFile, dir)))
	}
	return foundation.Valid()
}
