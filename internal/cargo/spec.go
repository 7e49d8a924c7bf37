package cargo

import "strings"

// MessageFormat is passed to every build so that diagnostics arrive as
// JSON records with ANSI-rendered text.
const MessageFormat = "json-diagnostic-rendered-ansi"

// Profile names with dedicated handling.
const (
	ProfileDev     = "dev"
	ProfileRelease = "release"
)

// Spec describes one `cargo build --bin` invocation. It is assumed valid;
// validation happens before a Spec is constructed.
type Spec struct {
	Binary string
	Dir    string
	// Profile is empty (or "dev") for the default profile, "release" for
	// --release and any other name for --profile NAME.
	Profile           string
	Features          []string
	NoDefaultFeatures bool
	AllFeatures       bool
	Args              []string
}

// profileName is the cargo profile the build uses.
func (s Spec) profileName() string {
	if s.Profile == "" {
		return ProfileDev
	}
	return s.Profile
}

// BuildArgs returns the argument vector, without the program name.
func (s Spec) BuildArgs() []string {
	args := []string{"build", "--message-format=" + MessageFormat}
	switch s.Profile {
	case "", ProfileDev:
	case ProfileRelease:
		args = append(args, "--release")
	default:
		args = append(args, "--profile", s.Profile)
	}
	if s.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if s.AllFeatures {
		args = append(args, "--all-features")
	}
	if len(s.Features) > 0 {
		args = append(args, "--features", strings.Join(s.Features, ","))
	}
	args = append(args, "--bin", s.Binary)
	return append(args, s.Args...)
}

// ManagedFlags are set by BuildArgs and must not appear in Spec.Args.
var ManagedFlags = []string{
	"--bin",
	"--release",
	"--profile",
	"--features",
	"--message-format",
	"--no-default-features",
	"--all-features",
	"--manifest-path",
}

// IsManagedFlag reports whether arg sets one of ManagedFlags, in either the
// "--flag value" or "--flag=value" form. "-F" and "-r" are the short forms.
func IsManagedFlag(arg string) bool {
	switch arg {
	case "-F", "-r":
		return true
	}
	name, _, _ := strings.Cut(arg, "=")
	for _, f := range ManagedFlags {
		if name == f {
			return true
		}
	}
	return false
}
