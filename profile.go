package testbin

import (
	"git.home.luguber.info/inful/testbin/internal/cargo"
	"git.home.luguber.info/inful/testbin/internal/foundation"
)

// Profile selects the cargo build profile. The zero value is Debug.
type Profile struct {
	name string
}

var (
	// Debug is cargo's default "dev" profile.
	Debug = Profile{}
	// Release is the profile selected by --release.
	Release = Profile{name: cargo.ProfileRelease}
)

// Custom returns a user-defined profile, passed to cargo as --profile NAME.
func Custom(name string) Profile {
	return ParseProfile(name)
}

var knownProfiles = foundation.NewNormalizer(map[string]Profile{
	"dev":     Debug,
	"debug":   Debug,
	"release": Release,
})

// ParseProfile maps "dev" and "debug" to Debug, "release" to Release and
// any other name to a custom profile.
func ParseProfile(name string) Profile {
	if p, ok := knownProfiles.Lookup(name); ok {
		return p
	}
	return Profile{name: name}
}

// Name returns the cargo profile name.
func (p Profile) Name() string {
	if p.name == "" {
		return cargo.ProfileDev
	}
	return p.name
}

// IsCustom reports whether p is neither Debug nor Release.
func (p Profile) IsCustom() bool {
	return p != Debug && p != Release
}

func (p Profile) String() string {
	return p.Name()
}
