package testbin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/testbin/internal/cargo/cargotest"
)

func TestBuilderIsImmutable(t *testing.T) {
	base := New("feature-test", "testbins/feature-test").WithFeature("working")
	a := base.WithFeature("a")
	b := base.WithFeature("b").WithArgs("--locked")

	assert.Equal(t, []string{"working"}, base.features)
	assert.Equal(t, []string{"working", "a"}, a.features)
	assert.Equal(t, []string{"working", "b"}, b.features)
	assert.Empty(t, a.args)
}

func TestBuilderRequest(t *testing.T) {
	dir := cargotest.Crate(t, "feature-test")

	req, err := New("feature-test", dir).
		WithRelease().
		WithFeatures("working", "extra", "working").
		NoDefaultFeatures().
		WithArgs("--locked").
		Request()
	require.NoError(t, err)
	assert.Equal(t, Request{
		Binary:            "feature-test",
		Dir:               dir,
		Profile:           Release,
		Features:          []string{"working", "extra"},
		NoDefaultFeatures: true,
		Args:              []string{"--locked"},
	}, req)
}

func TestBuilderProfiles(t *testing.T) {
	dir := cargotest.Crate(t, "a")
	tests := []struct {
		name    string
		builder Builder
		want    Profile
	}{
		{"default", New("a", dir), Debug},
		{"release", New("a", dir).WithRelease(), Release},
		{"named release", New("a", dir).WithProfile("release"), Release},
		{"release twice", New("a", dir).WithRelease().WithProfile("release"), Release},
		{"dev", New("a", dir).WithProfile("dev"), Debug},
		{"debug", New("a", dir).WithProfile("debug"), Debug},
		{"custom", New("a", dir).WithProfile("ci"), Custom("ci")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.builder.Request()
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Profile)
		})
	}
}

func TestBuilderRejectsBeforeSpawn(t *testing.T) {
	dir := cargotest.Crate(t, "a")
	noManifest := t.TempDir()
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name    string
		builder Builder
		detail  string
	}{
		{"empty name", New("", dir), "binary"},
		{"bad name", New("has space", dir), "not a valid target name"},
		{"leading dash", New("-a", dir), "not a valid target name"},
		{"empty dir", New("a", ""), "dir"},
		{"missing dir", New("a", filepath.Join(noManifest, "nope")), "dir"},
		{"dir is a file", New("a", file), "not a directory"},
		{"no manifest", New("a", noManifest), "Cargo.toml not found"},
		{"release and custom profile", New("a", dir).WithRelease().WithProfile("ci"), "cannot be combined with release"},
		{"release and dev profile", New("a", dir).WithRelease().WithProfile("dev"), "cannot be combined with release"},
		{"bad custom profile", New("a", dir).WithProfile("my profile"), "not a valid profile name"},
		{"all and no default features", New("a", dir).WithAllFeatures().NoDefaultFeatures(), "no_default_features"},
		{"all and explicit features", New("a", dir).WithAllFeatures().WithFeature("x"), "cannot be combined with features"},
		{"empty feature", New("a", dir).WithFeature(""), "features[0]"},
		{"feature with comma", New("a", dir).WithFeature("a,b"), "whitespace or commas"},
		{"feature with space", New("a", dir).WithFeature("a b"), "whitespace or commas"},
		{"managed arg", New("a", dir).WithArgs("--release"), "is set by testbin"},
		{"managed arg with value", New("a", dir).WithArgs("--features=x"), "is set by testbin"},
		{"bad env", New("a", dir).WithEnv("NOEQUALS"), "KEY=VALUE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := cargotest.Install(t, cargotest.Fake{Stdout: cargotest.Lines(cargotest.ArtifactLine("a", "target/debug/a"))})

			_, err := tt.builder.Request()
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), tt.detail)

			path, err := tt.builder.WithCargo(fake.Program).Build(context.Background())
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Empty(t, path)
			assert.Zero(t, fake.Invocations(t), "cargo must not run for invalid options")
		})
	}
}

func TestProfile(t *testing.T) {
	assert.Equal(t, "dev", Debug.Name())
	assert.Equal(t, "release", Release.String())
	assert.Equal(t, Release, ParseProfile("release"))
	assert.Equal(t, Debug, ParseProfile("dev"))
	assert.Equal(t, Debug, Custom(""))
	assert.True(t, Custom("bench-fast").IsCustom())
	assert.False(t, Release.IsCustom())
	assert.Equal(t, "bench-fast", Custom("bench-fast").Name())
}
