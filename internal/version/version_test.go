package version

import "testing"

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestString(t *testing.T) {
	oldV, oldC, oldT := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldT })

	Version, GitCommit, BuildTime = "v1.2.3", "unknown", "unknown"
	if got := String(); got != "v1.2.3" {
		t.Errorf("String() = %q", got)
	}

	GitCommit, BuildTime = "abc123", "2026-01-02"
	if got := String(); got != "v1.2.3 (abc123, built 2026-01-02)" {
		t.Errorf("String() = %q", got)
	}
}
