package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Binary", KeyBinary, "does-build", Binary("does-build")},
		{"Dir", KeyDir, "testbins/does-build", Dir("testbins/does-build")},
		{"Profile", KeyProfile, "release", Profile("release")},
		{"Program", KeyProgram, "cargo", Program("cargo")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Outcome", KeyOutcome, "success", Outcome("success")},
		{"Config", KeyConfig, "testbin.yaml", Config("testbin.yaml")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %q, got %q", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := ExitCode(101); a.Key != KeyExitCode || a.Value.Int64() != 101 {
		t.Fatalf("unexpected exit code attr: %v", a)
	}
	if a := Matches(2); a.Value.Int64() != 2 {
		t.Fatalf("unexpected matches attr: %v", a)
	}
	if a := CacheHit(true); !a.Value.Bool() {
		t.Fatalf("unexpected cache hit attr: %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}
