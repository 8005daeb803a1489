package entitymodel

import (
	"strings"
	"testing"
)

func TestVersionIsStableFingerprint(t *testing.T) {
	got := Version()
	if !strings.HasPrefix(got, "sha256:") || len(got) != len("sha256:")+16 {
		t.Fatalf("unexpected version %q", got)
	}
	if again := Version(); again != got {
		t.Fatalf("version not stable: %q vs %q", got, again)
	}
	if fingerprint(All()...) != got {
		t.Fatal("cached version differs from recomputed fingerprint")
	}
}

func TestFingerprintTracksLayout(t *testing.T) {
	base := fingerprint(Employer)
	changed := *Employer
	changed.Fields = append([]Field(nil), Employer.Fields...)
	changed.Fields[1].Required = false
	if fingerprint(&changed) == base {
		t.Fatal("expected required flag change to alter fingerprint")
	}
	if fingerprint(Employer, Client) == base {
		t.Fatal("expected additional schema to alter fingerprint")
	}
}
