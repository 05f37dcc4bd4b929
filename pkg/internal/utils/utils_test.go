package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

func TestGenerateUniqueHash_Distinct(t *testing.T) {
	a := utils.GenerateUniqueHash()
	b := utils.GenerateUniqueHash()
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatalf("expected distinct hashes")
	}
}

func TestGenerateSha256Hash_Stable(t *testing.T) {
	type p struct{ A, B float64 }
	if utils.GenerateSha256Hash(p{1, 2}) != utils.GenerateSha256Hash(p{1, 2}) {
		t.Fatalf("expected identical input to hash identically")
	}
	if utils.GenerateSha256Hash(p{1, 2}) == utils.GenerateSha256Hash(p{2, 1}) {
		t.Fatalf("expected different input to hash differently")
	}
}

func TestNewRunID(t *testing.T) {
	if utils.NewRunID() == utils.NewRunID() {
		t.Fatalf("expected unique run ids")
	}
}

func TestSafeFileComponent(t *testing.T) {
	cases := map[string]string{
		"sub-01":     "sub-01",
		"  ":         "unknown",
		"a/b":        "a_b",
		"ses 2":      "ses_2",
		`c:\temp`:    "c__temp",
		"already_ok": "already_ok",
	}
	for in, want := range cases {
		if got := utils.SafeFileComponent(in); got != want {
			t.Fatalf("SafeFileComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := utils.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("expected directory %s", dir)
	}
	if err := utils.EnsureDir(""); err != nil {
		t.Fatalf("EnsureDir(\"\"): %v", err)
	}
}
