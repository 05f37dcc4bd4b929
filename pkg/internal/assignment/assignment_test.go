package assignment_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hummel-lab/tistim/pkg/internal/assignment"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

const table = `
sessions: [ses1, ses2, ses3]
subjects:
  - id: S01
    protocols: {ses1: iTBS, ses2: TBS_control, ses3: ti}
  - id: S02
    protocols: {ses1: cTBS, ses2: sham}
`

func TestLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assignments.yaml")
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := assignment.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := tbl.Subjects(); len(got) != 2 || got[0] != "S01" || got[1] != "S02" {
		t.Fatalf("unexpected subjects %v", got)
	}
	if got := tbl.Sessions(); len(got) != 3 || got[2] != "ses3" {
		t.Fatalf("unexpected sessions %v", got)
	}

	cases := map[[2]string]types.Kind{
		{"S01", "ses1"}: types.KindITBS,
		{"S01", "ses2"}: types.KindControl,
		{"S01", "ses3"}: types.KindTI,
		{"S02", "ses1"}: types.KindCTBS,
	}
	for k, want := range cases {
		got, err := tbl.Lookup(k[0], k[1])
		if err != nil || got != want {
			t.Fatalf("Lookup(%s, %s) = %v, %v; want %v", k[0], k[1], got, err, want)
		}
	}

	for _, k := range [][2]string{{"S02", "ses2"}, {"S02", "ses3"}, {"S09", "ses1"}} {
		if _, err := tbl.Lookup(k[0], k[1]); !errors.Is(err, types.ErrProtocolLookup) {
			t.Fatalf("Lookup(%s, %s): expected lookup error, got %v", k[0], k[1], err)
		}
	}
}

func TestParse_Rejections(t *testing.T) {
	bad := []string{
		"sessions: [a, a]\nsubjects: []\n",
		"sessions: [a]\nsubjects:\n  - id: S1\n  - id: S1\n",
		"sessions: [a]\nsubjects:\n  - id: S1\n    protocols: {b: iTBS}\n",
		"sessions: [\n",
	}
	for _, src := range bad {
		if _, err := assignment.Parse([]byte(src)); !errors.Is(err, types.ErrProtocolLookup) {
			t.Fatalf("expected lookup error for %q, got %v", src, err)
		}
	}
	if _, err := assignment.Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, types.ErrProtocolLookup) {
		t.Fatalf("expected lookup error for a missing file, got %v", err)
	}
}
