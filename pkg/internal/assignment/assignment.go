// Package assignment resolves blinded protocol assignments. A table maps each subject and
// session to a protocol name; the operator only ever sees subject and session IDs.
package assignment

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// Table is the assignment file layout:
//
//	sessions: [ses1, ses2]
//	subjects:
//	  - id: S01
//	    protocols: {ses1: iTBS, ses2: TBS_control}
type Table struct {
	SessionIDs []string  `yaml:"sessions"`
	Entries    []Subject `yaml:"subjects"`
}

// Subject is one row of the table.
type Subject struct {
	ID        string            `yaml:"id"`
	Protocols map[string]string `yaml:"protocols"`
}

// Load reads and validates a table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", types.ErrProtocolLookup, path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a table. Subject and session IDs must be unique and non-empty.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: parse assignment table: %w", types.ErrProtocolLookup, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	seen := make(map[string]bool, len(t.SessionIDs))
	for _, s := range t.SessionIDs {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: empty session id", types.ErrProtocolLookup)
		}
		if seen[s] {
			return fmt.Errorf("%w: duplicate session id %q", types.ErrProtocolLookup, s)
		}
		seen[s] = true
	}
	subjects := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: empty subject id", types.ErrProtocolLookup)
		}
		if subjects[e.ID] {
			return fmt.Errorf("%w: duplicate subject id %q", types.ErrProtocolLookup, e.ID)
		}
		subjects[e.ID] = true
		for s := range e.Protocols {
			if !seen[s] {
				return fmt.Errorf("%w: subject %q lists unknown session %q", types.ErrProtocolLookup, e.ID, s)
			}
		}
	}
	return nil
}

// Subjects lists subject IDs in file order.
func (t *Table) Subjects() []string {
	out := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		out = append(out, e.ID)
	}
	return out
}

// Sessions lists session IDs in file order.
func (t *Table) Sessions() []string {
	return append([]string(nil), t.SessionIDs...)
}

// Lookup resolves the protocol kind for subject and session. Missing cells and names outside
// the known protocol set are ErrProtocolLookup.
func (t *Table) Lookup(subject, session string) (types.Kind, error) {
	for _, e := range t.Entries {
		if e.ID != subject {
			continue
		}
		name, ok := e.Protocols[session]
		if !ok || strings.TrimSpace(name) == "" {
			return types.KindNone, fmt.Errorf("%w: no protocol for subject %q session %q", types.ErrProtocolLookup, subject, session)
		}
		return types.ParseKind(name)
	}
	return types.KindNone, fmt.Errorf("%w: unknown subject %q", types.ErrProtocolLookup, subject)
}
