package builder

import (
	"github.com/hummel-lab/tistim/pkg/internal/assignment"
	"github.com/hummel-lab/tistim/pkg/internal/config"
)

// Config is the YAML configuration surface with TISTIM_* overrides.
type Config = config.Config

// AssignmentTable maps subject and session ids to blinded protocols.
type AssignmentTable = assignment.Table

// DefaultConfig returns the laboratory defaults.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads path over the defaults and applies environment overrides. An empty path
// uses the defaults alone.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// ParseParameters validates operator-entered parameter text over defaults.
func ParseParameters(form map[string]string, defaults Parameters) (Parameters, error) {
	return config.ParseParameters(form, defaults)
}

// LoadAssignments reads a blinded assignment table from a YAML file.
func LoadAssignments(path string) (*AssignmentTable, error) {
	return assignment.Load(path)
}
