package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSha256Hash fingerprints the %v rendering of data.
func GenerateSha256Hash[T any](data T) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%v", data)))
	return hex.EncodeToString(hash[:])
}

// GenerateUniqueHash returns a hex digest of the current time and 128 random bits.
func GenerateUniqueHash() string {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		panic("random number generator failed")
	}
	hashInput := append([]byte(fmt.Sprintf("%d", time.Now().UnixNano())), randomBytes...)
	hash := sha256.Sum256(hashInput)
	return hex.EncodeToString(hash[:])
}

// NewRunID returns a fresh identifier for one stimulation run.
func NewRunID() string {
	return uuid.NewString()
}

// SafeFileComponent makes an operator-entered subject or session label usable as
// part of a file name. Path separators and whitespace become underscores.
func SafeFileComponent(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == os.PathSeparator:
			return '_'
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			return '_'
		}
		return r
	}, s)
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(filepath.Clean(dir), 0o755)
	}
	return nil
}
