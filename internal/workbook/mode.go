package workbook

import (
	"fmt"
	"strings"
)

// Mode is the access mode a Handle is opened with. It never changes
// after construction.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeCreate
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "Read"
	case ModeWrite:
		return "Write"
	case ModeCreate:
		return "Create"
	default:
		return "Unknown"
	}
}

// Writable reports whether mutating operations are allowed
func (m Mode) Writable() bool {
	return m == ModeWrite || m == ModeCreate
}

// ParseMode converts a configuration value ("read", "write", "create")
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read", "r", "":
		return ModeRead, nil
	case "write", "w":
		return ModeWrite, nil
	case "create", "c":
		return ModeCreate, nil
	default:
		return ModeRead, fmt.Errorf("unknown workbook mode %q (want read, write or create)", s)
	}
}
