package workbook

import (
	"errors"
	"fmt"
)

var (
	// ErrOpen classifies every failure to open an existing workbook
	ErrOpen = errors.New("cannot open workbook")

	// ErrAlreadyExists is returned when Create would overwrite an existing file
	ErrAlreadyExists = errors.New("file with same name already exists")

	// ErrUnsupportedFormat is returned for extensions the mode cannot handle
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
)

// OpenError wraps the cause of a failed Read or Write open.
//
// errors.Is(err, ErrOpen) holds for every OpenError, and the underlying
// cause (for example os.ErrNotExist) stays reachable through Unwrap.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", ErrOpen.Error(), e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// ContractViolation is the panic value raised when a mutating operation
// is invoked on a Read-mode Handle. It is not meant to be recovered.
type ContractViolation struct {
	Op   string
	Path string
	Mode Mode
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("%s not allowed in %s mode (%s)", c.Op, c.Mode, c.Path)
}
