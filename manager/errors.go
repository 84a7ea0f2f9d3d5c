package manager

import "fmt"

// FileNotFoundError is returned when the info target is neither an existing file
// nor the UUID of an installed profile.
type FileNotFoundError struct {
	Target string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("provisioning profile not found: %s", e.Target)
}

// DeletionError ...
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to remove %s: %s", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error {
	return e.Err
}
