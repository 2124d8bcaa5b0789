package document

import "errors"

var (
	// ErrInvalidInput is returned when the caller supplies a disallowed value,
	// such as an empty group name. The document is left unchanged.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced group or note does not exist.
	// UpdateNote never returns it: an unknown note id is a silent no-op.
	ErrNotFound = errors.New("not found")

	// ErrPersistenceFailed is returned when the slot write after a mutation
	// fails. The mutation has still been applied in memory; Flush retries the write.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrStorageUnavailable is returned by mutations while the slot cannot be
	// read. Nothing is changed or written until a read succeeds.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
