package nutrition

import "errors"

var (
	// ErrStoreUnavailable is returned when the reference store cannot be loaded or decoded
	ErrStoreUnavailable = errors.New("nutrition store unavailable")

	// ErrInvalidRecord is returned when a loaded food record violates store invariants
	ErrInvalidRecord = errors.New("invalid food record")
)
