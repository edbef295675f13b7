package probe

import "errors"

var (
	// ErrUnsupported is returned for URI schemes the prober cannot open.
	ErrUnsupported = errors.New("probe: unsupported source")
	// ErrNotFound is returned when the file or remote resource does not exist.
	ErrNotFound = errors.New("probe: not found")
	// ErrUnknownFormat is returned when the bytes are not an image in any
	// known format.
	ErrUnknownFormat = errors.New("probe: unknown image format")
)
