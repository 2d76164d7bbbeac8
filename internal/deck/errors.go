package deck

import "errors"

var (
	// ErrNotFound reports a config file that does not exist yet.
	ErrNotFound = errors.New("config file not found")
	// ErrParse reports a config file whose content is not valid JSON for its type.
	ErrParse = errors.New("config file is malformed")
	// ErrOutOfRange reports an index that no longer addresses a button.
	ErrOutOfRange = errors.New("button index out of range")
	// ErrInvalidFileType reports a dropped file that is not a supported image.
	ErrInvalidFileType = errors.New("unsupported icon file type")
	// ErrIO reports a failed copy or write.
	ErrIO = errors.New("i/o failure")
)
