package evaluation

import "errors"

var (
	// ErrConfiguration means the run was started with unusable settings
	ErrConfiguration = errors.New("configuration error")
	// ErrConnectivity means the model service answered but is not healthy
	ErrConnectivity = errors.New("connectivity error")
	// ErrPageOutOfRange means a table row points past the loaded documents
	ErrPageOutOfRange = errors.New("page out of range")
)
