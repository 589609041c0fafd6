package request

import "errors"

// Request construction errors.
var (
	ErrPath              = errors.New("request: cannot encode path")
	ErrOption            = errors.New("request: cannot add option")
	ErrPayloadTooLarge   = errors.New("request: payload exceeds maximum size")
	ErrUnsupportedMethod = errors.New("request: unsupported method")
)
