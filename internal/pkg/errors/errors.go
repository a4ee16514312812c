package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedMedia marks uploads in a format the extractor cannot read.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrNoTextContent marks documents with no extractable text layer.
	ErrNoTextContent = errors.New("no text content")
)
