package service

import "errors"

var (
	// ErrInvalidURL means the input is not a plausible watch-page URL
	ErrInvalidURL = errors.New("invalid YouTube URL")
	// ErrIDExtraction means a plausible URL yielded no identifier
	ErrIDExtraction = errors.New("could not extract video ID")
	// ErrInvalidIdentifier means a bare identifier is malformed
	ErrInvalidIdentifier = errors.New("invalid video ID")
	// ErrFormatNotFound means the requested format is not in the catalog
	ErrFormatNotFound = errors.New("format not found")
)
