// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

var (
	// ErrMalformedDocument reports a PDF whose header, cross-reference
	// table, or page content could not be parsed.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMalformedArchive reports an EPUB that is not a valid zip container.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrUnsupportedInput is reserved for inputs no extractor accepts. The
	// plain-text fallback decodes anything, so the pipeline does not
	// currently return it.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrGenerationFailure reports a failure while assembling a download.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrUnknownFormat reports an unrecognized format name.
	ErrUnknownFormat = errors.New("unknown format")
)
