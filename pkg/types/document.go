// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// InputDocument is a file handed to the pipeline. It is treated as
// immutable once read.
type InputDocument struct {
	// Data is the raw file content.
	Data []byte

	// MIMEType is the type declared by the source (browser, upload, or
	// extension lookup). It may be empty.
	MIMEType string

	// FileName is the original file name including its extension.
	FileName string
}

// Artifact is a downloadable file produced from preview text.
type Artifact struct {
	// Data is the file content.
	Data []byte

	// Extension is the file extension without the leading dot (e.g. "pdf").
	Extension string

	// MIMEType is the Content-Type a host should serve Data with.
	MIMEType string
}
