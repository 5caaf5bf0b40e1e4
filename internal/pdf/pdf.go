// ABOUTME: Byte-level integrity check for downloaded puzzle documents.
// ABOUTME: Accepts any payload that begins with the canonical PDF signature.
package pdf

import (
	"bytes"
	"os"
)

var signature = []byte("%PDF-")

// Valid reports whether data begins with the PDF signature. This is a
// structural sanity check to reject empty or truncated downloads, not a parse.
func Valid(data []byte) bool {
	return bytes.HasPrefix(data, signature)
}

// ValidFile reports whether the file at path begins with the PDF signature.
// Unreadable files count as invalid.
func ValidFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(signature))
	n, err := f.Read(header)
	if err != nil {
		return false
	}
	return Valid(header[:n])
}
