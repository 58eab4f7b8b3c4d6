// backend/src/validation/file_validation.go
package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var allowedUploadContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // some browsers tag CSVs this way
	"text/plain":               true,
	"application/octet-stream": true,
}

// ValidateClientContentType checks the Content-Type the browser declared
// for the uploaded file. This is advisory only; the content check below is
// what actually gates the upload.
func ValidateClientContentType(contentType string) error {
	base := contentType
	if idx := strings.Index(base, ";"); idx > 0 {
		base = base[:idx]
	}
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" || allowedUploadContentTypes[base] {
		return nil
	}
	return fmt.Errorf("unsupported file type %q: only CSV files are accepted", contentType)
}

// ValidateFileContent sniffs the first bytes of the upload and rejects
// anything that is not plain text. The reader is rewound afterwards so the
// parser sees the full file.
func ValidateFileContent(file io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content validation: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file after content validation: %w", err)
	}
	if n == 0 {
		return "", errors.New("uploaded file is empty")
	}

	detected := http.DetectContentType(buf[:n])
	if !strings.HasPrefix(detected, "text/") {
		return "", fmt.Errorf("file content looks like %s, not a CSV", detected)
	}
	return detected, nil
}
