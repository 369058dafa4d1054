// Package validation checks uploaded file candidates before any external
// call is made. All checks are pure functions over the descriptor; they
// never perform I/O.
package validation

import (
	"fmt"
	"strings"

	"roomdesign/internal/domain"
)

const (
	// MaxFileSizeMB is the inclusive upload limit. Exactly 10 MiB is valid.
	MaxFileSizeMB = 10

	maxFileSizeBytes = MaxFileSizeMB * 1024 * 1024
)

// AllowedMimeTypes lists the accepted upload types, in display order.
var AllowedMimeTypes = []string{"image/jpeg", "image/png"}

// ValidateFileType accepts only the listed MIME types.
func ValidateFileType(mimeType string, allowed []string) domain.ValidationResult {
	for _, t := range allowed {
		if mimeType == t {
			return domain.ValidationResult{Valid: true}
		}
	}
	return domain.ValidationResult{
		Valid: false,
		Error: fmt.Sprintf("Invalid file type. Allowed types: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateFileSize accepts sizes up to and including maxMB mebibytes.
func ValidateFileSize(sizeBytes int64, maxMB int) domain.ValidationResult {
	if sizeBytes > int64(maxMB)*1024*1024 {
		return domain.ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("File size exceeds %dMB limit", maxMB),
		}
	}
	return domain.ValidationResult{Valid: true}
}

// ValidateFile runs the type check first; the first failure short-circuits.
func ValidateFile(mimeType string, sizeBytes int64) domain.ValidationResult {
	if res := ValidateFileType(mimeType, AllowedMimeTypes); !res.Valid {
		return res
	}
	return ValidateFileSize(sizeBytes, MaxFileSizeMB)
}
