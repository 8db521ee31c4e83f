package errors

import (
	"strings"
	"unicode"
)

// ValidateLogN checks that a stage count lies in [0, limit].
// Node count grows as (logN+1)*2^logN, so every entry point bounds it.
func ValidateLogN(logN, limit int) error {
	if logN < 0 {
		return New(ErrCodeInvalidArgument, "logN must be non-negative, got %d", logN)
	}
	if logN > limit {
		return New(ErrCodeInvalidArgument, "logN must be at most %d, got %d", limit, logN)
	}
	return nil
}

// ValidatePath validates an output or input file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateRedisAddr validates a host:port address for the redis cache backend.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "redis address cannot be empty")
	}
	i := strings.LastIndex(addr, ":")
	if i <= 0 || i == len(addr)-1 {
		return New(ErrCodeInvalidConfig, "redis address must be host:port, got %q", addr)
	}
	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidConfig, "redis port must be numeric, got %q", addr[i+1:])
		}
	}
	return nil
}
