// filepath: internal/repository/errors.go
package repository

// Error is a constant-friendly error type for repository sentinels.
type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }
