package services

import "errors"

// Sentinel errors surfaced to handlers. Authorization failures and missing
// files map to 404 responses; the message never includes a filesystem path.
var (
	ErrProjectNotFound = errors.New("project not found or access denied")
	ErrFileNotFound    = errors.New("file not found")
)

// OperationResult is the uniform shape returned by version-control
// operations. Git failures are reported through it instead of raised.
type OperationResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	CommitHash string `json:"commit_hash,omitempty"`
}
