package assembly

import "fmt"

// ErrorCode is a machine-readable failure classification carried over
// the wire; values are part of the API contract.
type ErrorCode string

const (
	CodeInvalidConfig    ErrorCode = "invalid_config"
	CodeEmbeddingFailed  ErrorCode = "embedding_failed"
	CodeUnknownModel     ErrorCode = "unknown_model"
	CodeSearchFailed     ErrorCode = "search_failed"
	CodeCacheUnavailable ErrorCode = "cache_unavailable"
	CodeBudgetExceeded   ErrorCode = "budget_exceeded"
	CodeEnrichmentFailed ErrorCode = "enrichment_failed"
)

// Error is a tagged service error: a code for machines, an HTTP-style
// status for transport, and optional details for operators.
type Error struct {
	Op         string                 `json:"op"` // "vectorization", "enrichment", "vector_search", "embedding"
	Code       ErrorCode              `json:"code"`
	StatusCode int                    `json:"statusCode"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
}

// NewVectorizationError tags a vectorization failure.
func NewVectorizationError(code ErrorCode, statusCode int, message string) *Error {
	return &Error{Op: "vectorization", Code: code, StatusCode: statusCode, Message: message}
}

// NewEnrichmentError tags an enrichment failure.
func NewEnrichmentError(code ErrorCode, statusCode int, message string) *Error {
	return &Error{Op: "enrichment", Code: code, StatusCode: statusCode, Message: message}
}

// NewVectorSearchError tags a vector search failure.
func NewVectorSearchError(code ErrorCode, statusCode int, message string) *Error {
	return &Error{Op: "vector_search", Code: code, StatusCode: statusCode, Message: message}
}

// NewEmbeddingError tags an embedding failure.
func NewEmbeddingError(code ErrorCode, statusCode int, message string) *Error {
	return &Error{Op: "embedding", Code: code, StatusCode: statusCode, Message: message}
}

// WithDetails attaches diagnostic detail to the error.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}
