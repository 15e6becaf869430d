package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField      Code = "REQUIRED_FIELD"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeValidationError    Code = "VALIDATION_ERROR"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Chain connectivity error codes
const (
	CodeChainConnectionFailed Code = "CHAIN_CONNECTION_FAILED"
	CodeChainRPCError         Code = "CHAIN_RPC_ERROR"
	CodeBlockNotFound         Code = "BLOCK_NOT_FOUND"
	CodeBlockFetchFailed      Code = "BLOCK_FETCH_FAILED"
)

// Fee analysis error codes
const (
	CodeInvalidSampleWindow Code = "INVALID_SAMPLE_WINDOW"
	CodeInvalidSampleStride Code = "INVALID_SAMPLE_STRIDE"
	CodeInvalidPercentile   Code = "INVALID_PERCENTILE"
)

// Resilience error codes
const (
	CodeCircuitOpen       Code = "CIRCUIT_OPEN"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
)
