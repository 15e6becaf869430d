package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:      "Required field is missing",
	CodeInvalidInput:       "Invalid input provided",
	CodeValidationError:    "Validation error",
	CodeConfigurationError: "Configuration error",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "Unknown error",

	CodeChainConnectionFailed: "Failed to connect to the chain RPC endpoint",
	CodeChainRPCError:         "Chain RPC request failed",
	CodeBlockNotFound:         "Block not found",
	CodeBlockFetchFailed:      "Failed to fetch block",

	CodeInvalidSampleWindow: "Sample window must be greater than zero",
	CodeInvalidSampleStride: "Sample stride must be greater than zero",
	CodeInvalidPercentile:   "Target percentile must be between 0.0 and 1.0",

	CodeCircuitOpen:       "Circuit breaker is open",
	CodeRateLimitExceeded: "Rate limit exceeded",
}
