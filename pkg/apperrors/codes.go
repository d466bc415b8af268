package apperrors

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeRecordNotFound   ErrorCode = "RECORD_NOT_FOUND"

	// Pipeline codes
	CodeStageFailed        ErrorCode = "STAGE_FAILED"
	CodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
)
