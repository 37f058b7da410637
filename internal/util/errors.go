package util

import "fmt"

type ErrorCode string

const (
	CodeUnauthenticated        ErrorCode = "UNAUTHENTICATED"
	CodeForbidden              ErrorCode = "FORBIDDEN"
	CodeValidation             ErrorCode = "VALIDATION"
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeUpstreamFailure        ErrorCode = "UPSTREAM_FAILURE"
	CodeClassificationDegraded ErrorCode = "CLASSIFICATION_DEGRADED"
	CodeUnknownAction          ErrorCode = "UNKNOWN_ACTION"
)

// AppError 可归类的业务错误，Code 决定 HTTP 状态与信封文案。
type AppError struct {
	Code    ErrorCode
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *AppError {
	return NewAppError(CodeValidation, format, args...)
}

func UpstreamError(err error) *AppError {
	return &AppError{Code: CodeUpstreamFailure, Message: err.Error()}
}
