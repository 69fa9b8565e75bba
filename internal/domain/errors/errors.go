// Package errors defines the application error taxonomy surfaced to clients.
package errors

import (
	"net/http"

	"github.com/crucial-sub/sub-board/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types. Messages are user-safe and surfaced verbatim;
// login failures intentionally share one message so a caller cannot tell
// which part of the credentials was wrong.
var (
	// Registration conflicts (distinct messages, same status).
	ErrLoginIDTaken = NewBaseError(
		http.StatusConflict,
		"LOGIN_ID_TAKEN",
		"이미 사용 중인 로그인 ID입니다.",
		"",
	)

	ErrNicknameTaken = NewBaseError(
		http.StatusConflict,
		"NICKNAME_TAKEN",
		"이미 사용 중인 닉네임입니다.",
		"",
	)

	// Authentication errors.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"로그인 ID 또는 비밀번호를 확인하세요.",
		"",
	)

	ErrRefreshTokenMissing = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_MISSING",
		"리프레시 토큰이 없습니다.",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"리프레시 토큰이 유효하지 않습니다.",
		"",
	)

	ErrRefreshSessionInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_SESSION_INVALID",
		"리프레시 토큰이 만료되었거나 유효하지 않습니다.",
		"",
	)

	ErrAccessTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"ACCESS_TOKEN_INVALID",
		"액세스 토큰이 유효하지 않습니다.",
		"",
	)

	// Lookup errors.
	ErrUserNotFound = NewBaseError(
		http.StatusUnauthorized,
		"USER_NOT_FOUND",
		"사용자를 찾을 수 없습니다.",
		"",
	)

	ErrAuthorNotFound = NewBaseError(
		http.StatusNotFound,
		"AUTHOR_NOT_FOUND",
		"작성자를 찾을 수 없습니다.",
		"",
	)

	ErrPostNotFound = NewBaseError(
		http.StatusNotFound,
		"POST_NOT_FOUND",
		"게시글을 찾을 수 없습니다.",
		"",
	)

	ErrCommentNotFound = NewBaseError(
		http.StatusNotFound,
		"COMMENT_NOT_FOUND",
		"댓글을 찾을 수 없습니다.",
		"",
	)

	// Ownership errors.
	ErrPostForbidden = NewBaseError(
		http.StatusForbidden,
		"POST_FORBIDDEN",
		"게시글을 수정하거나 삭제할 권한이 없습니다.",
		"",
	)

	ErrCommentUpdateForbidden = NewBaseError(
		http.StatusForbidden,
		"COMMENT_UPDATE_FORBIDDEN",
		"댓글을 수정할 권한이 없습니다.",
		"",
	)

	ErrCommentDeleteForbidden = NewBaseError(
		http.StatusForbidden,
		"COMMENT_DELETE_FORBIDDEN",
		"댓글을 삭제할 권한이 없습니다.",
		"",
	)

	// Validation and general errors.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"입력값이 올바르지 않습니다.",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"서버 내부 오류가 발생했습니다.",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing
// the AppError interface.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error.
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface.
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code.
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code.
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message.
func (e *DatabaseExecuteError) Message() string {
	return "데이터베이스 처리에 실패했습니다."
}

// Details returns detailed error information.
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
