package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeInvalidState      ErrorCode = "INVALID_STATE"
	ErrCodePreconditionUnmet ErrorCode = "PRECONDITION_UNMET"
	ErrCodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	ErrCodePolicyViolation   ErrorCode = "POLICY_VIOLATION"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeInvalidState, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodePreconditionUnmet, ErrCodePolicyViolation:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidAmount, ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound проверяет, является ли ошибка ошибкой "не найдено".
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

// IsBusinessRejection проверяет, является ли ошибка бизнес-отказом.
// Бизнес-отказы терминальны для данной попытки и не должны ретраиться вслепую,
// в отличие от инфраструктурных ошибок.
func IsBusinessRejection(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case ErrCodeNotFound, ErrCodeInvalidState, ErrCodePreconditionUnmet,
		ErrCodeInvalidAmount, ErrCodePolicyViolation, ErrCodeValidation, ErrCodeConflict:
		return true
	}
	return false
}

// IsRetryable проверяет, стоит ли вызывающей стороне повторить запрос.
func IsRetryable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) &&
		(appErr.Code == ErrCodeDatabaseError || appErr.Code == ErrCodeInternal)
}

// CodeOf возвращает машиночитаемый код ошибки.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

var (
	ErrAccountNotFound   = New(ErrCodeNotFound, "escrow счёт не найден")
	ErrConditionNotFound = New(ErrCodeNotFound, "условие не найдено")
	ErrDisputeNotFound   = New(ErrCodeNotFound, "спор не найден")
	ErrUnauthorized      = New(ErrCodeUnauthorized, "требуется авторизация")
)
