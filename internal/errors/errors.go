package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType категория ошибки
type ErrorType string

const (
	ErrorTypeInvalidPieceGeometry ErrorType = "invalid_piece_geometry"
	ErrorTypeDegenerateEdge       ErrorType = "degenerate_edge"
	ErrorTypeAmbiguousRotation    ErrorType = "ambiguous_rotation"
	ErrorTypeIncompatibleEdges    ErrorType = "incompatible_edges"
	ErrorTypeSearchBudget         ErrorType = "search_budget_exceeded"
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeNotFound             ErrorType = "not_found"
	ErrorTypeInternal             ErrorType = "internal"
)

// Коды завершения CLI-утилит.
const (
	ExitOK                   = 0
	ExitInternal             = 1
	ExitInvalidPiece         = 2
	ExitDegenerateEdge       = 3
	ExitIncompatibleEdges    = 4
	ExitSearchBudgetExceeded = 5
	ExitUsage                = 64
	ExitNotFound             = 66
)

// AppError структурированная ошибка приложения
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	ExitCode   int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap возвращает исходную ошибку
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails возвращает копию ошибки с дополнительным описанием.
func (e *AppError) WithDetails(format string, args ...interface{}) *AppError {
	c := *e
	c.Details = fmt.Sprintf(format, args...)
	return &c
}

// NewInvalidPieceGeometry: у детали не нашлось четырёх углов, классификация невозможна.
func NewInvalidPieceGeometry(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidPieceGeometry,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		ExitCode:   ExitInvalidPiece,
		Cause:      cause,
	}
}

// NewDegenerateEdge: у стороны слишком мало точек или нулевая хорда.
func NewDegenerateEdge(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDegenerateEdge,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		ExitCode:   ExitDegenerateEdge,
		Cause:      cause,
	}
}

// NewAmbiguousRotation используется только как предупреждение нормализатора.
func NewAmbiguousRotation(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeAmbiguousRotation,
		Message:    message,
		StatusCode: http.StatusOK,
		ExitCode:   ExitOK,
		Cause:      cause,
	}
}

// NewIncompatibleEdges: стороны нельзя сопоставлять (плоская, одного типа, одна деталь).
func NewIncompatibleEdges(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeIncompatibleEdges,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		ExitCode:   ExitIncompatibleEdges,
		Cause:      cause,
	}
}

// NewSearchBudgetExceeded: перебор углов упёрся в лимит итераций.
func NewSearchBudgetExceeded(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeSearchBudget,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		ExitCode:   ExitSearchBudgetExceeded,
		Cause:      cause,
	}
}

// NewValidationError создаёт ошибку валидации
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		ExitCode:   ExitUsage,
		Cause:      cause,
	}
}

// NewNotFoundError создаёт ошибку "не найдено"
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		ExitCode:   ExitNotFound,
		Cause:      cause,
	}
}

// NewInternalError создаёт внутреннюю ошибку
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		ExitCode:   ExitInternal,
		Cause:      cause,
	}
}

// IsType проверяет тип ошибки, в том числе обёрнутой через %w
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode извлекает HTTP-код из ошибки
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetExitCode извлекает код завершения процесса из ошибки
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ExitInternal
}
