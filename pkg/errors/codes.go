package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeMessagingError     ErrorCode = "COMMON_012"
	ErrCodeNotImplemented     ErrorCode = "COMMON_013"
)

// Report Module Error Codes
const (
	ErrCodeReportNotFound        ErrorCode = "RPT_001"
	ErrCodeReportInvalidAgency   ErrorCode = "RPT_002"
	ErrCodeReportInvalidCategory ErrorCode = "RPT_003"
	ErrCodeReportInvalidAmount   ErrorCode = "RPT_004"
	ErrCodeReportAlreadyExists   ErrorCode = "RPT_005"
)

// Analytics Module Error Codes
const (
	ErrCodeInsufficientData ErrorCode = "ANA_001"
	ErrCodeComputeFailed    ErrorCode = "ANA_002"
	ErrCodeClusteringFailed ErrorCode = "ANA_003"
	ErrCodeDetectionFailed  ErrorCode = "ANA_004"
)

// Aliases used across layers for the most common conditions.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeReportNotFound:        http.StatusNotFound,
	ErrCodeReportInvalidAgency:   http.StatusBadRequest,
	ErrCodeReportInvalidCategory: http.StatusBadRequest,
	ErrCodeReportInvalidAmount:   http.StatusBadRequest,
	ErrCodeReportAlreadyExists:   http.StatusConflict,

	ErrCodeInsufficientData: http.StatusUnprocessableEntity,
	ErrCodeComputeFailed:    http.StatusInternalServerError,
	ErrCodeClusteringFailed: http.StatusInternalServerError,
	ErrCodeDetectionFailed:  http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "message broker error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeReportNotFound:        "report not found",
	ErrCodeReportInvalidAgency:   "unknown agency",
	ErrCodeReportInvalidCategory: "unknown report category",
	ErrCodeReportInvalidAmount:   "estimated amount must not be negative",
	ErrCodeReportAlreadyExists:   "report already exists",

	ErrCodeInsufficientData: "not enough reports for the requested analysis",
	ErrCodeComputeFailed:    "numeric computation failed",
	ErrCodeClusteringFailed: "clustering failed",
	ErrCodeDetectionFailed:  "anomaly detection failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
