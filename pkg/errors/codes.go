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
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeStorageError       ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Document Module Error Codes
const (
	ErrCodeUnsupportedFormat    ErrorCode = "DOC_001"
	ErrCodeExtractionFailed     ErrorCode = "DOC_002"
	ErrCodeEmptyDocument        ErrorCode = "DOC_003"
	ErrCodeDocumentTooLarge     ErrorCode = "DOC_004"
	ErrCodeOCRUnavailable       ErrorCode = "DOC_005"
	ErrCodeDocumentUploadFailed ErrorCode = "DOC_006"
)

// Classification Module Error Codes
const (
	ErrCodeModelUnavailable    ErrorCode = "CLS_001"
	ErrCodeModelLoadFailed     ErrorCode = "CLS_002"
	ErrCodeLowConfidence       ErrorCode = "CLS_003"
	ErrCodeTrainingDataInvalid ErrorCode = "CLS_004"
	ErrCodeTrainingFailed      ErrorCode = "CLS_005"
)

// Risk Module Error Codes
const (
	ErrCodeRiskScoringFailed    ErrorCode = "RISK_001"
	ErrCodePredictionFailed     ErrorCode = "RISK_002"
	ErrCodeRecommendationFailed ErrorCode = "RISK_003"
	ErrCodeUnknownClauseType    ErrorCode = "RISK_004"
	ErrCodeUnknownScenario      ErrorCode = "RISK_005"
)

// Analysis Module Error Codes
const (
	ErrCodeAnalysisNotFound    ErrorCode = "ANL_001"
	ErrCodeAnalysisFailed      ErrorCode = "ANL_002"
	ErrCodeComparisonTooFew    ErrorCode = "ANL_003"
	ErrCodeBenchmarkFailed     ErrorCode = "ANL_004"
	ErrCodeComplianceFailed    ErrorCode = "ANL_005"
	ErrCodeChatContextNotFound ErrorCode = "ANL_006"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeUnsupportedFormat:    http.StatusBadRequest,
	ErrCodeExtractionFailed:     http.StatusUnprocessableEntity,
	ErrCodeEmptyDocument:        http.StatusBadRequest,
	ErrCodeDocumentTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeOCRUnavailable:       http.StatusServiceUnavailable,
	ErrCodeDocumentUploadFailed: http.StatusInternalServerError,

	ErrCodeModelUnavailable:    http.StatusServiceUnavailable,
	ErrCodeModelLoadFailed:     http.StatusInternalServerError,
	ErrCodeLowConfidence:       http.StatusUnprocessableEntity,
	ErrCodeTrainingDataInvalid: http.StatusBadRequest,
	ErrCodeTrainingFailed:      http.StatusInternalServerError,

	ErrCodeRiskScoringFailed:    http.StatusInternalServerError,
	ErrCodePredictionFailed:     http.StatusInternalServerError,
	ErrCodeRecommendationFailed: http.StatusInternalServerError,
	ErrCodeUnknownClauseType:    http.StatusBadRequest,
	ErrCodeUnknownScenario:      http.StatusBadRequest,

	ErrCodeAnalysisNotFound:    http.StatusNotFound,
	ErrCodeAnalysisFailed:      http.StatusInternalServerError,
	ErrCodeComparisonTooFew:    http.StatusBadRequest,
	ErrCodeBenchmarkFailed:     http.StatusInternalServerError,
	ErrCodeComplianceFailed:    http.StatusInternalServerError,
	ErrCodeChatContextNotFound: http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeUnsupportedFormat:    "unsupported document format",
	ErrCodeExtractionFailed:     "failed to extract text from document",
	ErrCodeEmptyDocument:        "document contains no extractable text",
	ErrCodeDocumentTooLarge:     "document exceeds maximum size",
	ErrCodeOCRUnavailable:       "OCR engine not available",
	ErrCodeDocumentUploadFailed: "failed to store uploaded document",

	ErrCodeModelUnavailable:    "classification model not available",
	ErrCodeModelLoadFailed:     "failed to load classification model",
	ErrCodeLowConfidence:       "classification confidence below threshold",
	ErrCodeTrainingDataInvalid: "invalid training data",
	ErrCodeTrainingFailed:      "model training failed",

	ErrCodeRiskScoringFailed:    "risk scoring failed",
	ErrCodePredictionFailed:     "future risk prediction failed",
	ErrCodeRecommendationFailed: "recommendation generation failed",
	ErrCodeUnknownClauseType:    "unknown clause type",
	ErrCodeUnknownScenario:      "unknown company scenario",

	ErrCodeAnalysisNotFound:    "analysis not found",
	ErrCodeAnalysisFailed:      "agreement analysis failed",
	ErrCodeComparisonTooFew:    "comparison requires at least two analyses",
	ErrCodeBenchmarkFailed:     "benchmark computation failed",
	ErrCodeComplianceFailed:    "compliance check failed",
	ErrCodeChatContextNotFound: "chat context not found",
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
