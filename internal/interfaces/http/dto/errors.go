package dto

import (
	"net/http"
	"strings"
)

// domainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to the prefix rules in GetHTTPStatus.
var domainCodeHTTPStatus = map[string]int{
	// auth
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"NOT_OWNER":           http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"ACCOUNT_PENDING":     http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"USER_DEACTIVATED":    http.StatusForbidden,

	// lookups
	"NOT_FOUND":          http.StatusNotFound,
	"PARENT_NOT_FOUND":   http.StatusNotFound,
	"NO_REFERENCE_PRICE": http.StatusNotFound,

	// uniqueness and conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"USERNAME_TAKEN":       http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"CODE_TAKEN":           http.StatusConflict,
	"LICENSE_TAKEN":        http.StatusConflict,
	"PROFILE_EXISTS":       http.StatusConflict,
	"PRICE_WINDOW_OVERLAP": http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DISTRICT_IN_USE":      http.StatusConflict,

	// business rules
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":    http.StatusUnprocessableEntity,
	"NOT_A_RETAILER":        http.StatusUnprocessableEntity,
	"RETAILER_SUSPENDED":    http.StatusUnprocessableEntity,
	"RETAILER_NOT_VERIFIED": http.StatusUnprocessableEntity,
	"SKU_NOT_ACTIVE":        http.StatusUnprocessableEntity,
	"NOT_ACTIVE":            http.StatusUnprocessableEntity,
	"DISCONTINUED":          http.StatusUnprocessableEntity,
	"INACTIVE_PARENT":       http.StatusUnprocessableEntity,
	"MAX_DEPTH_EXCEEDED":    http.StatusUnprocessableEntity,
	"DISTRICT_REQUIRED":     http.StatusUnprocessableEntity,
	"DISTRICT_UNCHANGED":    http.StatusUnprocessableEntity,
	"ROLE_UNCHANGED":        http.StatusUnprocessableEntity,
	"ROLE_NOT_REGISTERABLE": http.StatusUnprocessableEntity,
	"NOT_LOCKED":            http.StatusUnprocessableEntity,

	// input
	"BAD_REQUEST":      http.StatusBadRequest,
	"VALIDATION_ERROR": http.StatusBadRequest,
	"RATE_LIMITED":     http.StatusTooManyRequests,

	// infrastructure
	"INTERNAL_ERROR":      http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus resolves a domain error code to an HTTP status code.
// Unlisted codes are resolved by shape: *_NOT_FOUND is 404, ALREADY_* is 422,
// INVALID_* is 400. Everything else is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "ALREADY_"):
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
