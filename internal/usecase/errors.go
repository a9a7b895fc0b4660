package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// ドメインエラーの種別。HTTPのstatusとは別に、種類をコードで区別する
// （ACCOUNT_DEACTIVATED と SUBSCRIPTION_EXPIRED はどちらも403だがコードが違う）。
const (
	CodeNotFound               = "NOT_FOUND"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeAccountDeactivated     = "ACCOUNT_DEACTIVATED"
	CodeSubscriptionExpired    = "SUBSCRIPTION_EXPIRED"
	CodeValidationError        = "VALIDATION_ERROR"
	CodeConflict               = "CONFLICT"
	CodeProductUnavailable     = "PRODUCT_UNAVAILABLE"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInternal               = "INTERNAL"
)

// 境界まで運ぶ構造化エラー（status + 種別コード + メッセージ）。
type HTTPError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewHTTPError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// IsCode はerrが指定コードのHTTPErrorかどうか。
func IsCode(err error, code string) bool {
	he, ok := AsHTTPError(err)
	return ok && he.Code == code
}

func errNotFound(message string) error {
	return NewHTTPError(http.StatusNotFound, CodeNotFound, message)
}

func errUnauthorized(message string) error {
	return NewHTTPError(http.StatusForbidden, CodeUnauthorized, message)
}

func errInvalidCredentials() error {
	// メール違いとパスワード違いはわざと同じメッセージ
	return NewHTTPError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")
}

func errAccountDeactivated(message string) error {
	return NewHTTPError(http.StatusForbidden, CodeAccountDeactivated, message)
}

func errSubscriptionExpired() error {
	return NewHTTPError(http.StatusForbidden, CodeSubscriptionExpired, "subscription has expired")
}

func errValidation(message string) error {
	return NewHTTPError(http.StatusBadRequest, CodeValidationError, message)
}

func errConflict(message string) error {
	return NewHTTPError(http.StatusConflict, CodeConflict, message)
}

func errProductUnavailable(name string) error {
	return NewHTTPError(http.StatusBadRequest, CodeProductUnavailable, "product is not available: "+name)
}

func errInvalidTransition(message string) error {
	return NewHTTPError(http.StatusBadRequest, CodeInvalidStateTransition, message)
}

func errInternal() error {
	return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
}
