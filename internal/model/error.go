// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrConflict       = errors.New("resource conflict")

	// エンジン固有のエラー分類
	ErrNetwork = errors.New("network error")        // 通信・ステータス異常
	ErrFormat  = errors.New("format error")         // ペイロードが解釈できない
	ErrCache   = errors.New("local cache error")    // ローカルキャッシュ異常 (非致命)
	ErrNoData  = errors.New("no word data available") // フォールバックまで尽きた終端状態
)

// ErrorDetail はAPIエラーレスポンスに載せる詳細です。
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はコードと利用者向けメッセージを持つアプリケーションエラーです。
// 根本原因のエラーをラップし、errors.Is での分類判定を維持します。
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Detail.Code, e.Detail.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Code, e.Detail.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
