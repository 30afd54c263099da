// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError はハンドラーがHTTPステータスに変換するドメインエラーを表す。
// MessageはレスポンスのdetailとしてそのままAPI利用者に返される。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
	Err     error  // 原因となった下位のエラー（任意）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は原因となったエラーを返す。
func (e *APIError) Unwrap() error {
	return e.Err
}

// 定義済みエラーコード
const (
	ErrCodeUserAlreadyExists = "USER_ALREADY_EXISTS"
	ErrCodeFeedAlreadyExists = "FEED_ALREADY_EXISTS"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeFeedNotFound      = "FEED_NOT_FOUND"
)

// NewUserAlreadyExistsError はusernameの一意制約違反エラーを生成する。
func NewUserAlreadyExistsError(cause error) *APIError {
	return &APIError{
		Code:    ErrCodeUserAlreadyExists,
		Message: "User already exists",
		Err:     cause,
	}
}

// NewFeedAlreadyExistsError はurlの一意制約違反エラーを生成する。
func NewFeedAlreadyExistsError(cause error) *APIError {
	return &APIError{
		Code:    ErrCodeFeedAlreadyExists,
		Message: "Feed already exists",
		Err:     cause,
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
	}
}

// NewFeedNotFoundError はフィードが見つからない場合のエラーを生成する。
func NewFeedNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeFeedNotFound,
		Message: "Feed not found",
	}
}

// IsAlreadyExists はerrが一意制約違反を表すAPIErrorかどうかを判定する。
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrCodeUserAlreadyExists || apiErr.Code == ErrCodeFeedAlreadyExists
}
