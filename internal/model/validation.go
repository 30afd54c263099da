package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError はフィールド単位の検証エラーを表す。
// Locはエラー箇所（例: ["body", "username"]、["query", "limit"]）。
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError は入力の検証エラーを表す。422として返される。
type ValidationError struct {
	Fields []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError は単一フィールドの検証エラーを生成する。
func NewValidationError(loc []string, msg, typ string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Loc: loc, Msg: msg, Type: typ}}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラー箇所はGoのフィールド名ではなくJSONのキー名で報告する
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register identifier validation: %v", err))
	}

	return v
}

// Validate はリクエストボディの構造体を検証する。
// 検証エラーの場合は*ValidationErrorを返す。
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, typ := describeFieldError(fe)
		fields = append(fields, FieldError{
			Loc:  []string{"body", fe.Field()},
			Msg:  msg,
			Type: typ,
		})
	}
	return &ValidationError{Fields: fields}
}

// describeFieldError はvalidatorのタグをメッセージとエラー種別に変換する。
func describeFieldError(fe validator.FieldError) (string, string) {
	switch fe.Tag() {
	case "required":
		return "field required", "value_error.missing"
	case "min":
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param()), "value_error.any_str.min_length"
	case "identifier":
		return "must consist of alphanumeric characters and underscores", "value_error"
	case "http_url":
		return "invalid or missing URL scheme, expected http or https", "value_error.url.scheme"
	default:
		return fmt.Sprintf("failed on the %q validation", fe.Tag()), "value_error"
	}
}

// IsIdentifier はsが識別子として有効かどうかを判定する。
// 先頭は文字（字母数字Nlを含む）かアンダースコア、2文字目以降はさらに
// 数字・結合文字（Mn、Mc）・連結句読点（Pc）も許可する。
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if isIdentifierStart(r) {
			continue
		}
		if i > 0 && isIdentifierContinue(r) {
			continue
		}
		return false
	}
	return true
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}
