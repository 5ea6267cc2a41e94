package core

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory はエラーの種類を表す
type ErrorCategory int

const (
	// ErrorCategoryUnknown は未分類のエラー
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryIO はファイル入出力関連のエラー
	ErrorCategoryIO
	// ErrorCategoryInterpreter は外部インタプリタ関連のエラー
	ErrorCategoryInterpreter
	// ErrorCategoryValidation は入力検証関連のエラー
	ErrorCategoryValidation
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryIO:
		return "io"
	case ErrorCategoryInterpreter:
		return "interpreter"
	case ErrorCategoryValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// StructuredError は分類とコンテキスト情報を持つエラー
type StructuredError struct {
	Category ErrorCategory
	Message  string
	Context  map[string]interface{}
	inner    error
}

func (e *StructuredError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Category, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
		}
	}
	if e.inner != nil {
		fmt.Fprintf(&b, ": %v", e.inner)
	}
	return b.String()
}

// Unwrap は内部のエラーを返す
func (e *StructuredError) Unwrap() error {
	return e.inner
}

// NewStructuredError は新しいStructuredErrorを作成する
func NewStructuredError(category ErrorCategory, message string, inner error) *StructuredError {
	return &StructuredError{
		Category: category,
		Message:  message,
		Context:  make(map[string]interface{}),
		inner:    inner,
	}
}

// WithContext はコンテキスト情報を追加する
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	e.Context[key] = value
	return e
}
