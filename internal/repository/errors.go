package repository

import "errors"

var (
	// 見つからないを統一
	ErrNotFound = errors.New("not found")

	// unique制約違反（email重複・orderNumber重複など）を統一
	ErrConflict = errors.New("conflict")
)
