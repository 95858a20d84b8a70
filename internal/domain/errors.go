package domain

import (
	"fmt"
	"strings"
)

// ValidationError 表示请求参数不合法，在进入数据库之前就能发现
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 表示期望查到一条记录但是没有查到
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v 不存在", e.Entity, e.ID)
}

// PersistenceError 表示数据库操作失败，或者影响的行数与预期不符
type PersistenceError struct {
	Op       string
	Expected int64
	Affected int64
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s 失败: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s 失败: 预期影响 %d 行，实际影响 %d 行", e.Op, e.Expected, e.Affected)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// OverlapError 表示预约时间与同一商家同一天的已有预约冲突
type OverlapError struct {
	ConflictingIDs []int64
}

func (e *OverlapError) Error() string {
	ids := make([]string, 0, len(e.ConflictingIDs))
	for _, id := range e.ConflictingIDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("预约时间与已有预约冲突 (%s)", strings.Join(ids, ", "))
}
