package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrProblemNotFound   = errors.New("problem not found")
	ErrBallotNotOpened   = errors.New("ballot not opened")
	ErrOffererMissing    = errors.New("offerer id missing")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotAssigned       = errors.New("not an assigned examiner or translator")
	ErrArchiveAdminOnly  = errors.New("only admin can archive a problem")
	ErrLastAdmin         = errors.New("cannot demote the last admin")
)

// ValidationError 输入校验错误，Field 标出出错的字段或分类
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

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrNotAssigned) ||
		errors.Is(err, ErrArchiveAdminOnly) ||
		errors.Is(err, ErrLastAdmin)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProblemNotFound) ||
		errors.Is(err, ErrBallotNotOpened) ||
		errors.Is(err, ErrOffererMissing)
}
