package pkg

import "errors"

// 业务错误。handler 层据此决定 404 / 表单重渲染 / 跳转。
var (
	ErrNotFound      = errors.New("resource not found")
	ErrTextRequired  = errors.New("text required")
	ErrGroupInvalid  = errors.New("group does not exist")
	ErrTitleRequired = errors.New("title required")
	ErrSlugTaken     = errors.New("slug already taken")
)
