package errorutil

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind string

const (
	KindUnknown   Kind = "unknown"
	KindConfig    Kind = "config"    // 配置错误，启动前终止
	KindTransport Kind = "transport" // 网络/TLS/请求头构造失败
	KindParse     Kind = "parse"     // 响应不是合法 JSON
	KindBusiness  Kind = "business"  // 服务端返回非成功 code
	KindExhausted Kind = "exhausted" // 重试次数耗尽
	KindLogWrite  Kind = "log_write" // 日志写入失败，只上报不终止
)

// Error 带分类的错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrKind 返回错误分类
func (e *Error) ErrKind() Kind {
	return e.Kind
}

// Config 创建配置错误
func Config(err error) *Error {
	return &Error{
		Kind: KindConfig,
		Err:  err,
	}
}

// LogWrite 创建日志写入错误
func LogWrite(sink string, err error) *Error {
	return &Error{
		Kind:    KindLogWrite,
		Message: fmt.Sprintf("write %s log failed", sink),
		Err:     err,
	}
}

// kinded 暴露错误分类的类型
type kinded interface {
	ErrKind() Kind
}

// KindOf 沿错误链查找分类
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.ErrKind()
	}
	return KindUnknown
}
