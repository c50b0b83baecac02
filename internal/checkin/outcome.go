package checkin

import (
	"fmt"

	"github.com/justinwongcn/checkin/pkg/errorutil"
)

// Outcome 单次签到结果，取值为 *Success / *BusinessFailure / *ParseFailure / *TransportFailure 之一
type Outcome interface {
	outcome()
}

// Success 签到成功
type Success struct {
	Message string
	Change  string // 已截断小数部分
	Balance string // 已截断小数部分
}

// BusinessFailure 服务端返回了非成功的业务 code
type BusinessFailure struct {
	HTTPStatus int
	Message    string
}

// ParseFailure 响应体不是合法 JSON，保留原始响应便于排查
type ParseFailure struct {
	RawBody    string
	ParseError string
}

// TransportFailure 请求构造或网络交互失败
type TransportFailure struct {
	Err error
}

func (*Success) outcome() {}
func (*BusinessFailure) outcome() {}
func (*ParseFailure) outcome() {}
func (*TransportFailure) outcome() {}

func (e *BusinessFailure) Error() string {
	return fmt.Sprintf("check-in failed - HTTP status: %d, message: %s", e.HTTPStatus, e.Message)
}

// ErrKind 返回错误分类
func (e *BusinessFailure) ErrKind() errorutil.Kind { return errorutil.KindBusiness }

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse response failed: %s, response body: %s", e.ParseError, e.RawBody)
}

// ErrKind 返回错误分类
func (e *ParseFailure) ErrKind() errorutil.Kind { return errorutil.KindParse }

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// ErrKind 返回错误分类
func (e *TransportFailure) ErrKind() errorutil.Kind { return errorutil.KindTransport }

// ExhaustedError 重试次数耗尽，Last 为最后一次失败
type ExhaustedError struct {
	Attempts uint
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// ErrKind 返回错误分类
func (e *ExhaustedError) ErrKind() errorutil.Kind { return errorutil.KindExhausted }

// failure 将失败结果转为 error；成功返回 nil
func failure(o Outcome) error {
	switch v := o.(type) {
	case *BusinessFailure:
		return v
	case *ParseFailure:
		return v
	case *TransportFailure:
		return v
	default:
		return nil
	}
}
