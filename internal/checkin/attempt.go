package checkin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/justinwongcn/checkin/pkg/config"
	"github.com/justinwongcn/checkin/pkg/logger"
	"github.com/justinwongcn/checkin/pkg/sink"
	"github.com/justinwongcn/checkin/pkg/transport"
)

// Attempter 执行单次签到
type Attempter interface {
	Attempt(ctx context.Context, account config.Account) Outcome
}

// checkinRequest 签到请求体
type checkinRequest struct {
	Token string `json:"token"`
}

// Checker 单次签到：发送请求、解析响应、给出 Outcome，不做重试
type Checker struct {
	client   transport.Doer
	sink     sink.Sink
	logger   logger.Logger
	endpoint string
	payload  []byte
	opts     options
}

// NewChecker 创建 Checker
func NewChecker(client transport.Doer, s sink.Sink, log logger.Logger, endpoint, token string, opts ...Option) (*Checker, error) {
	if endpoint == "" {
		return nil, errors.New("checkin endpoint is required")
	}

	payload, err := json.Marshal(checkinRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("marshal checkin payload failed: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Checker{
		client:   client,
		sink:     s,
		logger:   log,
		endpoint: endpoint,
		payload:  payload,
		opts:     o,
	}, nil
}

// Attempt 执行一次签到；成功时由本方法写入成功日志
func (c *Checker) Attempt(ctx context.Context, account config.Account) Outcome {
	// 1. 构造请求
	if !validCookie(account.Cookie) {
		return &TransportFailure{Err: errors.New("invalid cookie header value")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(c.payload))
	if err != nil {
		return &TransportFailure{Err: fmt.Errorf("build request failed: %w", err)}
	}
	req.Header.Set("Cookie", account.Cookie)
	req.Header.Set("Content-Type", "application/json")

	// 2. 发送请求，无论状态码都读取响应体
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportFailure{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportFailure{Err: fmt.Errorf("read response failed: %w", err)}
	}

	// 3. 解析响应
	parsed, err := parseResponse(body)
	if err != nil {
		return &ParseFailure{RawBody: string(body), ParseError: err.Error()}
	}

	// 4. 业务 code 判断
	if parsed.Code.Or(0) != successCode {
		return &BusinessFailure{
			HTTPStatus: resp.StatusCode,
			Message:    parsed.Message.Or(defaultFailureMessage),
		}
	}

	// 5. 成功：list 为空时 Change/Balance 留空，仍记一行成功日志
	success := &Success{Message: parsed.Message.Or(defaultSuccessMessage)}
	if rec, ok := parsed.firstRecord(); ok {
		success.Change = truncateDecimal(rec.Change.Or(defaultAmount))
		success.Balance = truncateDecimal(rec.Balance.Or(defaultAmount))
	}

	line := successLine(c.opts.now(), account.Email, success)
	c.logger.Infof(ctx, "%s", line)
	if err := c.sink.Append(ctx, line); err != nil {
		c.logger.Errorf(ctx, "[Checker] write log failed: %v", err)
	}

	return success
}

var _ Attempter = (*Checker)(nil)

// validCookie 只接受可见 ASCII 与制表符；httpguts 放行的 obs-text（0x80 及以上）同样拒绝
func validCookie(v string) bool {
	if !httpguts.ValidHeaderFieldValue(v) {
		return false
	}
	for i := 0; i < len(v); i++ {
		if b := v[i]; b != '\t' && (b < 0x20 || b > 0x7e) {
			return false
		}
	}
	return true
}
