package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Doer 发送 HTTP 请求，*http.Client 即满足；并发安全由实现保证
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options HTTP 客户端选项
type Options struct {
	Timeout time.Duration
	Proxy   string // 为空时使用环境变量中的代理
}

// NewClient 创建所有账户共享的 HTTP 客户端
func NewClient(opts Options) (*http.Client, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, fmt.Errorf("invalid proxy url: %q", opts.Proxy)
		}
		tr.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: tr,
		Timeout:   opts.Timeout,
	}, nil
}

var _ Doer = (*http.Client)(nil)
