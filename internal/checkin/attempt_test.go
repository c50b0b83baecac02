package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/justinwongcn/checkin/pkg/config"
	"github.com/justinwongcn/checkin/pkg/errorutil"
	"github.com/justinwongcn/checkin/pkg/logger"
	"github.com/justinwongcn/checkin/pkg/sink"
)

var fixedNow = time.Date(2026, 10, 17, 8, 30, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

var testAccount = config.Account{Email: "a@example.com", Cookie: "koa:sess=abc; koa:sess.sig=def"}

// newTestServer 返回固定状态码与响应体，并记录收到的请求
func newTestServer(t *testing.T, status int, body string, seen func(r *http.Request, body []byte)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if seen != nil {
			seen(r, b)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestChecker(t *testing.T, endpoint string, s sink.Sink, log logger.Logger) *Checker {
	t.Helper()
	c, err := NewChecker(http.DefaultClient, s, log, endpoint, config.DefaultToken, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	return c
}

func TestChecker_Success(t *testing.T) {
	var gotCookie, gotMethod string
	var gotPayload map[string]string
	srv := newTestServer(t, http.StatusOK,
		`{"code":1,"message":"Checkin! Got 1 Points","list":[{"change":"12.50","balance":"99.999"}]}`,
		func(r *http.Request, body []byte) {
			gotCookie = r.Header.Get("Cookie")
			gotMethod = r.Method
			_ = json.Unmarshal(body, &gotPayload)
		})

	mem := sink.NewMemory()
	c := newTestChecker(t, srv.URL, mem, logger.NewNop())

	out := c.Attempt(context.Background(), testAccount)

	s, ok := out.(*Success)
	if !ok {
		t.Fatalf("expected *Success, got %T (%v)", out, out)
	}
	if s.Change != "12" || s.Balance != "99" || s.Message != "Checkin! Got 1 Points" {
		t.Fatalf("unexpected success %+v", s)
	}
	if gotMethod != http.MethodPost || gotCookie != testAccount.Cookie {
		t.Fatalf("unexpected request: method=%s cookie=%q", gotMethod, gotCookie)
	}
	if gotPayload["token"] != "glados.one" {
		t.Fatalf("unexpected payload %v", gotPayload)
	}

	lines := mem.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %v", lines)
	}
	want := "[2026-10-17 08:30:00] Account: a@example.com, Message: Checkin! Got 1 Points, Change: 12, Balance: 99"
	if lines[0] != want {
		t.Fatalf("log line:\n got %q\nwant %q", lines[0], want)
	}
}

func TestChecker_SuccessDefaults(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"code":1,"list":[{"change":"-3"}]}`, nil)
	mem := sink.NewMemory()

	out := newTestChecker(t, srv.URL, mem, logger.NewNop()).Attempt(context.Background(), testAccount)

	s, ok := out.(*Success)
	if !ok {
		t.Fatalf("expected *Success, got %T", out)
	}
	if s.Message != "No message" || s.Change != "-3" || s.Balance != "0" {
		t.Fatalf("unexpected success %+v", s)
	}
}

func TestChecker_SuccessWithEmptyList(t *testing.T) {
	for _, body := range []string{`{"code":1,"message":"ok","list":[]}`, `{"code":1,"message":"ok"}`} {
		srv := newTestServer(t, http.StatusOK, body, nil)
		mem := sink.NewMemory()

		out := newTestChecker(t, srv.URL, mem, logger.NewNop()).Attempt(context.Background(), testAccount)

		s, ok := out.(*Success)
		if !ok {
			t.Fatalf("%s: expected *Success, got %T", body, out)
		}
		if s.Change != "" || s.Balance != "" {
			t.Fatalf("%s: expected empty change/balance, got %+v", body, s)
		}
		lines := mem.Lines()
		if len(lines) != 1 || !strings.HasSuffix(lines[0], "Message: ok, Change: , Balance: ") {
			t.Fatalf("%s: unexpected lines %v", body, lines)
		}
	}
}

func TestChecker_BusinessFailure(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "explicit message", status: http.StatusOK, body: `{"code":-2,"message":"Please Try Tomorrow"}`, wantMessage: "Please Try Tomorrow"},
		{name: "default message", status: http.StatusForbidden, body: `{"code":0}`, wantMessage: "未知错误"},
		{name: "non-object json", status: http.StatusBadGateway, body: `"oops"`, wantMessage: "未知错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, nil)
			mem := sink.NewMemory()

			out := newTestChecker(t, srv.URL, mem, logger.NewNop()).Attempt(context.Background(), testAccount)

			f, ok := out.(*BusinessFailure)
			if !ok {
				t.Fatalf("expected *BusinessFailure, got %T", out)
			}
			if f.HTTPStatus != tt.status || f.Message != tt.wantMessage {
				t.Fatalf("unexpected failure %+v", f)
			}
			if errorutil.KindOf(f) != errorutil.KindBusiness {
				t.Fatalf("unexpected kind %s", errorutil.KindOf(f))
			}
			if len(mem.Lines()) != 0 {
				t.Fatalf("failures must not be logged by the attempt: %v", mem.Lines())
			}
		})
	}
}

func TestChecker_ParseFailurePreservesBody(t *testing.T) {
	raw := "<html>\n  <body>502 Bad Gateway</body>\n</html>"
	srv := newTestServer(t, http.StatusBadGateway, raw, nil)
	mem := sink.NewMemory()

	out := newTestChecker(t, srv.URL, mem, logger.NewNop()).Attempt(context.Background(), testAccount)

	f, ok := out.(*ParseFailure)
	if !ok {
		t.Fatalf("expected *ParseFailure, got %T", out)
	}
	if f.RawBody != raw {
		t.Fatalf("raw body changed: %q", f.RawBody)
	}
	if f.ParseError == "" {
		t.Fatalf("parse error should be recorded")
	}
	if len(mem.Lines()) != 0 {
		t.Fatalf("unexpected log lines %v", mem.Lines())
	}
}

func TestChecker_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := newTestChecker(t, url, sink.NewMemory(), logger.NewNop()).Attempt(context.Background(), testAccount)

	f, ok := out.(*TransportFailure)
	if !ok {
		t.Fatalf("expected *TransportFailure, got %T", out)
	}
	if errorutil.KindOf(f) != errorutil.KindTransport {
		t.Fatalf("unexpected kind %s", errorutil.KindOf(f))
	}
}

func TestChecker_InvalidCookie(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
	}{
		{name: "line break", cookie: "bad\r\ncookie"},
		{name: "delete byte", cookie: "sess=\x7f"},
		{name: "non-ascii", cookie: "sess=é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			srv := newTestServer(t, http.StatusOK, `{"code":1}`, func(*http.Request, []byte) { called = true })

			account := config.Account{Email: "b@example.com", Cookie: tt.cookie}
			out := newTestChecker(t, srv.URL, sink.NewMemory(), logger.NewNop()).Attempt(context.Background(), account)

			if _, ok := out.(*TransportFailure); !ok {
				t.Fatalf("expected *TransportFailure, got %T", out)
			}
			if called {
				t.Fatalf("request must not be sent with an invalid cookie")
			}
		})
	}
}

func TestValidCookie(t *testing.T) {
	for _, v := range []string{"", "koa:sess=abc; koa:sess.sig=def", "a\tb", "~!@#$%^&*()"} {
		if !validCookie(v) {
			t.Fatalf("expected %q to be accepted", v)
		}
	}
	for _, v := range []string{"a\nb", "a\x00b", "a\x7fb", "a\x80b", "sess=é"} {
		if validCookie(v) {
			t.Fatalf("expected %q to be rejected", v)
		}
	}
}

func TestChecker_LogWriteFailureStillSucceeds(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"code":1,"list":[{"change":"1","balance":"2"}]}`, nil)
	mem := sink.NewMemory()
	mem.FailWith(errors.New("disk full"))
	core, logs := observer.New(zapcore.DebugLevel)

	out := newTestChecker(t, srv.URL, mem, logger.NewWithZap(zap.New(core))).Attempt(context.Background(), testAccount)

	if _, ok := out.(*Success); !ok {
		t.Fatalf("expected *Success, got %T", out)
	}
	if countErrors(logs, "disk full") != 1 {
		t.Fatalf("expected the write failure on the error stream, got %v", logs.All())
	}
}

// countErrors 统计 error 级别且包含 snippet 的日志条数
func countErrors(logs *observer.ObservedLogs, snippet string) int {
	n := 0
	for _, e := range logs.FilterMessageSnippet(snippet).All() {
		if e.Level == zapcore.ErrorLevel {
			n++
		}
	}
	return n
}

func TestNewChecker_RequiresEndpoint(t *testing.T) {
	if _, err := NewChecker(http.DefaultClient, sink.NewMemory(), logger.NewNop(), "", "t"); err == nil {
		t.Fatalf("expected error")
	}
}
