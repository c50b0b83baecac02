package checkin

import (
	"errors"
	"testing"
)

func TestLogLines(t *testing.T) {
	err := &ParseFailure{RawBody: "<html>\n</html>", ParseError: "invalid character '<'"}

	got := exhaustedLine(fixedNow, "a@example.com", 3, err)
	want := `[2026-10-17 08:30:00] Account a@example.com check-in failed (after 3 attempts): parse response failed: invalid character '<', response body: <html>\n</html>`
	if got != want {
		t.Fatalf("exhausted line:\n got %q\nwant %q", got, want)
	}

	got = ProcessFailedLine(fixedNow, "a@example.com", errors.New("boom"))
	if got != "[2026-10-17 08:30:00] Account a@example.com processing failed: boom" {
		t.Fatalf("unexpected process line %q", got)
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("a\r\nb"); got != `a\r\nb` {
		t.Fatalf("unexpected %q", got)
	}
	if got := oneLine("plain"); got != "plain" {
		t.Fatalf("unexpected %q", got)
	}
}
