package checkin

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout 日志行时间格式 YYYY-MM-DD HH:MM:SS
const timeLayout = "2006-01-02 15:04:05"

func successLine(t time.Time, email string, s *Success) string {
	return fmt.Sprintf("[%s] Account: %s, Message: %s, Change: %s, Balance: %s",
		t.Format(timeLayout), email, oneLine(s.Message), s.Change, s.Balance)
}

func exhaustedLine(t time.Time, email string, attempts uint, err error) string {
	return fmt.Sprintf("[%s] Account %s check-in failed (after %d attempts): %s",
		t.Format(timeLayout), email, attempts, oneLine(err.Error()))
}

// ProcessFailedLine 账户处理失败的日志行
func ProcessFailedLine(t time.Time, email string, err error) string {
	return fmt.Sprintf("[%s] Account %s processing failed: %s",
		t.Format(timeLayout), email, oneLine(err.Error()))
}

// oneLine 转义换行，保证一次 Append 只占一行
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(s)
}
