package checkin

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	successCode           = 1
	defaultSuccessMessage = "No message"
	defaultFailureMessage = "未知错误"
	defaultAmount         = "0"
)

// checkinResponse 签到接口响应；所有字段均为可选，类型不符视为缺失
type checkinResponse struct {
	Code    optInt     `json:"code"`
	Message optString  `json:"message"`
	List    optRecords `json:"list"`
}

// checkinRecord list 中的一条积分变动记录
type checkinRecord struct {
	Change  optString `json:"change"`
	Balance optString `json:"balance"`
}

// parseResponse 解析响应体；仅当 body 不是合法 JSON 时返回错误。
// 合法 JSON 但不是对象时，按所有字段缺失处理。
func parseResponse(body []byte) (*checkinResponse, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, err
	}

	var resp checkinResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &checkinResponse{}, nil
	}
	return &resp, nil
}

// firstRecord 返回 list 的第一条记录
func (r *checkinResponse) firstRecord() (checkinRecord, bool) {
	if len(r.List.items) == 0 {
		return checkinRecord{}, false
	}
	var rec checkinRecord
	if err := json.Unmarshal(r.List.items[0], &rec); err != nil {
		// 元素不是对象，字段取默认值
		return checkinRecord{}, true
	}
	return rec, true
}

// truncateDecimal 去掉第一个 '.' 及其之后的内容（不四舍五入）
func truncateDecimal(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

// optInt 可选整数字段
type optInt struct {
	value int64
	valid bool
}

func (o *optInt) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		return nil
	}
	o.value, o.valid = i, true
	return nil
}

// Or 字段缺失时返回 def
func (o optInt) Or(def int64) int64 {
	if !o.valid {
		return def
	}
	return o.value
}

// optString 可选字符串字段
type optString struct {
	value string
	valid bool
}

func (o *optString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	o.value, o.valid = s, true
	return nil
}

// Or 字段缺失时返回 def
func (o optString) Or(def string) string {
	if !o.valid {
		return def
	}
	return o.value
}

// optRecords 可选数组字段，元素延迟解析
type optRecords struct {
	items []json.RawMessage
}

func (o *optRecords) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	o.items = items
	return nil
}
