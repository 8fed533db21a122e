package contracts

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Text decodes a JSON string as-is and any other JSON value as its compact text
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// ToolCall is a tool invocation made by a model
type ToolCall struct {
	ToolCallType string `json:"toolCallType"`
	Metadata     Text   `json:"metadata"`
	CreatedAt    string `json:"createdAt"`
}

// Invocation is a row of GET /invocations
// ⭐ SSOT: 모델 호출 로그 와이어 포맷은 여기서만 정의
type Invocation struct {
	ID        string     `json:"id"`
	Response  Text       `json:"response"`
	CreatedAt string     `json:"createdAt"`
	Model     *ModelRef  `json:"model,omitempty"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// InvocationFeed is the GET /invocations envelope
type InvocationFeed struct {
	Data []Invocation `json:"data"`
}
