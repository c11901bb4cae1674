package hooks

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestToolResponseText_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare string", `"hello"`, "hello"},
		{"output field", `{"output":"build ok"}`, "build ok"},
		{"stdout field", `{"stdout":"lines here","stderr":""}`, "lines here"},
		{"read-style file wrapper", `{"file":{"content":"package main"}}`, "package main"},
		{"content blocks", `[{"type":"text","text":"a"},{"type":"text","text":"b"}]`, "a\nb"},
		{"nested content", `{"content":[{"type":"text","text":"inner"}]}`, "inner"},
		{"empty", ``, ""},
		{"number payload", `42`, ""},
		{"object without text", `{"ok":true}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolResponseText(json.RawMessage(tt.raw)))
		})
	}
}

func TestToolInputText_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"file path wins", `{"file_path":"/tmp/a.go","limit":10}`, "/tmp/a.go"},
		{"command", `{"command":"make test"}`, "make test"},
		{"pattern", `{"pattern":"TODO","output_mode":"content"}`, "TODO"},
		{"fallback to compact json", `{"todos":[]}`, `{"todos":[]}`},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolInputText(json.RawMessage(tt.raw)))
		})
	}
}

func TestToolInputText_Bounded(t *testing.T) {
	raw := []byte(`{"unknown":"` + string(bytesOf(400)) + `"}`)
	got := ToolInputText(raw)
	assert.LessOrEqual(t, len(got), 300)
}

func bytesOf(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return b
}
