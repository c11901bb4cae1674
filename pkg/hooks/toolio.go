package hooks

import (
	"strings"

	json "github.com/goccy/go-json"
)

// ToolResponseText flattens a tool_response payload into the text the
// assistant saw. The host delivers it in several shapes: a bare string, an
// object with an output/content field, a Read-style file wrapper, or an
// array of content blocks.
func ToolResponseText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"output", "stdout", "content", "text"} {
			if v, ok := obj[key]; ok {
				if text := ToolResponseText(v); text != "" {
					return text
				}
			}
		}
		if file, ok := obj["file"]; ok {
			return ToolResponseText(file)
		}
		return ""
	}

	var blocks []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var parts []string
		for _, block := range blocks {
			if v, ok := block["text"]; ok {
				if text := ToolResponseText(v); text != "" {
					parts = append(parts, text)
				}
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// ToolInputText renders tool_input as a compact provenance string. For
// inputs with an obvious primary argument the bare value is used, so swap
// pointers and recursion checks see the path or command itself.
func ToolInputText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"file_path", "path", "command", "pattern", "url"} {
			if v, ok := obj[key]; ok {
				var s string
				if err := json.Unmarshal(v, &s); err == nil && s != "" {
					return s
				}
			}
		}
	}
	compact := string(raw)
	if len(compact) > 300 {
		compact = compact[:300]
	}
	return compact
}
