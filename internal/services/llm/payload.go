package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ExtractCodeBlock locates the first fenced code block in a model response
// and returns its inner text with the fence markers stripped. An optional
// language tag after the opening fence (```python, ```latex, ```json) is
// dropped. When no fence is present the full response is returned
// unmodified; noisier output beats failing the stage.
func ExtractCodeBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}
	body := trimmed[start+3:]
	// Drop the language tag up to the first newline, if any.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		tag := strings.TrimSpace(body[:nl])
		if isLanguageTag(tag) {
			body = body[nl+1:]
		} else if tag == "" {
			body = body[nl+1:]
		}
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimRight(strings.TrimPrefix(body, "\n"), " \t\r\n")
}

func isLanguageTag(tag string) bool {
	if tag == "" || len(tag) > 16 {
		return false
	}
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '+' && r != '-' {
			return false
		}
	}
	return true
}

// DecodeJSON unmarshals a model response into target, tolerating an
// enclosing code fence. The model's output is untrusted; a payload that is
// not valid JSON either way is an error, never silently empty.
func DecodeJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}

	stripped := ExtractCodeBlock(trimmed)
	if stripped == trimmed {
		return fmt.Errorf("decode model payload: %w (snippet: %s)", directErr, snippet(trimmed))
	}
	if err := json.Unmarshal([]byte(stripped), target); err != nil {
		return fmt.Errorf("decode model payload: %w (snippet: %s)", err, snippet(stripped))
	}
	return nil
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const max = 120
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
