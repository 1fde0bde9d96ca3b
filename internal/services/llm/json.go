package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON parses a JSON object out of an LLM response. It tries a
// strict parse first, then strips markdown code fences, then falls back
// to the first balanced {...} block in the text.
func ExtractJSON(response string, target interface{}) error {
	trimmed := strings.TrimSpace(response)

	if err := json.Unmarshal([]byte(trimmed), target); err == nil {
		return nil
	}

	if fenced := stripCodeFence(trimmed); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), target); err == nil {
			return nil
		}
	}

	if block := firstBalancedObject(trimmed); block != "" {
		if err := json.Unmarshal([]byte(block), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON object in response (%d bytes)", len(response))
}

// stripCodeFence extracts the body of the first ```...``` block
func stripCodeFence(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return ""
	}
	body := text[start+3:]
	// Skip a language tag on the fence line
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(body[:nl])
		if len(firstLine) <= 10 && !strings.Contains(firstLine, "{") {
			body = body[nl+1:]
		}
	}
	end := strings.Index(body, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(body[:end])
}

// firstBalancedObject returns the first brace-balanced object in the
// text, tracking string literals and escapes
func firstBalancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
