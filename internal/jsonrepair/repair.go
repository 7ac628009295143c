// Package jsonrepair extracts a JSON object from free-form model output.
//
// Text models reliably produce near-valid JSON with occasional truncation or
// minor syntactic noise (markdown fences, comments, trailing commas). A single
// rigid parse is too brittle, but silently accepting garbage is worse, so
// extraction runs as a staged pipeline with a hard failure at the end rather
// than an open-ended repair loop.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable is returned when no stage could produce valid JSON.
var ErrUnparseable = errors.New("unparseable model response")

// Extract finds and repairs a JSON object inside raw and returns it as valid
// JSON. The stages, each a fallback for the previous:
//
//  1. strip markdown code fences
//  2. balanced-brace extraction (string- and escape-aware)
//  3. first-{ to last-} boundary fallback
//  4. comment and trailing-comma cleanup
//  5. direct parse
//  6. one repair-and-retry pass (re-trim, drop trailing comma, close
//     unterminated braces/brackets)
func Extract(raw string) (json.RawMessage, error) {
	text := stripFences(raw)

	candidate, ok := balancedObject(text)
	if !ok {
		// Naive boundary fallback; the candidate may be truncated and is
		// handed to the repair pass below.
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		switch {
		case start >= 0 && end > start:
			candidate = text[start : end+1]
		case start >= 0:
			candidate = text[start:]
		default:
			return nil, fmt.Errorf("%w: no JSON object found", ErrUnparseable)
		}
	}

	candidate = stripComments(candidate)
	candidate = stripTrailingCommas(candidate)

	if parseErr := tryParse(candidate); parseErr == nil {
		return json.RawMessage(candidate), nil
	} else if repaired, ok := repair(candidate); ok {
		return json.RawMessage(repaired), nil
	} else {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, parseErr)
	}
}

// stripFences removes a wrapping markdown code fence, with or without a
// language tag.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop a language tag such as "json" on the opening fence line.
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(text[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{}") {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// balancedObject scans for the first top-level '{' and returns the span up to
// the matching '}'. Braces inside quoted strings are ignored and an escaped
// quote does not toggle string state.
func balancedObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
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
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// stripComments removes /* */ and // style comments outside of strings.
func stripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			for i < len(text) && text[i] != '\n' {
				i++
			}
			if i < len(text) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			i += 2
			for i+1 < len(text) && !(text[i] == '*' && text[i+1] == '/') {
				i++
			}
			i++ // lands on the trailing '/'
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripTrailingCommas removes commas immediately preceding a closing brace or
// bracket, ignoring whitespace in between.
func stripTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n' || text[j] == '\r') {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue // drop the comma
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// repair makes a single attempt to fix a candidate that failed to parse:
// trim to object boundaries, drop one trailing comma, then close any
// unterminated string, braces, and brackets. Returns false if the result
// still does not parse.
func repair(candidate string) (string, bool) {
	text := strings.TrimSpace(candidate)

	if start := strings.Index(text, "{"); start > 0 {
		text = text[start:]
	}
	if end := strings.LastIndex(text, "}"); end >= 0 && end < len(text)-1 {
		text = text[:end+1]
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ",")

	// Rebalance: walk the candidate tracking open braces/brackets outside of
	// strings and append the missing closers in nesting order.
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
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
				stack = append(stack, '}')
			}
		case '[':
			if !inString {
				stack = append(stack, ']')
			}
		case '}', ']':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if inString {
		text += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		text += string(stack[i])
	}

	if tryParse(text) != nil {
		return "", false
	}
	return text, true
}

func tryParse(text string) error {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return err
	}
	if _, ok := v.(map[string]any); !ok {
		return fmt.Errorf("top-level JSON value is not an object")
	}
	return nil
}
