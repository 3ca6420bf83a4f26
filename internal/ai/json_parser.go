package ai

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Pre-compiled patterns. Oracle output is parsed on every lead, so regexes
// are compiled once.
var (
	// Code fence patterns; newlines optional because models sometimes omit them.
	codeFenceStartRegex = regexp.MustCompile("(?s)^`{3}(?:json|javascript|js)?\\s*\n?([\\s\\S]*?)\n?`{3}\\s*$")
	codeFenceAnyRegex   = regexp.MustCompile("(?s)`{3}(?:json|javascript|js)?\\s*\n?([\\s\\S]*?)\n?`{3}")

	trailingCommaRegex     = regexp.MustCompile(`,(\s*[}\]])`)
	unquotedKeyRegex       = regexp.MustCompile(`([{,]\s*)([a-zA-Z_$][a-zA-Z0-9_$]*)\s*:`)
	singleLineCommentRegex = regexp.MustCompile(`(?m)//.*$`)
	multiLineCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)

	objectRegex = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	arrayRegex  = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
)

// maxParseInput bounds parser input to keep a runaway oracle response from
// exhausting memory.
const maxParseInput = 10 * 1024 * 1024

// ParseResult is the tagged outcome of parsing untrusted oracle output:
// either Success with Data, or a failure with the diagnostic Error and the
// original text preserved. Call sites handle both variants explicitly; a
// parse failure is an expected condition, never an exception path.
type ParseResult[T any] struct {
	Success      bool
	Data         T
	Error        string
	OriginalText string
}

// Parse attempts to parse JSON out of oracle output with fallback
// strategies for the usual LLM formatting quirks:
//
//  1. Direct JSON parse
//  2. Strip markdown code fences and retry
//  3. Fix trailing commas, unquoted keys, comments and retry
//  4. Extract a JSON object/array from surrounding prose and retry
//
// The context string labels log lines and error messages.
func Parse[T any](text string, context string) ParseResult[T] {
	if len(text) > maxParseInput {
		return parseFailure[T](fmt.Sprintf("input exceeds size limit (%d > %d bytes)", len(text), maxParseInput), text, context)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return parseFailure[T]("empty input", text, context)
	}

	if result, err := tryDirectParse[T](trimmed); err == nil {
		return ParseResult[T]{Success: true, Data: result, OriginalText: text}
	} else {
		slog.Debug("direct JSON parse failed, trying cleanup strategies",
			"context", context,
			"error", err.Error(),
			"preview", truncate(text, 100))
	}

	withoutFences := removeCodeFences(trimmed)
	if withoutFences != trimmed {
		if result, err := tryDirectParse[T](withoutFences); err == nil {
			return ParseResult[T]{Success: true, Data: result, OriginalText: text}
		}
	}

	cleaned := cleanupJSON(withoutFences)
	if result, err := tryDirectParse[T](cleaned); err == nil {
		return ParseResult[T]{Success: true, Data: result, OriginalText: text}
	}

	if extracted := extractJSON(cleaned); extracted != "" {
		if result, err := tryDirectParse[T](extracted); err == nil {
			return ParseResult[T]{Success: true, Data: result, OriginalText: text}
		}
	}

	return parseFailure[T]("all JSON parsing strategies failed", text, context)
}

// ParseOrDefault parses oracle output and falls back to a default value.
func ParseOrDefault[T any](text string, fallback T, context string) T {
	result := Parse[T](text, context)
	if result.Success {
		return result.Data
	}
	slog.Debug("JSON parse failed, using fallback", "context", context, "error", result.Error)
	return fallback
}

func tryDirectParse[T any](text string) (T, error) {
	var result T
	err := json.Unmarshal([]byte(text), &result)
	return result, err
}

// removeCodeFences strips markdown code fences wrapping or embedded in text.
func removeCodeFences(text string) string {
	cleaned := codeFenceStartRegex.ReplaceAllString(text, "$1")
	if cleaned == text {
		cleaned = codeFenceAnyRegex.ReplaceAllString(text, "$1")
	}
	if strings.HasPrefix(cleaned, "`") && strings.HasSuffix(cleaned, "`") {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "`"), "`")
	}
	return strings.TrimSpace(cleaned)
}

// cleanupJSON fixes trailing commas, unquoted keys, and comments. Single
// quotes are left alone: rewriting them would corrupt valid JSON containing
// apostrophes, and models consistently emit double quotes.
func cleanupJSON(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = trailingCommaRegex.ReplaceAllString(cleaned, "$1")
	cleaned = unquotedKeyRegex.ReplaceAllString(cleaned, `$1"$2":`)
	cleaned = singleLineCommentRegex.ReplaceAllString(cleaned, "")
	cleaned = multiLineCommentRegex.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// extractJSON pulls a JSON object or array out of mixed prose. The
// first-character check keeps an array from being mis-extracted as its
// first element.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[':
			if match := arrayRegex.FindString(text); match != "" {
				return match
			}
		case '{':
			if match := objectRegex.FindString(text); match != "" {
				return match
			}
		}
	}
	if match := objectRegex.FindString(text); match != "" {
		return match
	}
	return arrayRegex.FindString(text)
}

func parseFailure[T any](message, text, context string) ParseResult[T] {
	var zero T
	if context != "" {
		message = context + ": " + message
	}
	return ParseResult[T]{Success: false, Data: zero, Error: message, OriginalText: text}
}

// truncate shortens a string for log previews.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
