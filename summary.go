package client

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Locations of a human-readable error message inside an occurrence payload,
// most specific first.
var mainErrorPaths = [][]string{
	{"trace", "exception", "description"},
	{"trace", "exception", "message"},
	{"trace_chain", "0", "exception", "description"},
	{"trace_chain", "0", "exception", "message"},
	{"body", "trace", "exception", "message"},
	{"body", "trace_chain", "0", "exception", "description"},
	{"body", "trace_chain", "0", "exception", "message"},
	{"exception", "description"},
	{"exception", "message"},
	{"message", "body"},
	{"message"},
	{"body", "message", "body"},
	{"body", "message"},
	{"body"},
}

const unknownMainError = "unknown"

// MainError returns a one-line description of the occurrence: the exception
// message when there is one, otherwise the logged message. It returns
// "unknown" when the payload holds neither.
func (in ItemInstance) MainError() string {
	if message := messageFromJSON(in.Data); message != "" {
		return message
	}

	if message := messageFromJSON(in.Body); message != "" {
		return message
	}

	return unknownMainError
}

func messageFromJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}

	for _, path := range mainErrorPaths {
		if message := stringAt(value, path); message != "" {
			return message
		}
	}

	if message, ok := value.(string); ok {
		return strings.TrimSpace(message)
	}

	return ""
}

func stringAt(value any, path []string) string {
	current := value

	for _, segment := range path {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[segment]
			if !ok {
				return ""
			}
			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(typed) {
				return ""
			}
			current = typed[index]
		default:
			return ""
		}
	}

	message, _ := current.(string)
	return strings.TrimSpace(message)
}
