// Package llmjson parses the JSON objects a chat model is asked to reply
// with. Decode is the only place in the assistant that turns model text
// into structured data; every caller handles its OK flag.
package llmjson

import (
	"encoding/json"
	"strings"
)

// Decision is the result of decoding a model reply.
type Decision struct {
	// OK is false when the reply is not a single JSON object.
	OK bool
	// Action is the "action" string, empty when absent or not a string.
	Action string
	// Args is the "args" object when present. Without an "args" key it
	// holds the remaining top-level keys. Never nil when OK.
	Args map[string]any
	// Raw is the reply text as received.
	Raw string
}

// Decode parses text as one JSON object, optionally wrapped in a single
// markdown code fence. Prose around the object is a parse failure.
func Decode(text string) Decision {
	d := Decision{Raw: text}

	var obj map[string]any
	if err := json.Unmarshal([]byte(unfence(text)), &obj); err != nil || obj == nil {
		return d
	}

	d.OK = true
	d.Action, _ = obj["action"].(string)

	if raw, present := obj["args"]; present {
		args, _ := raw.(map[string]any)
		if args == nil {
			args = map[string]any{}
		}
		d.Args = args
		return d
	}

	d.Args = make(map[string]any, len(obj))
	for k, v := range obj {
		if k != "action" {
			d.Args[k] = v
		}
	}
	return d
}

// unfence strips surrounding whitespace and one ``` or ```json fence.
func unfence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		lang := strings.TrimSpace(s[:nl])
		if lang == "" || lang == "json" || lang == "JSON" {
			s = s[nl+1:]
		}
	}
	return strings.TrimSpace(s)
}
