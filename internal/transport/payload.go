package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tags the shape of a decoded response body.
type Kind int

const (
	// KindEmpty is a successful exchange without a body.
	KindEmpty Kind = iota
	// KindList is an array of records.
	KindList
	// KindSingle is one record (or any non-array JSON value).
	KindSingle
	// KindError is an object carrying an "error" key.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindList:
		return "list"
	case KindSingle:
		return "single"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Payload is a response body decoded once at the transport boundary.
// Consumers switch on Kind instead of probing the raw shape.
type Payload struct {
	Kind    Kind
	Items   []json.RawMessage
	Record  json.RawMessage
	Message string
}

// Len returns the number of records carried.
func (p Payload) Len() int {
	switch p.Kind {
	case KindList:
		return len(p.Items)
	case KindSingle:
		return 1
	default:
		return 0
	}
}

func emptyList() Payload { return Payload{Kind: KindList} }

// decodePayload classifies a non-empty JSON body.
func decodePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Payload{Kind: KindEmpty}, nil
	}
	if !json.Valid(body) {
		return Payload{}, fmt.Errorf("response is not valid JSON")
	}
	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return Payload{}, fmt.Errorf("decoding list: %w", err)
		}
		return Payload{Kind: KindList, Items: items}, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return Payload{}, fmt.Errorf("decoding object: %w", err)
		}
		if raw, ok := obj["error"]; ok {
			if _, hasID := obj["id"]; !hasID {
				return Payload{Kind: KindError, Message: messageFrom(raw)}, nil
			}
		}
		return Payload{Kind: KindSingle, Record: json.RawMessage(body)}, nil
	case 'n':
		return Payload{Kind: KindEmpty}, nil
	default:
		return Payload{Kind: KindSingle, Record: json.RawMessage(body)}, nil
	}
}

// normalizeList coerces any payload into a list for reads on a list
// resource: a paginated envelope yields its results, an error object
// yields nothing, any other single value becomes a one-element list.
func normalizeList(p Payload) Payload {
	switch p.Kind {
	case KindList:
		return p
	case KindSingle:
		if items, ok := envelopeResults(p.Record); ok {
			return Payload{Kind: KindList, Items: items}
		}
		if len(p.Record) == 0 || p.Record[0] != '{' {
			return emptyList()
		}
		return Payload{Kind: KindList, Items: []json.RawMessage{p.Record}}
	default:
		return emptyList()
	}
}

func envelopeResults(record json.RawMessage) ([]json.RawMessage, bool) {
	var env struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(record, &env); err != nil || len(env.Results) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(env.Results, &items); err != nil {
		return nil, false
	}
	return items, true
}

// errorMessage extracts the server's message from an error body, falling
// back to "HTTP error <status>".
func errorMessage(body []byte, status int) (string, map[string]any) {
	fallback := fmt.Sprintf("HTTP error %d", status)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &obj); err != nil {
		return fallback, nil
	}
	var decoded map[string]any
	_ = json.Unmarshal(body, &decoded)
	for _, key := range []string{"error", "detail", "message"} {
		if raw, ok := obj[key]; ok {
			if msg := messageFrom(raw); msg != "" {
				return msg, decoded
			}
		}
	}
	return fallback, decoded
}

func messageFrom(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return string(bytes.TrimSpace(raw))
}
