package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// List reads endpoint and decodes every record into T. On a
// *SkippedRecordsError the decodable records are still returned.
func List[T any](ctx context.Context, r Requester, endpoint string) ([]T, error) {
	p, err := r.Request(ctx, endpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[T](p)
}

// Get reads a single record. A missing body yields nil.
func Get[T any](ctx context.Context, r Requester, endpoint string) (*T, error) {
	p, err := r.Request(ctx, endpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return DecodeSingle[T](p)
}

// Send performs a write and decodes the server's representation. An empty
// reply yields nil with no error.
func Send[T any](ctx context.Context, r Requester, endpoint, method string, body any) (*T, error) {
	p, err := r.Request(ctx, endpoint, method, body)
	if err != nil {
		return nil, err
	}
	return DecodeSingle[T](p)
}

// SkippedRecordsError reports the records DecodeList could not decode.
// The records that did decode are returned alongside it.
type SkippedRecordsError struct {
	// Total is the number of records in the payload.
	Total int
	// Errs maps a record's position in the payload to its decode error.
	Errs map[int]error
}

func (e *SkippedRecordsError) Error() string {
	first := -1
	for i := range e.Errs {
		if first < 0 || i < first {
			first = i
		}
	}
	return fmt.Sprintf("skipped %d of %d records (record %d: %v)", len(e.Errs), e.Total, first, e.Errs[first])
}

// DecodeList decodes a payload as a list of T. Single records count as a
// one-element list; empty and error payloads as no records. Records that
// fail to decode are left out and reported in a *SkippedRecordsError.
func DecodeList[T any](p Payload) ([]T, error) {
	var raws []json.RawMessage
	switch p.Kind {
	case KindList:
		raws = p.Items
	case KindSingle:
		raws = []json.RawMessage{p.Record}
	default:
		return []T{}, nil
	}
	out := make([]T, 0, len(raws))
	var skipped *SkippedRecordsError
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			if skipped == nil {
				skipped = &SkippedRecordsError{Total: len(raws), Errs: make(map[int]error)}
			}
			skipped.Errs[i] = err
			continue
		}
		out = append(out, v)
	}
	if skipped != nil {
		return out, skipped
	}
	return out, nil
}

// DecodeSingle decodes a payload as one T. A list yields its first element.
func DecodeSingle[T any](p Payload) (*T, error) {
	var raw json.RawMessage
	switch p.Kind {
	case KindSingle:
		raw = p.Record
	case KindList:
		if len(p.Items) == 0 {
			return nil, nil
		}
		raw = p.Items[0]
	case KindError:
		return nil, fmt.Errorf("server reported: %s", p.Message)
	default:
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &v, nil
}
