package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/spf13/pflag"
)

// fieldsFlag collects repeated --set key=value pairs into a JSON body.
// Values are decoded as JSON when they parse (numbers, booleans, null,
// quoted strings) and kept as raw strings otherwise.
type fieldsFlag map[string]any

var _ pflag.Value = (*fieldsFlag)(nil)

func (f *fieldsFlag) String() string {
	if f == nil || len(*f) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(*f))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, (*f)[k]))
	}
	return strings.Join(parts, ",")
}

func (f *fieldsFlag) Type() string { return "key=value" }

func (f *fieldsFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", raw)
	}
	v, err := fieldValue(key, value)
	if err != nil {
		return err
	}
	if *f == nil {
		*f = make(fieldsFlag)
	}
	(*f)[key] = v
	return nil
}

func fieldValue(key, value string) (any, error) {
	switch {
	case key == "status":
		s, ok := domain.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("invalid status %q (use one of %s)", value, joinStatuses())
		}
		return string(s), nil
	case key == "priority":
		p, ok := domain.ParsePriority(value)
		if !ok {
			return nil, fmt.Errorf("invalid priority %q (use high, medium or low)", value)
		}
		return string(p), nil
	case strings.HasSuffix(key, "_date"):
		if err := validateOptionalDate(value); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		d, _ := domain.ParseDate(value)
		if d.IsZero() {
			return nil, nil
		}
		return d.String(), nil
	case key == "id" || strings.HasSuffix(key, "_id"):
		if value == "" || value == "null" {
			return nil, nil
		}
		var quoted string
		if err := json.Unmarshal([]byte(value), &quoted); err == nil {
			value = quoted
		}
		return domain.ID(value), nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		return decoded, nil
	}
	return value, nil
}

func joinStatuses() string {
	names := make([]string, len(domain.ValidStatuses))
	for i, s := range domain.ValidStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
