package column

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/zoobzio/predicate/internal/types"
)

// JSONValue marks a value bound to a JSON column. Serialization is deferred
// until the driver asks for the value.
type JSONValue struct {
	Data any
	Type  string // dialect JSON type, e.g. "json" or "jsonb"
}

// Value implements driver.Valuer.
func (j JSONValue) Value() (driver.Value, error) {
	if j.Data == nil {
		return nil, nil
	}
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s value: %w", j.Type, err)
	}
	return string(b), nil
}

// MarshalJSON encodes the wrapped value.
func (j JSONValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (d *Descriptor) castJSON(v any) (any, error) {
	if _, ok := v.(types.Subquery); ok {
		return nil, fmt.Errorf("column %q: %w", d.name, ErrPendingSubquery)
	}
	return JSONValue{Data: v, Type: d.profile.JSONType}, nil
}

func (d *Descriptor) hostJSON(raw any) (any, error) {
	var data []byte
	switch x := raw.(type) {
	case JSONValue:
		return x.Data, nil
	case []byte:
		data = x
	case string:
		data = []byte(x)
	default:
		return raw, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, d.wrongType(raw, "invalid JSON: %v", err)
	}
	return out, nil
}
