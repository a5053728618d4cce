package column

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/zoobzio/predicate/internal/types"
)

// castArray casts each leaf through the item descriptor. A string is taken
// as an already encoded array.
func (d *Descriptor) castArray(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	items, err := d.castArrayLevel(v, d.dimension)
	if err != nil {
		return nil, err
	}
	return d.encodeArray(items)
}

func (d *Descriptor) castArrayLevel(v any, dim int) ([]any, error) {
	list, ok := types.AsList(v)
	if !ok {
		return nil, d.wrongType(v, "not a list")
	}
	out := make([]any, len(list))
	for i, el := range list {
		if isExpression(el) {
			return nil, d.wrongType(el, "expressions cannot be array elements")
		}
		if dim > 1 && el != nil {
			nested, err := d.castArrayLevel(el, dim-1)
			if err != nil {
				return nil, err
			}
			out[i] = nested
			continue
		}
		cast, err := d.item.toDatabase(el)
		if err != nil {
			return nil, err
		}
		out[i] = cast
	}
	return out, nil
}

func (d *Descriptor) encodeArray(items []any) (string, error) {
	if d.profile.NativeArrays {
		s, err := FormatArray(items)
		if err != nil {
			return "", d.wrongType(items, "%v", err)
		}
		return s, nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", d.wrongType(items, "%v", err)
	}
	return string(data), nil
}

// hostArray decodes an array literal (or JSON array where the dialect has no
// arrays) and converts each leaf through the item descriptor.
func (d *Descriptor) hostArray(raw any) (any, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	var list []any
	switch x := raw.(type) {
	case string:
		var err error
		if strings.HasPrefix(strings.TrimSpace(x), "{") || d.profile.NativeArrays {
			list, err = ParseArray(x)
		} else {
			err = json.Unmarshal([]byte(x), &list)
		}
		if err != nil {
			return nil, d.wrongType(raw, "%v", err)
		}
	default:
		var ok bool
		if list, ok = types.AsList(raw); !ok {
			return nil, d.wrongType(raw, "not an array")
		}
	}
	return d.hostArrayLevel(list, d.dimension)
}

func (d *Descriptor) hostArrayLevel(list []any, dim int) ([]any, error) {
	out := make([]any, len(list))
	for i, el := range list {
		if dim > 1 && el != nil {
			nested, ok := types.AsList(el)
			if !ok {
				return nil, d.wrongType(el, "expected a nested array")
			}
			v, err := d.hostArrayLevel(nested, dim-1)
			if err != nil {
				return nil, err
			}
			out[i] = v
			continue
		}
		v, err := d.item.ToHost(el)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
