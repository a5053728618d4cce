package column

import (
	"bytes"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/zoobzio/predicate/internal/types"
)

// castStructured casts a record given by field name (a map) or by
// declaration order (a list). Omitted fields take their declared default.
// Names with no declared field are dropped and logged at debug level.
func (d *Descriptor) castStructured(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	values := make([]any, len(d.fields))
	set := make([]bool, len(d.fields))

	if m, ok := stringMap(v); ok {
		var dropped []string
		for name, val := range m {
			i := d.fieldIndex(name)
			if i < 0 {
				dropped = append(dropped, name)
				continue
			}
			values[i], set[i] = val, true
		}
		if len(dropped) > 0 {
			sort.Strings(dropped)
			d.profile.logger().Debug("dropped unknown structured fields",
				"column", d.name, "fields", dropped)
		}
	} else if list, ok := types.AsList(v); ok {
		if len(list) > len(d.fields) {
			return nil, d.wrongType(v, "%d values for %d fields", len(list), len(d.fields))
		}
		for i, val := range list {
			values[i], set[i] = val, true
		}
	} else {
		return nil, d.wrongType(v, "expected a map or list")
	}

	for i, f := range d.fields {
		val := values[i]
		if !set[i] {
			val, _ = f.Default()
		}
		cast, err := f.toDatabase(val)
		if err != nil {
			return nil, err
		}
		values[i] = cast
	}
	return d.encodeRecord(values)
}

func (d *Descriptor) encodeRecord(values []any) (string, error) {
	if d.profile.NativeArrays {
		s, err := FormatRecord(values)
		if err != nil {
			return "", d.wrongType(values, "%v", err)
		}
		return s, nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.name)
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(values[i])
		if err != nil {
			return "", d.wrongType(values[i], "%v", err)
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.String(), nil
}

// hostStructured decodes a record literal or JSON object into a map keyed
// by declared field name.
func (d *Descriptor) hostStructured(raw any) (any, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "(") {
			list, err := ParseRecord(s)
			if err != nil {
				return nil, d.wrongType(raw, "%v", err)
			}
			raw = list
		} else {
			var m map[string]any
			if err := json.Unmarshal([]byte(s), &m); err != nil {
				return nil, d.wrongType(raw, "%v", err)
			}
			raw = m
		}
	}

	out := make(map[string]any, len(d.fields))
	if m, ok := stringMap(raw); ok {
		for _, f := range d.fields {
			val, present := m[f.name]
			if !present {
				val, _ = f.Default()
				out[f.name] = val
				continue
			}
			host, err := f.ToHost(val)
			if err != nil {
				return nil, err
			}
			out[f.name] = host
		}
		return out, nil
	}
	list, ok := types.AsList(raw)
	if !ok {
		return nil, d.wrongType(raw, "not a record")
	}
	if len(list) > len(d.fields) {
		return nil, d.wrongType(raw, "%d values for %d fields", len(list), len(d.fields))
	}
	for i, f := range d.fields {
		var val any
		if i < len(list) {
			var err error
			if val, err = f.ToHost(list[i]); err != nil {
				return nil, err
			}
		} else {
			val, _ = f.Default()
		}
		out[f.name] = val
	}
	return out, nil
}

func (d *Descriptor) fieldIndex(name string) int {
	for i, f := range d.fields {
		if f.name == name {
			return i
		}
	}
	return -1
}

// stringMap converts any map with string keys to map[string]any.
func stringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
