package column

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/zoobzio/predicate/internal/types"
)

func isExpression(v any) bool {
	switch v.(type) {
	case types.Expression, *types.Expression:
		return true
	}
	return false
}

// isPassthrough reports whether v is already in bound form.
func isPassthrough(v any) bool {
	switch v.(type) {
	case apd.Decimal, *apd.Decimal:
		return false
	case types.Expression, *types.Expression, JSONValue, *JSONValue, driver.Valuer:
		return true
	}
	return false
}

// indirect dereferences pointers, returning nil for nil pointers.
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

var truthy = map[string]bool{
	"1": true, "t": true, "true": true, "y": true, "yes": true, "on": true,
	"0": false, "f": false, "false": false, "n": false, "no": false, "off": false,
}

func (d *Descriptor) castBool(v any) (bool, error) {
	switch x := indirect(v).(type) {
	case bool:
		return x, nil
	case string:
		if b, ok := truthy[strings.ToLower(strings.TrimSpace(x))]; ok {
			return b, nil
		}
	case []byte:
		// BIT(1) columns come back as a single raw byte
		if len(x) == 1 && x[0] <= 1 {
			return x[0] == 1, nil
		}
		return d.castBool(string(x))
	default:
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int() != 0, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return rv.Uint() != 0, nil
		case reflect.Float32, reflect.Float64:
			return rv.Float() != 0, nil
		case reflect.Bool:
			return rv.Bool(), nil
		case reflect.String:
			return d.castBool(rv.String())
		}
	}
	return false, d.wrongType(v, "not a boolean")
}

func (d *Descriptor) castBit(v any) (any, error) {
	switch x := indirect(v).(type) {
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case []byte:
		return x, nil
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(x), 2, 64)
		if err != nil {
			return nil, d.wrongType(v, "not a bit string")
		}
		return int64(n), nil
	}
	n, err := d.castInteger(v)
	if err != nil {
		return nil, err
	}
	if _, ok := n.(int64); !ok {
		return nil, d.wrongType(v, "out of range")
	}
	return n, nil
}

func (d *Descriptor) hostBit(raw any) (any, error) {
	if b, ok := raw.([]byte); ok {
		if len(b) > 8 {
			return nil, d.wrongType(raw, "bit value wider than 64 bits")
		}
		var buf [8]byte
		copy(buf[8-len(b):], b)
		return int64(binary.BigEndian.Uint64(buf[:])), nil
	}
	return d.castBit(raw)
}

func (d *Descriptor) castString(v any) (any, error) {
	switch x := indirect(v).(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case fmt.Stringer:
		return x.String(), nil
	}
	rv := reflect.ValueOf(indirect(v))
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	}
	return nil, d.wrongType(v, "not representable as text")
}

func (d *Descriptor) hostString(raw any) (any, error) {
	if b, ok := raw.([]byte); ok {
		return string(b), nil
	}
	return d.castString(raw)
}

func (d *Descriptor) castBinary(v any) (any, error) {
	switch x := indirect(v).(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	}
	return nil, d.wrongType(v, "not binary data")
}

func (d *Descriptor) castEnum(v any) (any, error) {
	s, err := d.castString(v)
	if err != nil {
		return nil, err
	}
	if len(d.enum) == 0 {
		return s, nil
	}
	for _, allowed := range d.enum {
		if allowed == s {
			return s, nil
		}
	}
	return nil, d.wrongType(v, "%q is not one of %s", s, strings.Join(d.enum, ", "))
}

func (d *Descriptor) castUUID(v any) (any, error) {
	id, err := d.parseUUID(v)
	if err != nil {
		return nil, err
	}
	return id.String(), nil
}

func (d *Descriptor) hostUUID(raw any) (any, error) {
	return d.castUUID(raw)
}

func (d *Descriptor) parseUUID(v any) (uuid.UUID, error) {
	switch x := indirect(v).(type) {
	case uuid.UUID:
		return x, nil
	case [16]byte:
		return uuid.UUID(x), nil
	case []byte:
		if len(x) == 16 {
			return uuid.FromBytes(x)
		}
		return d.parseUUID(string(x))
	case string:
		id, err := uuid.Parse(strings.TrimSpace(x))
		if err != nil {
			return uuid.Nil, d.wrongType(v, "%v", err)
		}
		return id, nil
	case fmt.Stringer:
		return d.parseUUID(x.String())
	}
	return uuid.Nil, d.wrongType(v, "not a uuid")
}
