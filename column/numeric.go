package column

import (
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// intBits returns the storage width used for range checks.
func (d *Descriptor) intBits() uint {
	switch d.typ {
	case TinyInt:
		return 8
	case SmallInt:
		return 16
	case Integer:
		return 32
	case Bit:
		if d.size > 0 && d.size < 64 {
			return uint(d.size)
		}
	}
	return 64
}

func (d *Descriptor) integerBounds() (lo, hi *big.Int) {
	bits := d.intBits()
	one := big.NewInt(1)
	if d.unsigned || d.typ == Bit {
		hi = new(big.Int).Lsh(one, bits)
		return big.NewInt(0), hi.Sub(hi, one)
	}
	hi = new(big.Int).Lsh(one, bits-1)
	lo = new(big.Int).Neg(hi)
	return lo, hi.Sub(hi, one)
}

// toBigInt converts v to an exact integer without passing through float64.
func (d *Descriptor) toBigInt(v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		return new(big.Int).Set(x), nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case bool:
		if x {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case []byte:
		return d.toBigInt(string(x))
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(x), "+")
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return n, nil
		}
		dec, err := d.toDecimal(x)
		if err != nil {
			return nil, err
		}
		return d.decimalToBigInt(v, dec)
	case apd.Decimal:
		return d.decimalToBigInt(v, &x)
	case *apd.Decimal:
		return d.decimalToBigInt(v, x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, d.wrongType(v, "not an integral number")
		}
		n, _ := big.NewFloat(f).Int(nil)
		return n, nil
	case reflect.String:
		return d.toBigInt(rv.String())
	}
	return nil, d.wrongType(v, "not an integer")
}

func (d *Descriptor) decimalToBigInt(v any, dec *apd.Decimal) (*big.Int, error) {
	var integral apd.Decimal
	if _, err := apd.BaseContext.RoundToIntegralExact(&integral, dec); err != nil {
		return nil, d.wrongType(v, "not an integer")
	}
	if integral.Cmp(dec) != 0 {
		return nil, d.wrongType(v, "not an integral number")
	}
	n, ok := new(big.Int).SetString(integral.Text('f'), 10)
	if !ok {
		return nil, d.wrongType(v, "not an integer")
	}
	return n, nil
}

// castInteger range-checks v against the column width. Bigint values beyond
// the native range are returned as exact decimal digit text.
func (d *Descriptor) castInteger(v any) (any, error) {
	n, err := d.toBigInt(v)
	if err != nil {
		return nil, err
	}
	lo, hi := d.integerBounds()
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		if d.typ == BigInt && (n.Sign() >= 0 || !d.unsigned) {
			return n.String(), nil
		}
		return nil, d.wrongType(v, "%s is out of range [%s, %s]", n, lo, hi)
	}
	if n.IsInt64() {
		return n.Int64(), nil
	}
	return n.String(), nil
}

func (d *Descriptor) hostInteger(raw any) (any, error) {
	n, err := d.toBigInt(raw)
	if err != nil {
		return nil, err
	}
	if n.IsInt64() {
		return n.Int64(), nil
	}
	return n.String(), nil
}

func (d *Descriptor) castFloat(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case []byte:
		return d.castFloat(string(x))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, d.wrongType(v, "not a number")
		}
		return f, nil
	case apd.Decimal:
		f, err := x.Float64()
		if err != nil {
			return nil, d.wrongType(v, "%v", err)
		}
		return f, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, d.wrongType(v, "not a number")
}

func (d *Descriptor) toDecimal(v any) (*apd.Decimal, error) {
	dec := new(apd.Decimal)
	switch x := v.(type) {
	case apd.Decimal:
		dec.Set(&x)
	case *apd.Decimal:
		dec.Set(x)
	case *big.Int:
		return d.toDecimal(x.String())
	case []byte:
		return d.toDecimal(string(x))
	case string:
		if _, _, err := dec.SetString(strings.TrimSpace(x)); err != nil {
			return nil, d.wrongType(v, "not a decimal number")
		}
	case bool:
		if x {
			dec.SetInt64(1)
		}
	case float32:
		return d.toDecimal(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, d.wrongType(v, "not a finite number")
		}
		return d.toDecimal(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			dec.SetInt64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return d.toDecimal(strconv.FormatUint(rv.Uint(), 10))
		case reflect.Float32, reflect.Float64:
			return d.toDecimal(rv.Float())
		case reflect.String:
			return d.toDecimal(rv.String())
		default:
			return nil, d.wrongType(v, "not a decimal number")
		}
	}
	if dec.Form != apd.Finite {
		return nil, d.wrongType(v, "not a finite number")
	}
	return dec, nil
}

// castDecimal normalizes v to exact decimal text. When round is set and the
// column declares precision or scale, the value is rounded half-up to the scale.
func (d *Descriptor) castDecimal(v any, round bool) (any, error) {
	dec, err := d.toDecimal(v)
	if err != nil {
		return nil, err
	}
	if !round || (d.precision == 0 && d.scale == 0) {
		return dec.Text('f'), nil
	}

	ctx := apd.BaseContext.WithPrecision(1000)
	ctx.Rounding = apd.RoundHalfUp
	if _, err := ctx.Quantize(dec, dec, -int32(d.scale)); err != nil {
		return nil, d.wrongType(v, "%v", err)
	}
	if d.precision > 0 {
		intDigits := dec.NumDigits() + int64(dec.Exponent)
		if intDigits > int64(d.precision-d.scale) && !dec.IsZero() {
			return nil, d.wrongType(v, "exceeds precision %d", d.precision)
		}
	}
	return dec.Text('f'), nil
}
