package column

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

// Layouts accepted when parsing host strings, most specific first.
var hostLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
}

var timeLayouts = []string{
	"15:04:05.999999999Z07:00",
	"15:04:05.999999999Z07",
	"15:04:05.999999999",
	"15:04",
}

// instant is a parsed temporal value. Wall values (bare dates and clock
// times) carry no instant and are never shifted between zones.
type instant struct {
	t    time.Time
	wall bool
}

// fraction returns the fractional seconds layout for the declared size.
func (d *Descriptor) fraction() string {
	n := d.size
	if !d.typ.IsTemporal() || n <= 0 {
		return ""
	}
	if n > 9 {
		n = 9
	}
	return "." + strings.Repeat("0", n)
}

func (d *Descriptor) layout() string {
	switch d.typ {
	case Date:
		return "2006-01-02"
	case Time:
		return "15:04:05" + d.fraction()
	case TimeTZ:
		return "15:04:05" + d.fraction() + "-07:00"
	case DateTimeTZ, TimestampTZ:
		return "2006-01-02 15:04:05" + d.fraction() + "-07:00"
	default:
		return "2006-01-02 15:04:05" + d.fraction()
	}
}

func (d *Descriptor) castTemporal(v any) (any, error) {
	in, ok, err := d.toInstant(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		if d.profile.StrictTime {
			return nil, d.wrongType(v, "unparseable date/time")
		}
		return v, nil
	}
	t := in.t
	if !in.wall && !d.typ.HasZone() {
		t = t.In(d.profile.databaseZone())
	}
	return t.Format(d.layout()), nil
}

// toInstant interprets v as a point in time. ok is false for strings that
// cannot be parsed.
func (d *Descriptor) toInstant(v any) (in instant, ok bool, err error) {
	host := d.profile.hostZone()
	switch x := v.(type) {
	case time.Time:
		return instant{t: x}, true, nil
	case civil.Date:
		return instant{t: x.In(host), wall: true}, true, nil
	case civil.DateTime:
		return instant{t: x.In(host)}, true, nil
	case civil.Time:
		if d.typ != Time && d.typ != TimeTZ {
			return instant{}, false, d.wrongType(v, "clock time has no date")
		}
		t := time.Date(0, 1, 1, x.Hour, x.Minute, x.Second, x.Nanosecond, host)
		return instant{t: t, wall: true}, true, nil
	case []byte:
		return d.toInstant(string(x))
	case string:
		s := strings.TrimSpace(x)
		if f, err := strconv.ParseFloat(s, 64); err == nil && isUnixText(s) {
			return instant{t: unixTime(f)}, true, nil
		}
		in, ok := parseHost(s, host)
		return in, ok, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return instant{t: time.Unix(rv.Int(), 0).UTC()}, true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return instant{}, false, d.wrongType(v, "unix seconds %d out of range", u)
		}
		return instant{t: time.Unix(int64(u), 0).UTC()}, true, nil
	case reflect.Float32, reflect.Float64:
		return instant{t: unixTime(rv.Float())}, true, nil
	}
	return instant{}, false, d.wrongType(v, "not a date/time value")
}

// isUnixText reports whether s is plain numeric text, not a date.
func isUnixText(s string) bool {
	return s != "" && strings.Trim(s, "0123456789.") == ""
}

func unixTime(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}

// parseHost parses host text. Text without an offset is read in the host zone.
func parseHost(s string, host *time.Location) (instant, bool) {
	if len(s) == len("2006-01-02") {
		if t, err := time.ParseInLocation("2006-01-02", s, host); err == nil {
			return instant{t: t, wall: true}, true
		}
	}
	for _, layout := range hostLayouts {
		if t, err := time.ParseInLocation(layout, s, host); err == nil {
			return instant{t: t}, true
		}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, host); err == nil {
			return instant{t: t, wall: true}, true
		}
	}
	return instant{}, false
}

// hostTemporal converts a driver value. Dates become civil.Date, clock times
// civil.Time, and datetimes time.Time in the host zone. Zone-less database
// text is read in the database zone.
func (d *Descriptor) hostTemporal(raw any) (any, error) {
	db := d.profile.databaseZone()
	host := d.profile.hostZone()

	var t time.Time
	switch x := raw.(type) {
	case civil.Date, civil.Time, civil.DateTime:
		return d.hostCivil(x)
	case time.Time:
		t = x
		if !d.typ.HasZone() && d.typ != Date && d.typ != Time {
			// drivers report zone-less values as wall clock in UTC
			t = time.Date(x.Year(), x.Month(), x.Day(), x.Hour(), x.Minute(), x.Second(), x.Nanosecond(), db)
		}
	case []byte:
		return d.hostTemporal(string(x))
	case string:
		s := strings.TrimSpace(x)
		switch d.typ {
		case Date:
			if len(s) > 10 {
				s = s[:10]
			}
			date, err := civil.ParseDate(s)
			if err != nil {
				return nil, d.wrongType(raw, "%v", err)
			}
			return date, nil
		case Time, TimeTZ:
			return d.hostClock(raw, s)
		}
		in, ok := parseHost(s, db)
		if !ok {
			return nil, d.wrongType(raw, "unparseable date/time")
		}
		t = in.t
	default:
		in, ok, err := d.toInstant(raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, d.wrongType(raw, "unparseable date/time")
		}
		t = in.t
	}

	switch d.typ {
	case Date:
		return civil.DateOf(t), nil
	case Time:
		return civil.TimeOf(t), nil
	case TimeTZ:
		return t, nil
	}
	return t.In(host), nil
}

func (d *Descriptor) hostCivil(v any) (any, error) {
	host := d.profile.hostZone()
	switch x := v.(type) {
	case civil.Date:
		if d.typ == Date {
			return x, nil
		}
		return x.In(host), nil
	case civil.Time:
		if d.typ == Time {
			return x, nil
		}
	case civil.DateTime:
		switch d.typ {
		case Date:
			return x.Date, nil
		case Time:
			return x.Time, nil
		}
		return x.In(host), nil
	}
	return nil, d.wrongType(v, "incompatible civil value")
}

// hostClock parses time-of-day text. Zoned times are returned as time.Time on
// the zero date so the offset is kept.
func (d *Descriptor) hostClock(raw any, s string) (any, error) {
	if d.typ == Time {
		if len(s) > 8 && (strings.ContainsAny(s[8:], "+-Z")) {
			s = s[:strings.IndexAny(s[8:], "+-Z")+8]
		}
		tm, err := civil.ParseTime(s)
		if err != nil {
			return nil, d.wrongType(raw, "%v", err)
		}
		return tm, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, d.wrongType(raw, "unparseable time")
}
