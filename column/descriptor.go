package column

import "github.com/zoobzio/predicate/internal/types"

// Spec carries the attributes of a column descriptor under construction.
type Spec struct {
	Default       any
	Item          *Descriptor   // element descriptor for arrays
	Fields        []*Descriptor // declared sub-columns for structured types
	Name          string
	Type          Type
	DBType        string // native type as declared, e.g. "varchar(255)"
	Extra         string // dialect-specific suffix kept verbatim
	Enum          []string
	Size          int
	Precision     int
	Scale         int
	Dimension     int
	HasDefault    bool
	Nullable      bool
	Unsigned      bool
	PrimaryKey    bool
	AutoIncrement bool
}

// Descriptor is an immutable, typed column description.
// It is safe for concurrent use.
type Descriptor struct {
	defaultValue  any
	profile       *Profile
	item          *Descriptor
	fields        []*Descriptor
	name          string
	dbType        string
	extra         string
	typ           Type
	enum          []string
	size          int
	precision     int
	scale         int
	dimension     int
	hasDefault    bool
	nullable      bool
	unsigned      bool
	primaryKey    bool
	autoIncrement bool
}

// New creates a descriptor from spec. A nil profile uses Generic().
// Arrays default to one dimension and an untyped text item.
func New(spec Spec, profile *Profile) *Descriptor {
	if profile == nil {
		profile = Generic()
	}
	d := &Descriptor{
		defaultValue:  spec.Default,
		profile:       profile,
		item:          spec.Item,
		name:          spec.Name,
		dbType:        spec.DBType,
		extra:         spec.Extra,
		typ:           spec.Type,
		size:          spec.Size,
		precision:     spec.Precision,
		scale:         spec.Scale,
		dimension:     spec.Dimension,
		hasDefault:    spec.HasDefault || spec.Default != nil,
		nullable:      spec.Nullable,
		unsigned:      spec.Unsigned,
		primaryKey:    spec.PrimaryKey,
		autoIncrement: spec.AutoIncrement,
	}
	if d.typ == "" {
		d.typ = String
	}
	if len(spec.Enum) > 0 {
		d.enum = append([]string(nil), spec.Enum...)
	}
	if len(spec.Fields) > 0 {
		d.fields = append([]*Descriptor(nil), spec.Fields...)
	}
	if d.typ == Array {
		if d.dimension < 1 {
			d.dimension = 1
		}
		if d.item == nil {
			d.item = New(Spec{Type: String, Nullable: true}, profile)
		}
	}
	return d
}

// Spec returns the attributes the descriptor was built from.
func (d *Descriptor) Spec() Spec {
	return Spec{
		Default:       d.defaultValue,
		Item:          d.item,
		Fields:        append([]*Descriptor(nil), d.fields...),
		Name:          d.name,
		Type:          d.typ,
		DBType:        d.dbType,
		Extra:         d.extra,
		Enum:          append([]string(nil), d.enum...),
		Size:          d.size,
		Precision:     d.precision,
		Scale:         d.scale,
		Dimension:     d.dimension,
		HasDefault:    d.hasDefault,
		Nullable:      d.nullable,
		Unsigned:      d.unsigned,
		PrimaryKey:    d.primaryKey,
		AutoIncrement: d.autoIncrement,
	}
}

// WithName returns a copy of the descriptor with a different name.
func (d *Descriptor) WithName(name string) *Descriptor {
	c := *d
	c.name = name
	return &c
}

func (d *Descriptor) Name() string          { return d.name }
func (d *Descriptor) Type() Type            { return d.typ }
func (d *Descriptor) DBType() string        { return d.dbType }
func (d *Descriptor) Extra() string         { return d.extra }
func (d *Descriptor) Size() int             { return d.size }
func (d *Descriptor) Precision() int        { return d.precision }
func (d *Descriptor) Scale() int            { return d.scale }
func (d *Descriptor) Dimension() int        { return d.dimension }
func (d *Descriptor) Nullable() bool        { return d.nullable }
func (d *Descriptor) Unsigned() bool        { return d.unsigned }
func (d *Descriptor) PrimaryKey() bool      { return d.primaryKey }
func (d *Descriptor) AutoIncrement() bool   { return d.autoIncrement }
func (d *Descriptor) Item() *Descriptor     { return d.item }
func (d *Descriptor) Profile() *Profile     { return d.profile }
func (d *Descriptor) Enum() []string        { return append([]string(nil), d.enum...) }
func (d *Descriptor) Fields() []*Descriptor { return append([]*Descriptor(nil), d.fields...) }

// Default returns the declared default value and whether one was declared.
func (d *Descriptor) Default() (any, bool) {
	return d.defaultValue, d.hasDefault
}

// Field returns the structured sub-column with the given name.
func (d *Descriptor) Field(name string) (*Descriptor, bool) {
	for _, f := range d.fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// ToDatabase casts a host value to the representation bound for this column.
// Expressions and values already in driver form pass through unchanged.
func (d *Descriptor) ToDatabase(v any) (any, error) {
	out, err := d.toDatabase(v)
	if err != nil {
		return nil, err
	}
	if out != nil && d.profile.Bind != nil && !isPassthrough(out) {
		out = d.profile.Bind(d, out)
	}
	return out, nil
}

func (d *Descriptor) toDatabase(v any) (any, error) {
	if v == nil || isPassthrough(v) {
		return v, nil
	}
	if _, ok := v.(types.Subquery); ok {
		if d.typ == JSON {
			return d.castJSON(v)
		}
		return nil, d.wrongType(v, "subqueries are embedded in SQL, not cast")
	}
	if v = indirect(v); v == nil || isPassthrough(v) {
		return v, nil
	}
	if s, ok := v.(string); ok && s == "" && !d.typ.KeepsEmptyString() {
		return nil, nil
	}
	switch d.typ {
	case Boolean:
		b, err := d.castBool(v)
		if err != nil {
			return nil, err
		}
		if b {
			return d.profile.BoolTrue, nil
		}
		return d.profile.BoolFalse, nil
	case Bit:
		return d.castBit(v)
	case TinyInt, SmallInt, Integer, BigInt:
		return d.castInteger(v)
	case Float, Double:
		return d.castFloat(v)
	case Decimal, Money:
		return d.castDecimal(v, true)
	case Char, String, Text:
		return d.castString(v)
	case Binary:
		return d.castBinary(v)
	case Enum:
		return d.castEnum(v)
	case UUID:
		return d.castUUID(v)
	case Date, Time, TimeTZ, DateTime, DateTimeTZ, Timestamp, TimestampTZ:
		return d.castTemporal(v)
	case JSON:
		return d.castJSON(v)
	case Array:
		return d.castArray(v)
	case Structured:
		return d.castStructured(v)
	default:
		return d.castString(v)
	}
}

// ToHost converts a value returned by a driver to its host representation.
// It is a left inverse of ToDatabase for representable values.
func (d *Descriptor) ToHost(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if isExpression(raw) {
		return raw, nil
	}
	switch d.typ {
	case Boolean:
		return d.castBool(raw)
	case Bit:
		return d.hostBit(raw)
	case TinyInt, SmallInt, Integer, BigInt:
		return d.hostInteger(raw)
	case Float, Double:
		return d.castFloat(raw)
	case Decimal, Money:
		return d.castDecimal(raw, false)
	case Char, String, Text, Enum:
		return d.hostString(raw)
	case Binary:
		return d.castBinary(raw)
	case UUID:
		return d.hostUUID(raw)
	case Date, Time, TimeTZ, DateTime, DateTimeTZ, Timestamp, TimestampTZ:
		return d.hostTemporal(raw)
	case JSON:
		return d.hostJSON(raw)
	case Array:
		return d.hostArray(raw)
	case Structured:
		return d.hostStructured(raw)
	default:
		return d.hostString(raw)
	}
}
