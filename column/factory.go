package column

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Factory derives descriptors from definition strings or driver metadata
// using a dialect profile. It is safe for concurrent use.
type Factory struct {
	profile *Profile
	natives []string // multi-word native names, longest first
}

// NewFactory creates a factory for profile. A nil profile uses Generic().
func NewFactory(profile *Profile) *Factory {
	if profile == nil {
		profile = Generic()
	}
	f := &Factory{profile: profile}
	seen := map[string]bool{}
	for _, table := range []map[string]Type{profile.NativeTypes, genericTypes} {
		for name := range table {
			if strings.Contains(name, " ") && !seen[name] {
				seen[name] = true
				f.natives = append(f.natives, name)
			}
		}
	}
	sort.Slice(f.natives, func(i, j int) bool {
		if len(f.natives[i]) != len(f.natives[j]) {
			return len(f.natives[i]) > len(f.natives[j])
		}
		return f.natives[i] < f.natives[j]
	})
	return f
}

// Profile returns the factory's profile.
func (f *Factory) Profile() *Profile {
	return f.profile
}

// Definition is a parsed column definition string.
type Definition struct {
	Base      string   // lowercase base type, e.g. "varchar"
	Args      []string // parenthesized arguments, unquoted for enums
	Extra     string   // remaining text, verbatim
	Dimension int      // number of [] suffixes
	Unsigned  bool
}

var (
	bareWord   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	unsignedRe = regexp.MustCompile(`(?i)(^|\s)unsigned(\s|$)`)
)

// ParseDefinition splits "type(len[,scale])[] [UNSIGNED] [extra]" into parts.
// The leading bare word (or a known multi-word native name) is the base type;
// a case-insensitive UNSIGNED token is removed and recorded; whatever remains
// is kept verbatim as Extra.
func (f *Factory) ParseDefinition(definition string) (Definition, error) {
	s := strings.TrimSpace(definition)
	var def Definition

	lower := strings.ToLower(s)
	for _, name := range f.natives {
		if strings.HasPrefix(lower, name) && (len(s) == len(name) || !isWordByte(s[len(name)])) {
			def.Base = name
			break
		}
	}
	if def.Base == "" {
		word := bareWord.FindString(s)
		if word == "" {
			return Definition{}, fmt.Errorf("column definition %q: missing type", definition)
		}
		def.Base = strings.ToLower(word)
	}
	s = s[len(def.Base):]

	if strings.HasPrefix(strings.TrimLeft(s, " "), "(") {
		s = strings.TrimLeft(s, " ")
		end := closingParen(s)
		if end < 0 {
			return Definition{}, fmt.Errorf("column definition %q: unbalanced parentheses", definition)
		}
		def.Args = splitArgs(s[1:end])
		s = s[end+1:]
	}
	for strings.HasPrefix(s, "[]") {
		def.Dimension++
		s = s[2:]
	}

	if unsignedRe.MatchString(s) {
		def.Unsigned = true
		s = unsignedRe.ReplaceAllString(s, " ")
	}
	s = strings.TrimSpace(s)

	// "timestamp(3) with time zone" keeps the zone qualifier in the base type
	for _, zone := range []string{"with time zone", "without time zone"} {
		if len(s) >= len(zone) && strings.EqualFold(s[:len(zone)], zone) {
			def.Base += " " + zone
			s = strings.TrimSpace(s[len(zone):])
			break
		}
	}
	def.Extra = s
	return def, nil
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// closingParen returns the index of the parenthesis closing s[0], honoring quotes.
func closingParen(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits a comma list, unquoting single-quoted items.
func splitArgs(s string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		args = append(args, strings.TrimSpace(cur.String()))
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '\'' && inQuote && i+1 < len(s) && s[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case ch == '\'':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return args
}

// FromDefinition builds a descriptor from a definition string such as
// "decimal(10,2) UNSIGNED NOT NULL" or "int4[]".
func (f *Factory) FromDefinition(name, definition string) (*Descriptor, error) {
	def, err := f.ParseDefinition(definition)
	if err != nil {
		return nil, err
	}
	spec := Spec{
		Name:     name,
		DBType:   def.Base,
		Extra:    def.Extra,
		Unsigned: def.Unsigned,
		Nullable: !strings.Contains(strings.ToUpper(def.Extra), "NOT NULL"),
	}
	upperExtra := strings.ToUpper(def.Extra)
	spec.PrimaryKey = strings.Contains(upperExtra, "PRIMARY KEY")
	spec.AutoIncrement = strings.Contains(upperExtra, "AUTO_INCREMENT") ||
		strings.Contains(upperExtra, "AUTOINCREMENT") ||
		strings.Contains(upperExtra, "IDENTITY")

	typ := f.resolve(def.Base)
	if def.Base == "enum" || def.Base == "set" {
		spec.Enum = def.Args
	} else if err := sizeArgs(&spec, def.Args, definition); err != nil {
		return nil, err
	}
	if f.profile.NarrowBool && spec.Size == 1 && (def.Base == "tinyint" || def.Base == "bit") {
		typ = Boolean
	}
	if strings.Contains(def.Base, "serial") {
		spec.AutoIncrement = true
	}

	if def.Dimension > 0 {
		itemSpec := spec
		itemSpec.Name = ""
		itemSpec.Type = typ
		itemSpec.DBType = def.Base
		itemSpec.Extra = ""
		itemSpec.Nullable = true
		itemSpec.PrimaryKey, itemSpec.AutoIncrement = false, false
		spec.Item = New(itemSpec, f.profile)
		spec.Type = Array
		spec.Dimension = def.Dimension
		return New(spec, f.profile), nil
	}
	spec.Type = typ
	return New(spec, f.profile), nil
}

func sizeArgs(spec *Spec, args []string, definition string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) > 2 {
		return fmt.Errorf("column definition %q: too many size arguments", definition)
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		// e.g. varchar(max)
		return nil
	}
	spec.Size = size
	spec.Precision = size
	if len(args) == 2 {
		if spec.Scale, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("column definition %q: invalid scale %q", definition, args[1])
		}
	}
	return nil
}

// resolve maps a lowercase native name to an abstract type. Unknown names
// are treated as strings.
func (f *Factory) resolve(native string) Type {
	if t, ok := f.profile.abstractType(native); ok {
		return t
	}
	return String
}

// Metadata is driver-reported column metadata, in the shape database/sql
// ColumnType exposes, plus catalog details a schema loader may add.
type Metadata struct {
	Default       any
	Name          string
	DatabaseType  string
	Extra         string
	Enum          []string
	Fields        []Metadata // sub-columns of a composite type
	Length        int64
	Precision     int64
	Scale         int64
	Dimension     int
	HasLength     bool
	HasPrecision  bool
	HasDefault    bool
	Nullable      bool
	Unsigned      bool
	PrimaryKey    bool
	AutoIncrement bool
}

// FromMetadata builds a descriptor from driver metadata. Array types are
// recognized by a "[]" suffix or the "_" element prefix postgres drivers report.
func (f *Factory) FromMetadata(m Metadata) (*Descriptor, error) {
	native := strings.ToLower(strings.TrimSpace(m.DatabaseType))
	if native == "" {
		return nil, fmt.Errorf("column %q: missing database type", m.Name)
	}
	dim := m.Dimension
	for strings.HasSuffix(native, "[]") {
		native = strings.TrimSuffix(native, "[]")
		if m.Dimension == 0 {
			dim++
		}
	}
	if strings.HasPrefix(native, "_") {
		native = native[1:]
		if dim == 0 {
			dim = 1
		}
	}
	if i := strings.IndexByte(native, '('); i > 0 {
		native = strings.TrimSpace(native[:i])
	}

	spec := Spec{
		Default:       m.Default,
		Name:          m.Name,
		Extra:         m.Extra,
		Enum:          m.Enum,
		HasDefault:    m.HasDefault,
		Nullable:      m.Nullable,
		Unsigned:      m.Unsigned || strings.Contains(native, "unsigned"),
		PrimaryKey:    m.PrimaryKey,
		AutoIncrement: m.AutoIncrement || strings.Contains(native, "serial"),
	}
	native = strings.TrimSpace(strings.Replace(native, "unsigned", "", 1))
	spec.DBType = native

	typ := f.resolve(native)
	if m.HasLength {
		spec.Size = int(m.Length)
	}
	if m.HasPrecision {
		spec.Precision = int(m.Precision)
		spec.Scale = int(m.Scale)
		if typ.IsTemporal() {
			spec.Size = int(m.Scale)
		} else if !m.HasLength {
			spec.Size = int(m.Precision)
		}
	}
	if f.profile.NarrowBool && spec.Size == 1 && (native == "tinyint" || native == "bit") {
		typ = Boolean
	}

	if len(m.Fields) > 0 {
		for _, fm := range m.Fields {
			fd, err := f.FromMetadata(fm)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", m.Name, err)
			}
			spec.Fields = append(spec.Fields, fd)
		}
		typ = Structured
	}

	if dim > 0 {
		item := spec
		item.Name, item.DBType, item.Type = "", native, typ
		item.Nullable, item.PrimaryKey, item.AutoIncrement = true, false, false
		item.Default, item.HasDefault = nil, false
		spec.Item = New(item, f.profile)
		spec.Type = Array
		spec.Dimension = dim
		return New(spec, f.profile), nil
	}
	spec.Type = typ
	return New(spec, f.profile), nil
}
