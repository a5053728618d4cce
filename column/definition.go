package column

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/zoobzio/predicate/internal/types"
)

// BuildDefinition renders the DDL fragment for a column:
//
//	native(size[,scale]) [UNSIGNED] [NOT NULL] [DEFAULT literal] [PRIMARY KEY] [extra]
//
// Clauses already present in the descriptor's extra text are not repeated.
// Default literals are formatted by the profile's category table.
func BuildDefinition(d *Descriptor) string {
	var b strings.Builder
	b.WriteString(nativeDecl(d))

	extra := strings.ToUpper(d.extra)
	if d.unsigned {
		b.WriteString(" UNSIGNED")
	}
	if !d.nullable && !strings.Contains(extra, "NOT NULL") {
		b.WriteString(" NOT NULL")
	}
	if d.hasDefault && !strings.Contains(extra, "DEFAULT") {
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultLiteral(d))
	}
	if d.primaryKey && !strings.Contains(extra, "PRIMARY KEY") {
		b.WriteString(" PRIMARY KEY")
	}
	if d.extra != "" {
		b.WriteByte(' ')
		b.WriteString(d.extra)
	}
	return b.String()
}

func nativeDecl(d *Descriptor) string {
	p := d.profile
	if d.typ == Array {
		if !p.NativeArrays {
			return p.nativeType(JSON)
		}
		return nativeDecl(d.item) + strings.Repeat("[]", d.dimension)
	}

	native := d.dbType
	if native == "" {
		native = p.nativeType(d.typ)
	}
	if strings.Contains(native, "(") {
		return native
	}
	if d.typ == Enum && strings.EqualFold(native, "enum") {
		quoted := make([]string, len(d.enum))
		for i, v := range d.enum {
			quoted[i] = p.quoter().QuoteValue(v)
		}
		return native + "(" + strings.Join(quoted, ",") + ")"
	}

	args := sizeDecl(d)
	if args == "" {
		return native
	}
	// "timestamp with time zone" takes its precision after the first word
	if i := strings.Index(native, " with"); i > 0 {
		return native[:i] + args + native[i:]
	}
	return native + args
}

func sizeDecl(d *Descriptor) string {
	switch {
	case d.typ == Decimal || d.typ == Money:
		if d.precision <= 0 {
			return ""
		}
		if d.scale > 0 {
			return "(" + strconv.Itoa(d.precision) + "," + strconv.Itoa(d.scale) + ")"
		}
		return "(" + strconv.Itoa(d.precision) + ")"
	case d.size <= 0:
		return ""
	case d.typ == Char, d.typ == String, d.typ == Binary, d.typ == Bit, d.typ == Boolean,
		d.typ.IsTemporal() && d.typ != Date:
		return "(" + strconv.Itoa(d.size) + ")"
	}
	return ""
}

func defaultLiteral(d *Descriptor) string {
	p := d.profile
	v := d.defaultValue
	switch x := v.(type) {
	case nil:
		return "NULL"
	case types.Expression:
		return x.SQL
	case *types.Expression:
		return x.SQL
	}

	switch p.categories().Of(d.typ) {
	case CategoryBoolean:
		b, err := d.castBool(v)
		if err != nil {
			return p.quoter().QuoteValue(fmt.Sprint(v))
		}
		out := p.BoolFalse
		if b {
			out = p.BoolTrue
		}
		if bv, ok := out.(bool); ok {
			return strings.ToUpper(strconv.FormatBool(bv))
		}
		return fmt.Sprint(out)
	case CategoryNumeric:
		cast, err := d.toDatabase(v)
		if err != nil || cast == nil {
			return p.quoter().QuoteValue(fmt.Sprint(v))
		}
		return fmt.Sprint(cast)
	case CategoryJSON:
		data, err := json.Marshal(v)
		if err != nil {
			return p.quoter().QuoteValue(fmt.Sprint(v))
		}
		return p.quoter().QuoteValue(string(data))
	}

	cast, err := d.toDatabase(v)
	if err != nil || cast == nil {
		cast = v
	}
	switch x := cast.(type) {
	case string:
		return p.quoter().QuoteValue(x)
	case []byte:
		return p.quoter().QuoteValue(string(x))
	}
	return p.quoter().QuoteValue(fmt.Sprint(cast))
}
