package types

// Param is a named value bound out-of-band to a placeholder.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered, append-only mapping from placeholder name to bound value.
// A nil *Params behaves as an empty map for all read methods.
type Params struct {
	index map[string]int
	list  []Param
}

// NewParams creates a parameter map seeded with params in order.
// Later duplicates of a name are ignored.
func NewParams(params ...Param) *Params {
	p := &Params{index: make(map[string]int, len(params))}
	for _, param := range params {
		p.Add(param.Name, param.Value)
	}
	return p
}

// Add appends a binding. It returns false and leaves the map untouched
// when the name is already bound.
func (p *Params) Add(name string, value any) bool {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if _, ok := p.index[name]; ok {
		return false
	}
	p.index[name] = len(p.list)
	p.list = append(p.list, Param{Name: name, Value: value})
	return true
}

// Get returns the value bound to name.
func (p *Params) Get(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.list[i].Value, true
}

// Has reports whether name is bound.
func (p *Params) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.index[name]
	return ok
}

// Len returns the number of bindings.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.list)
}

// Names returns the placeholder names in binding order.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.list))
	for i, param := range p.list {
		names[i] = param.Name
	}
	return names
}

// List returns a copy of the bindings in order.
func (p *Params) List() []Param {
	if p == nil {
		return nil
	}
	out := make([]Param, len(p.list))
	copy(out, p.list)
	return out
}

// Map returns the bindings as an unordered map.
func (p *Params) Map() map[string]any {
	if p == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(p.list))
	for _, param := range p.list {
		out[param.Name] = param.Value
	}
	return out
}

// Clone returns an independent copy.
func (p *Params) Clone() *Params {
	if p == nil {
		return NewParams()
	}
	return NewParams(p.list...)
}
