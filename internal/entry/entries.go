package entry

// PeakEpsilon is the smallest peak change that is recorded. Smaller deltas are
// metering jitter and would only cause redraw storms.
const PeakEpsilon float32 = 0.01

// Entries owns every known entry, keyed by identifier. Iteration follows
// insertion order per type.
type Entries struct {
	byID  map[Identifier]*Entry
	order map[Type][]Identifier
	rev   uint64
}

// NewEntries returns an empty collection.
func NewEntries() *Entries {
	return &Entries{
		byID:  make(map[Identifier]*Entry),
		order: make(map[Type][]Identifier),
	}
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	return len(e.byID)
}

// Revision changes whenever an entry is added, replaced, removed or
// reparented. Peak levels do not count.
func (e *Entries) Revision() uint64 {
	return e.rev
}

// Get looks up an entry.
func (e *Entries) Get(ident Identifier) (*Entry, bool) {
	en, ok := e.byID[ident]
	return en, ok
}

// Contains reports whether ident is known.
func (e *Entries) Contains(ident Identifier) bool {
	_, ok := e.byID[ident]
	return ok
}

// Insert adds or replaces an entry. A replaced entry keeps its position and
// its last recorded peak.
func (e *Entries) Insert(en *Entry) {
	if en == nil {
		return
	}
	e.rev++
	if prev, ok := e.byID[en.Ident]; ok {
		if prev.Play != nil && en.Play != nil {
			en.Play.Peak = prev.Play.Peak
		}
		e.byID[en.Ident] = en
		return
	}
	e.byID[en.Ident] = en
	e.order[en.Ident.Type] = append(e.order[en.Ident.Type], en.Ident)
}

// Remove deletes an entry, reporting whether it existed.
func (e *Entries) Remove(ident Identifier) bool {
	if _, ok := e.byID[ident]; !ok {
		return false
	}
	delete(e.byID, ident)
	e.rev++
	ids := e.order[ident.Type]
	for i, id := range ids {
		if id == ident {
			e.order[ident.Type] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return true
}

// IterType returns the identifiers of one type in insertion order.
func (e *Entries) IterType(t Type) []Identifier {
	ids := e.order[t]
	if len(ids) == 0 {
		return nil
	}
	return append([]Identifier(nil), ids...)
}

// Position returns the index of ident within its type's order, or -1.
func (e *Entries) Position(ident Identifier) int {
	for i, id := range e.order[ident.Type] {
		if id == ident {
			return i
		}
	}
	return -1
}

// SetPeak records a new peak level. It reports false, leaving the entry
// untouched, for cards, unknown entries and changes below PeakEpsilon.
func (e *Entries) SetPeak(ident Identifier, peak float32) bool {
	if !ident.Type.Metered() {
		return false
	}
	en, ok := e.byID[ident]
	if !ok || en.Play == nil {
		return false
	}
	delta := en.Play.Peak - peak
	if delta < 0 {
		delta = -delta
	}
	if delta < PeakEpsilon {
		return false
	}
	en.Play.Peak = peak
	return true
}

// SetParent reattaches a stream to another device index.
func (e *Entries) SetParent(ident Identifier, parent uint32) bool {
	en, ok := e.byID[ident]
	if !ok || !ident.Type.IsStream() {
		return false
	}
	if en.Parent == parent {
		return false
	}
	en.Parent = parent
	e.rev++
	return true
}

// Children returns the streams of type child attached to parent, in order.
func (e *Entries) Children(parent Identifier, child Type) []Identifier {
	var out []Identifier
	for _, id := range e.order[child] {
		if en := e.byID[id]; en.Parent == parent.Index {
			out = append(out, id)
		}
	}
	return out
}
