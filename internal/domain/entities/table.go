package entities

import "encoding/json"

// TableEntry is one loaded translation: the target text, the unit's sequence number and its comments.
type TableEntry struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	ID       int64  `json:"id"`
	Comments string `json:"comments"`
}

// Table is the in-memory projection of a catalog: source text -> entries, iterated in unit id order.
// A source text stored more than once keeps every entry.
type Table struct {
	entries []TableEntry
	index   map[string][]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string][]int)}
}

// Add appends an entry. Callers add in ascending unit id order.
func (t *Table) Add(e TableEntry) {
	if t.index == nil {
		t.index = make(map[string][]int)
	}
	t.index[e.Source] = append(t.index[e.Source], len(t.entries))
	t.entries = append(t.entries, e)
}

// Len returns the total number of entries, repeated sources included.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in load order.
func (t *Table) Entries() []TableEntry {
	out := make([]TableEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns every entry stored under source, in load order.
func (t *Table) Lookup(source string) []TableEntry {
	idx := t.index[source]
	if len(idx) == 0 {
		return nil
	}
	out := make([]TableEntry, len(idx))
	for i, j := range idx {
		out[i] = t.entries[j]
	}
	return out
}

// First returns the first entry stored under source.
func (t *Table) First(source string) (TableEntry, bool) {
	idx := t.index[source]
	if len(idx) == 0 {
		return TableEntry{}, false
	}
	return t.entries[idx[0]], true
}

// Sources returns the distinct source texts in order of first appearance.
func (t *Table) Sources() []string {
	out := make([]string, 0, len(t.index))
	seen := make(map[string]struct{}, len(t.index))
	for _, e := range t.entries {
		if _, ok := seen[e.Source]; ok {
			continue
		}
		seen[e.Source] = struct{}{}
		out = append(out, e.Source)
	}
	return out
}

func (t *Table) MarshalJSON() ([]byte, error) {
	entries := t.entries
	if entries == nil {
		entries = []TableEntry{}
	}
	return json.Marshal(entries)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var entries []TableEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	t.entries = nil
	t.index = make(map[string][]int, len(entries))
	for _, e := range entries {
		t.Add(e)
	}
	return nil
}
