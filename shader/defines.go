package shader

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// Define is a single compile-time symbolic constant.
type Define struct {
	Name  string
	Value string
}

// DefineList is an immutable ordered set of defines keyed by name.
// The zero value is an empty list and is ready to use.
//
// Order is the order in which names were first added; overwriting a name
// keeps its original position.
type DefineList struct {
	defs []Define
}

// Defines builds a list from name/value pairs.
// It panics if kv has an odd number of elements.
func Defines(kv ...string) DefineList {
	if len(kv)%2 != 0 {
		panic("shader: Defines requires name/value pairs")
	}
	var l DefineList
	for i := 0; i < len(kv); i += 2 {
		l = l.Add(kv[i], kv[i+1])
	}
	return l
}

// Len returns the number of defines.
func (l DefineList) Len() int { return len(l.defs) }

// Get returns the value for name.
func (l DefineList) Get(name string) (string, bool) {
	if i := l.index(name); i >= 0 {
		return l.defs[i].Value, true
	}
	return "", false
}

// All returns a copy of the defines in order.
func (l DefineList) All() []Define {
	out := make([]Define, len(l.defs))
	copy(out, l.defs)
	return out
}

// Add returns a new list with name set to value.
func (l DefineList) Add(name, value string) DefineList {
	defs := make([]Define, len(l.defs), len(l.defs)+1)
	copy(defs, l.defs)
	if i := l.index(name); i >= 0 {
		defs[i].Value = value
		return DefineList{defs: defs}
	}
	return DefineList{defs: append(defs, Define{Name: name, Value: value})}
}

// Merge returns a new list holding l overlaid with other.
// Names in other overwrite names in l; new names are appended in other's order.
func (l DefineList) Merge(other DefineList) DefineList {
	if len(other.defs) == 0 {
		return l
	}
	defs := make([]Define, len(l.defs), len(l.defs)+len(other.defs))
	copy(defs, l.defs)
	out := DefineList{defs: defs}
	for _, d := range other.defs {
		if i := out.index(d.Name); i >= 0 {
			out.defs[i].Value = d.Value
			continue
		}
		out.defs = append(out.defs, d)
	}
	return out
}

// Change records one name whose value differs between two lists.
type Change struct {
	Name  string
	Old   string
	New   string
	Added bool
}

// Diff returns the names whose value in next differs from l, in next's
// order. Names present in l but missing from next are not reported: define
// lists only grow.
func (l DefineList) Diff(next DefineList) []Change {
	var changes []Change
	for _, d := range next.defs {
		old, ok := l.Get(d.Name)
		switch {
		case !ok:
			changes = append(changes, Change{Name: d.Name, New: d.Value, Added: true})
		case old != d.Value:
			changes = append(changes, Change{Name: d.Name, Old: old, New: d.Value})
		}
	}
	return changes
}

// Equal reports whether both lists hold the same name/value pairs,
// regardless of order.
func (l DefineList) Equal(other DefineList) bool {
	if len(l.defs) != len(other.defs) {
		return false
	}
	for _, d := range l.defs {
		if v, ok := other.Get(d.Name); !ok || v != d.Value {
			return false
		}
	}
	return true
}

// Hash returns an order-independent hash of the list. Equal lists hash
// to the same value.
func (l DefineList) Hash() uint64 {
	sorted := l.All()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := fnv.New64a()
	var n [4]byte
	for _, d := range sorted {
		binary.LittleEndian.PutUint32(n[:], uint32(len(d.Name))) //nolint:gosec // define names are short
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(d.Name))
		binary.LittleEndian.PutUint32(n[:], uint32(len(d.Value))) //nolint:gosec // define values are short
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(d.Value))
	}
	return h.Sum64()
}

// String formats the list as NAME=value pairs.
func (l DefineList) String() string {
	var b strings.Builder
	for i, d := range l.defs {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", d.Name, d.Value)
	}
	return b.String()
}

func (l DefineList) index(name string) int {
	for i, d := range l.defs {
		if d.Name == name {
			return i
		}
	}
	return -1
}
