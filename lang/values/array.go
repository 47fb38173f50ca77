package values

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
)

// Array is the Table type from the data model: an ordered array part plus a
// sparse keyed part, addressed by non-negative integer index. The array
// part holds indices [0, len(part)) contiguously; pushing past the end
// grows it, while setting an index beyond that falls through to the
// swiss-backed sparse part, mirroring the original ctable's split storage.
type Array struct {
	part   []Object
	sparse *swiss.Map[int64, Object]
}

var _ Object = (*Array)(nil)

// NewArray returns an empty Array.
func NewArray() *Array {
	return &Array{}
}

// NewArrayFrom returns an Array whose array part is a copy of elems.
func NewArrayFrom(elems []Object) *Array {
	part := make([]Object, len(elems))
	copy(part, elems)
	return &Array{part: part}
}

func (*Array) Kind() Kind { return KindArray }

func (a *Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.part {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Len reports the number of elements in the array part. The sparse part
// does not contribute to Len; it exists purely to absorb out-of-range sets
// without reallocating the whole array part.
func (a *Array) Len() int { return len(a.part) }

// Push appends v to the array part.
func (a *Array) Push(v Object) {
	a.part = append(a.part, v)
}

// Get returns the value at index i, or Nil if nothing was ever stored
// there. Negative indices are never valid.
func (a *Array) Get(i int64) (Object, error) {
	if i < 0 {
		return nil, fmt.Errorf("array index out of range: %d", i)
	}
	if i < int64(len(a.part)) {
		return a.part[i], nil
	}
	if a.sparse != nil {
		if v, ok := a.sparse.Get(i); ok {
			return v, nil
		}
	}
	return Nil, nil
}

// Set stores v at index i. Indices inside the array part overwrite in
// place; indices immediately past the end extend the array part (matching
// the common "set == push at len" pattern); anything further out goes into
// the sparse part.
func (a *Array) Set(i int64, v Object) error {
	if i < 0 {
		return fmt.Errorf("array index out of range: %d", i)
	}
	switch {
	case i < int64(len(a.part)):
		a.part[i] = v
	case i == int64(len(a.part)):
		a.part = append(a.part, v)
	default:
		if a.sparse == nil {
			a.sparse = swiss.NewMap[int64, Object](8)
		}
		a.sparse.Put(i, v)
	}
	return nil
}
