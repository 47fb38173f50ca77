package values

import "strconv"

// Float is a 64-bit floating point Object.
type Float float64

func (Float) Kind() Kind       { return KindFloat }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
