package values

import "strconv"

// Integer is a 64-bit signed integer Object.
type Integer int64

func (Integer) Kind() Kind           { return KindInteger }
func (i Integer) String() string     { return strconv.FormatInt(int64(i), 10) }
