package values

// Str is a UTF-8 string Object.
type Str string

func (Str) Kind() Kind       { return KindStr }
func (s Str) String() string { return string(s) }
