package values

import "fmt"

// Char is a single Unicode code point Object. There is no surface literal
// syntax for it and no instruction produces one; it mirrors the data
// model's Char/Byte split.
type Char rune

func (Char) Kind() Kind       { return KindChar }
func (c Char) String() string { return fmt.Sprintf("%c", rune(c)) }

// Byte is a single 8-bit unsigned Object, distinct from Char.
type Byte byte

func (Byte) Kind() Kind       { return KindByte }
func (b Byte) String() string { return fmt.Sprintf("%d", byte(b)) }
