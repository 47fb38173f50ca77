package values

import "fmt"

// FuncRef is a reference to a subroutine by its index in the function
// table. It is what Push(FuncPtr) and a Function-typed array element hold.
type FuncRef int32

func (FuncRef) Kind() Kind       { return KindFuncRef }
func (f FuncRef) String() string { return fmt.Sprintf("funcref(%d)", int32(f)) }
