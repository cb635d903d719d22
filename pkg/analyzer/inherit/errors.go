package inherit

import (
	"errors"
	"strings"
)

// ErrCyclicInheritance is matched by every *CycleError.
var ErrCyclicInheritance = errors.New("cyclic inheritance detected")

// CycleError reports a parent chain that revisits a class.
type CycleError struct {
	// Chain is the walked chain, ending with the first repeated class name.
	Chain []string
}

func (e *CycleError) Error() string {
	return ErrCyclicInheritance.Error() + ": " + strings.Join(e.Chain, " -> ")
}

// Is makes errors.Is(err, ErrCyclicInheritance) match.
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicInheritance
}
