package shading

import "fmt"

// Kind enumerates the shading kinds known to the renderer. The numeric value of a Kind is
// its position in a Registry.
type Kind int

const (
	// KindPureColor fills every fragment with one constant color.
	KindPureColor Kind = iota

	// kindCount is the number of kinds; it must stay last.
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindPureColor:
		return "pure_color"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds returns every declared kind in registry order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}
