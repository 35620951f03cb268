package physics

import "fmt"

// Kind tags a particle as elementary or composite.
type Kind uint8

const (
	Elementary Kind = iota
	Composite
)

// NumKinds bounds the per-kind lookup tables.
const NumKinds = 2

func (k Kind) Valid() bool { return k < NumKinds }

func (k Kind) String() string {
	switch k {
	case Elementary:
		return "electron"
	case Composite:
		return "quark"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts the names produced by String.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "electron", "elementary":
		return Elementary, nil
	case "quark", "composite":
		return Composite, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
