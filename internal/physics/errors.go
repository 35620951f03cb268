package physics

import "errors"

var (
	// ErrNegativeIndex rejects a composite with a negative family or flavor.
	ErrNegativeIndex = errors.New("physics: negative family or flavor index")

	// ErrUnknownKind rejects a particle whose kind tag is not defined.
	ErrUnknownKind = errors.New("physics: unknown particle kind")
)
