package compute

import (
	"errors"
	"fmt"

	"github.com/san-kum/anomaly/internal/physics"
)

// ErrUnknownBackend is returned by Select for an unregistered name.
var ErrUnknownBackend = errors.New("compute: unknown backend")

type Backend interface {
	Name() string
	Available() bool
	Accumulate(s *physics.Simulation, law physics.Law)
	Cleanup()
}

// Select returns the backend registered under name. "auto" picks the
// parallel CPU backend when more than one worker is available.
func Select(name string, workers int) (Backend, error) {
	switch name {
	case "serial":
		return NewSerialBackend(), nil
	case "cpu", "parallel":
		return NewCPUBackend(workers), nil
	case "", "auto":
		b := NewCPUBackend(workers)
		if b.workers > 1 {
			return b, nil
		}
		return NewSerialBackend(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Names lists the backends accepted by Select.
func Names() []string {
	return []string{"auto", "serial", "parallel"}
}
