package registry

import (
	"context"
	"sync"
)

// Lifecycle is the instance-sharing policy for a registered service.
type Lifecycle int

const (
	// Singleton creates exactly one instance for the registry's lifetime.
	Singleton Lifecycle = iota
	// Transient creates a fresh instance per resolution.
	Transient
	// Scoped creates one instance per logical scope. Without a scope
	// abstraction it behaves as Singleton.
	Scoped
)

func (l Lifecycle) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}

// Status is a descriptor's position in its lifecycle state machine. It only
// advances Registered -> Initializing -> {Ready | Error}; Ready may move to
// Stopped during shutdown; Error is terminal until re-registration.
type Status int

const (
	StatusRegistered Status = iota
	StatusInitializing
	StatusReady
	StatusError
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "registered"
	case StatusInitializing:
		return "initializing"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Deps carries the resolved dependency instances into a factory.
type Deps map[string]any

// Get returns the resolved dependency registered under serviceType.
func (d Deps) Get(serviceType string) any { return d[serviceType] }

// Factory constructs a service instance. Every declared dependency has been
// resolved before the factory runs.
type Factory func(ctx context.Context, deps Deps) (any, error)

// Stopper is the shutdown hook invoked for constructed instances during
// registry teardown.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Initializer is the post-construction hook. When an instance implements it,
// the registry calls Initialize before marking the service ready; a failure
// counts as a construction failure.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// descriptor is the registry's metadata record for one registered type.
type descriptor struct {
	serviceType  string
	lifecycle    Lifecycle
	dependencies []string
	factory      Factory

	// mu serializes first construction; status and instance are read under
	// it (or the registry lock for introspection).
	mu        sync.Mutex
	status    Status
	instance  any
	lastError error
}

// snapshot reads the descriptor state without holding it locked for longer
// than the copy.
func (d *descriptor) snapshot() (Status, any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.instance, d.lastError
}
