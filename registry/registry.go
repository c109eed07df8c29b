package registry

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
	"github.com/gaigenticai/insurance-ai-system-sub000/logger"
)

// Registry is the service container. Create one at process start and thread
// it through explicitly; there is no package-level instance.
type Registry struct {
	mu           sync.RWMutex
	descriptors  map[string]*descriptor
	shuttingDown bool

	// orderMu guards creationOrder separately so recording a constructed
	// singleton never contends with descriptor-map readers.
	orderMu       sync.Mutex
	creationOrder []string

	// waitMu guards waitingOn: which service each in-progress construction
	// is currently blocked on. The edges let resolutions that enter a cycle
	// at different nodes detect it before deadlocking on each other's
	// descriptor locks.
	waitMu    sync.Mutex
	waitingOn map[string]string

	inflight sync.WaitGroup
	log      *logger.Logger
}

// New creates an empty registry.
func New(log *logger.Logger) *Registry {
	return &Registry{
		descriptors: make(map[string]*descriptor),
		waitingOn:   make(map[string]string),
		log:         log.WithComponent("registry"),
	}
}

// RegisterSingleton registers a service constructed at most once. An
// existing descriptor for the same type is overwritten.
func (r *Registry) RegisterSingleton(serviceType string, factory Factory, dependencies ...string) {
	r.register(serviceType, Singleton, factory, dependencies)
}

// RegisterTransient registers a service constructed fresh on every
// resolution.
func (r *Registry) RegisterTransient(serviceType string, factory Factory, dependencies ...string) {
	r.register(serviceType, Transient, factory, dependencies)
}

// RegisterScoped registers a scoped service. Without a scope abstraction it
// shares the singleton behavior.
func (r *Registry) RegisterScoped(serviceType string, factory Factory, dependencies ...string) {
	r.register(serviceType, Scoped, factory, dependencies)
}

// RegisterInstance registers an already constructed singleton. It is
// immediately ready and participates in shutdown ordering.
func (r *Registry) RegisterInstance(serviceType string, instance any) {
	d := &descriptor{
		serviceType: serviceType,
		lifecycle:   Singleton,
		status:      StatusReady,
		instance:    instance,
	}
	r.mu.Lock()
	r.descriptors[serviceType] = d
	r.mu.Unlock()

	r.orderMu.Lock()
	r.creationOrder = append(r.creationOrder, serviceType)
	r.orderMu.Unlock()
}

func (r *Registry) register(serviceType string, lifecycle Lifecycle, factory Factory, dependencies []string) {
	d := &descriptor{
		serviceType:  serviceType,
		lifecycle:    lifecycle,
		dependencies: dependencies,
		factory:      factory,
		status:       StatusRegistered,
	}
	r.mu.Lock()
	r.descriptors[serviceType] = d
	r.mu.Unlock()

	r.log.Debug("service registered", logger.Fields(
		"service", serviceType,
		"lifecycle", lifecycle.String(),
		"dependencies", dependencies,
	))
}

// Resolve returns an instance of the registered service, constructing it
// and its declared dependencies on first use.
func (r *Registry) Resolve(ctx context.Context, serviceType string) (any, error) {
	r.mu.RLock()
	if r.shuttingDown {
		r.mu.RUnlock()
		return nil, apperrors.ShuttingDown()
	}
	r.inflight.Add(1)
	r.mu.RUnlock()
	defer r.inflight.Done()

	return r.resolve(ctx, serviceType, nil)
}

// resolve walks the dependency graph. chain holds the in-progress resolution
// path for cycle detection.
func (r *Registry) resolve(ctx context.Context, serviceType string, chain []string) (any, error) {
	for _, ancestor := range chain {
		if ancestor == serviceType {
			return nil, apperrors.CircularDependency(append(chain, serviceType))
		}
	}

	r.mu.RLock()
	d, ok := r.descriptors[serviceType]
	shuttingDown := r.shuttingDown
	r.mu.RUnlock()

	if shuttingDown {
		return nil, apperrors.ShuttingDown()
	}
	if !ok {
		return nil, apperrors.ServiceNotRegistered(serviceType)
	}

	if d.lifecycle == Transient {
		return r.construct(ctx, d, append(chain, serviceType))
	}

	// Fast path for an already ready singleton.
	if status, instance, _ := d.snapshot(); status == StatusReady {
		return instance, nil
	}

	// Slow path: serialize first construction on the descriptor lock and
	// re-check, so concurrent resolvers construct at most once. The wait
	// edge is published before blocking so a cycle split across resolvers
	// surfaces as an error here instead of an AB-BA deadlock.
	if err := r.beginWait(serviceType, chain); err != nil {
		return nil, err
	}
	d.mu.Lock()
	r.endWait(chain)
	defer d.mu.Unlock()

	switch d.status {
	case StatusReady:
		return d.instance, nil
	case StatusError:
		return nil, apperrors.ConstructionFailed(serviceType, d.lastError)
	case StatusStopped:
		return nil, apperrors.ShuttingDown()
	}

	d.status = StatusInitializing
	instance, err := r.constructLocked(ctx, d, append(chain, serviceType))
	if err != nil {
		d.status = StatusError
		d.lastError = err
		r.log.Error("service construction failed", logger.Fields(
			"service", serviceType,
			"error", err.Error(),
		))
		// A cycle is a graph defect, not a factory failure; surface it as-is.
		if apperrors.CodeOf(err) == apperrors.ErrCodeCircularDependency {
			return nil, err
		}
		return nil, apperrors.ConstructionFailed(serviceType, err)
	}

	d.instance = instance
	d.status = StatusReady
	d.lastError = nil

	r.orderMu.Lock()
	r.creationOrder = append(r.creationOrder, serviceType)
	r.orderMu.Unlock()

	r.log.Info("service initialized", logger.Fields("service", serviceType))
	return instance, nil
}

// beginWait records that every construction in chain is now blocked on
// serviceType, then walks the wait graph from serviceType. Reaching a member
// of chain means another resolver inside the same cycle holds a descriptor
// lock this goroutine needs; blocking would never return, so the cycle is
// reported instead. Publishing before checking, under one mutex, guarantees
// at least one of two racing resolvers sees the closed loop.
func (r *Registry) beginWait(serviceType string, chain []string) error {
	if len(chain) == 0 {
		return nil
	}

	r.waitMu.Lock()
	defer r.waitMu.Unlock()

	for _, ancestor := range chain {
		r.waitingOn[ancestor] = serviceType
	}

	seen := make(map[string]bool)
	for cur := serviceType; ; {
		next, ok := r.waitingOn[cur]
		if !ok || seen[next] {
			return nil
		}
		seen[next] = true
		for _, ancestor := range chain {
			if next != ancestor {
				continue
			}
			for _, held := range chain {
				delete(r.waitingOn, held)
			}
			cycle := append(append(make([]string, 0, len(chain)+1), chain...), serviceType)
			return apperrors.CircularDependency(cycle)
		}
		cur = next
	}
}

// endWait clears the edges published by beginWait once the descriptor lock
// is held and the chain is running again.
func (r *Registry) endWait(chain []string) {
	if len(chain) == 0 {
		return
	}
	r.waitMu.Lock()
	for _, ancestor := range chain {
		delete(r.waitingOn, ancestor)
	}
	r.waitMu.Unlock()
}

// construct builds a transient instance without caching it.
func (r *Registry) construct(ctx context.Context, d *descriptor, chain []string) (any, error) {
	instance, err := r.constructLocked(ctx, d, chain)
	if err != nil {
		d.mu.Lock()
		d.lastError = err
		d.mu.Unlock()
		if apperrors.CodeOf(err) == apperrors.ErrCodeCircularDependency {
			return nil, err
		}
		return nil, apperrors.ConstructionFailed(d.serviceType, err)
	}
	return instance, nil
}

// constructLocked resolves declared dependencies and invokes the factory.
// Every dependency's construction completes before the factory begins.
func (r *Registry) constructLocked(ctx context.Context, d *descriptor, chain []string) (any, error) {
	if d.factory == nil {
		return nil, fmt.Errorf("no factory for service %s", d.serviceType)
	}

	deps := make(Deps, len(d.dependencies))
	for _, dep := range d.dependencies {
		instance, err := r.resolve(ctx, dep, chain)
		if err != nil {
			return nil, fmt.Errorf("resolving dependency %s: %w", dep, err)
		}
		deps[dep] = instance
	}

	instance, err := d.factory(ctx, deps)
	if err != nil {
		return nil, err
	}
	if init, ok := instance.(Initializer); ok {
		if err := init.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("initializing service %s: %w", d.serviceType, err)
		}
	}
	return instance, nil
}

// Shutdown quiesces new resolutions, drains in-flight constructions, then
// stops constructed instances in reverse creation order. Individual stop
// failures are logged, never propagated.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	if r.shuttingDown {
		r.mu.Unlock()
		return
	}
	r.shuttingDown = true
	r.mu.Unlock()

	r.inflight.Wait()

	r.orderMu.Lock()
	order := make([]string, len(r.creationOrder))
	copy(order, r.creationOrder)
	r.creationOrder = nil
	r.orderMu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		serviceType := order[i]

		r.mu.RLock()
		d := r.descriptors[serviceType]
		r.mu.RUnlock()
		if d == nil {
			continue
		}

		d.mu.Lock()
		instance := d.instance
		d.instance = nil
		d.status = StatusStopped
		d.mu.Unlock()

		if err := stopInstance(ctx, instance); err != nil {
			r.log.Warn("service shutdown failed", logger.Fields(
				"service", serviceType,
				"error", err.Error(),
			))
			continue
		}
		r.log.Info("service stopped", logger.Fields("service", serviceType))
	}
}

func stopInstance(ctx context.Context, instance any) error {
	switch v := instance.(type) {
	case Stopper:
		return v.Stop(ctx)
	case interface{ Close() error }:
		return v.Close()
	default:
		return nil
	}
}

// ServiceInfo describes one registered service for introspection.
type ServiceInfo struct {
	ServiceType  string   `json:"service_type"`
	Lifecycle    string   `json:"lifecycle"`
	Status       string   `json:"status"`
	Dependencies []string `json:"dependencies,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Info lists all registered services and their current state.
func (r *Registry) Info() []ServiceInfo {
	r.mu.RLock()
	descriptors := make([]*descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		descriptors = append(descriptors, d)
	}
	r.mu.RUnlock()

	out := make([]ServiceInfo, 0, len(descriptors))
	for _, d := range descriptors {
		status, _, lastErr := d.snapshot()
		info := ServiceInfo{
			ServiceType:  d.serviceType,
			Lifecycle:    d.lifecycle.String(),
			Status:       status.String(),
			Dependencies: d.dependencies,
		}
		if lastErr != nil {
			info.Error = lastErr.Error()
		}
		out = append(out, info)
	}
	return out
}

// ResolveAs resolves a service and asserts its concrete type.
func ResolveAs[T any](ctx context.Context, r *Registry, serviceType string) (T, error) {
	instance, err := r.Resolve(ctx, serviceType)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("service %s has type %T, not %T", serviceType, instance, zero)
	}
	return typed, nil
}
