// Package plugs provides plug type identity and the default plug manager that
// constructs, hands out and tears down plug instances for a test run.
package plugs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrNoFactory is returned when a plug type can neither be constructed by
// reflection nor has a registered factory.
var ErrNoFactory = errors.New("no factory for plug type")

// ErrNotInitialized is returned when a plug is requested before Initialize.
var ErrNotInitialized = errors.New("plug not initialized")

// Type identifies a plug class. Two Types are equal when they describe the
// same Go type.
type Type struct {
	rt reflect.Type
}

// TypeOf returns the Type for T, usually a pointer to a struct.
func TypeOf[T any]() Type {
	return Type{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// String returns the Go type name.
func (t Type) String() string {
	if t.rt == nil {
		return "<nil>"
	}

	return t.rt.String()
}

// IsZero reports whether t was never set.
func (t Type) IsZero() bool {
	return t.rt == nil
}

// Request asks for an instance of Type to be provided under Name.
type Request struct {
	Name string
	Type Type
}

// Setupper is implemented by plugs that need initialization before use.
type Setupper interface {
	Setup(ctx context.Context) error
}

// TearDowner is implemented by plugs that hold resources.
type TearDowner interface {
	TearDown() error
}

// Provider resolves plug instances at phase call time.
type Provider interface {
	ProvidePlugs(reqs []Request) (map[string]any, error)
}

// Lifecycle is a Provider that also owns plug construction and teardown.
type Lifecycle interface {
	Provider
	Initialize(ctx context.Context, types []Type) error
	TearDown() error
}

// Factory constructs a plug instance.
type Factory func() (any, error)

// Manager is the default Lifecycle implementation. One instance of each plug
// type is shared by every phase of a run.
type Manager struct {
	mu        sync.Mutex
	factories map[Type]Factory
	instances map[Type]any
	order     []Type
}

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{
		factories: make(map[Type]Factory),
		instances: make(map[Type]any),
	}
}

// Register installs a custom factory for t.
func (m *Manager) Register(t Type, f Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.factories[t] = f
}

// Initialize constructs and sets up every type not yet initialized. Setup
// runs concurrently across plugs.
func (m *Manager) Initialize(ctx context.Context, types []Type) error {
	pending := m.pending(types)
	if len(pending) == 0 {
		return nil
	}

	built := make([]any, len(pending))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, t := range pending {
		group.Go(func() error {
			instance, err := m.construct(t)
			if err != nil {
				return err
			}

			if s, ok := instance.(Setupper); ok {
				if err := s.Setup(groupCtx); err != nil {
					slog.Error("Plug setup failed", "plug", t.String(), "error", err)
					return fmt.Errorf("setup plug %s: %w", t, err)
				}
			}

			built[i] = instance

			return nil
		})
	}

	err := group.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range pending {
		if built[i] == nil {
			continue
		}

		m.instances[t] = built[i]
		m.order = append(m.order, t)
		slog.Debug("Initialized plug", "plug", t.String())
	}

	return err
}

func (m *Manager) pending(types []Type) []Type {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[Type]bool, len(types))
	pending := make([]Type, 0, len(types))

	for _, t := range types {
		if _, ok := m.instances[t]; ok || seen[t] {
			continue
		}

		seen[t] = true
		pending = append(pending, t)
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].String() < pending[j].String()
	})

	return pending
}

func (m *Manager) construct(t Type) (any, error) {
	m.mu.Lock()
	factory, ok := m.factories[t]
	m.mu.Unlock()

	if ok {
		instance, err := factory()
		if err != nil {
			return nil, fmt.Errorf("construct plug %s: %w", t, err)
		}

		return instance, nil
	}

	if t.rt == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoFactory, t)
	}

	switch {
	case t.rt.Kind() == reflect.Pointer && t.rt.Elem().Kind() == reflect.Struct:
		return reflect.New(t.rt.Elem()).Interface(), nil
	case t.rt.Kind() == reflect.Struct:
		return reflect.New(t.rt).Elem().Interface(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoFactory, t)
	}
}

// ProvidePlugs returns the initialized instance for every request, keyed by
// request name.
func (m *Manager) ProvidePlugs(reqs []Request) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	provided := make(map[string]any, len(reqs))

	for _, req := range reqs {
		instance, ok := m.instances[req.Type]
		if !ok {
			return nil, fmt.Errorf("%w: %s (%s)", ErrNotInitialized, req.Name, req.Type)
		}

		provided[req.Name] = instance
	}

	return provided, nil
}

// TearDown tears down every plug in reverse initialization order and forgets
// the instances. All teardown errors are returned joined.
func (m *Manager) TearDown() error {
	m.mu.Lock()
	order := m.order
	instances := m.instances
	m.order = nil
	m.instances = make(map[Type]any)
	m.mu.Unlock()

	var errs []error

	for i := len(order) - 1; i >= 0; i-- {
		t := order[i]

		td, ok := instances[t].(TearDowner)
		if !ok {
			continue
		}

		if err := td.TearDown(); err != nil {
			slog.Error("Plug teardown failed", "plug", t.String(), "error", err)
			errs = append(errs, fmt.Errorf("tear down plug %s: %w", t, err))
		}
	}

	return errors.Join(errs...)
}
