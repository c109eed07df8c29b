package registry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
	"github.com/gaigenticai/insurance-ai-system-sub000/logger"
)

func newTestRegistry() *Registry {
	return New(logger.NewDefault("registry-test"))
}

func TestResolve_Singleton(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.RegisterSingleton("svc", func(ctx context.Context, deps Deps) (any, error) {
		calls++
		return &struct{ n int }{n: 42}, nil
	})

	first, err := r.Resolve(context.Background(), "svc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := r.Resolve(context.Background(), "svc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first != second {
		t.Error("expected the same singleton instance on every resolve")
	}
	if calls != 1 {
		t.Errorf("expected 1 factory call, got %d", calls)
	}
}

func TestResolve_Transient(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.RegisterTransient("svc", func(ctx context.Context, deps Deps) (any, error) {
		calls++
		return &struct{ n int }{n: calls}, nil
	})

	first, _ := r.Resolve(context.Background(), "svc")
	second, _ := r.Resolve(context.Background(), "svc")
	if first == second {
		t.Error("expected distinct instances from a transient service")
	}
	if calls != 2 {
		t.Errorf("expected 2 factory calls, got %d", calls)
	}
}

func TestResolve_ScopedBehavesAsSingleton(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.RegisterScoped("svc", func(ctx context.Context, deps Deps) (any, error) {
		calls++
		return &struct{}{}, nil
	})

	first, _ := r.Resolve(context.Background(), "svc")
	second, _ := r.Resolve(context.Background(), "svc")
	if first != second {
		t.Error("expected scoped service to resolve to one instance")
	}
	if calls != 1 {
		t.Errorf("expected 1 factory call, got %d", calls)
	}
}

func TestResolve_NotRegistered(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Resolve(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error for an unregistered service")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeServiceNotRegistered {
		t.Errorf("expected SERVICE_NOT_REGISTERED, got %s", apperrors.CodeOf(err))
	}
}

func TestResolve_DependenciesFirst(t *testing.T) {
	r := newTestRegistry()
	var order []string

	r.RegisterSingleton("db", func(ctx context.Context, deps Deps) (any, error) {
		order = append(order, "db")
		return "db-conn", nil
	})
	r.RegisterSingleton("repo", func(ctx context.Context, deps Deps) (any, error) {
		order = append(order, "repo")
		if deps.Get("db") != "db-conn" {
			t.Error("expected db dependency to be constructed and passed in")
		}
		return "repo", nil
	}, "db")

	if _, err := r.Resolve(context.Background(), "repo"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(order) != 2 || order[0] != "db" || order[1] != "repo" {
		t.Errorf("expected construction order [db repo], got %v", order)
	}
}

func TestResolve_CycleDetected(t *testing.T) {
	r := newTestRegistry()
	r.RegisterSingleton("a", func(ctx context.Context, deps Deps) (any, error) {
		return "a", nil
	}, "b")
	r.RegisterSingleton("b", func(ctx context.Context, deps Deps) (any, error) {
		return "b", nil
	}, "a")

	done := make(chan error, 1)
	go func() {
		_, err := r.Resolve(context.Background(), "a")
		done <- err
	}()

	err := <-done
	if err == nil {
		t.Fatal("expected a circular dependency error")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeCircularDependency {
		t.Fatalf("expected CIRCULAR_DEPENDENCY, got %s", apperrors.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "b") {
		t.Errorf("expected both services named in the cycle error, got %v", err)
	}
}

func TestResolve_ConstructionFailureSticks(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.RegisterSingleton("broken", func(ctx context.Context, deps Deps) (any, error) {
		calls++
		return nil, errors.New("boom")
	})

	if _, err := r.Resolve(context.Background(), "broken"); err == nil {
		t.Fatal("expected construction error")
	}
	_, err := r.Resolve(context.Background(), "broken")
	if err == nil {
		t.Fatal("expected cached construction error on second resolve")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeConstructionFailed {
		t.Errorf("expected CONSTRUCTION_FAILED, got %s", apperrors.CodeOf(err))
	}
	if calls != 1 {
		t.Errorf("expected factory to run once, got %d calls", calls)
	}
}

func TestResolve_ConcurrentSingleResolution(t *testing.T) {
	r := newTestRegistry()
	var calls int32
	r.RegisterSingleton("svc", func(ctx context.Context, deps Deps) (any, error) {
		atomic.AddInt32(&calls, 1)
		return &struct{}{}, nil
	})

	const workers = 32
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			instance, err := r.Resolve(context.Background(), "svc")
			if err != nil {
				t.Errorf("resolve %d: %v", i, err)
				return
			}
			results[i] = instance
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 factory call under contention, got %d", got)
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("resolver %d got a different instance", i)
		}
	}
}

func TestRegisterInstance(t *testing.T) {
	r := newTestRegistry()
	already := &struct{ name string }{name: "pre-built"}
	r.RegisterInstance("pre", already)

	got, err := r.Resolve(context.Background(), "pre")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != already {
		t.Error("expected the pre-built instance back")
	}

	for _, info := range r.Info() {
		if info.ServiceType == "pre" && info.Status != StatusReady.String() {
			t.Errorf("expected pre-built instance to be ready, got %s", info.Status)
		}
	}
}

type stoppable struct {
	name    string
	stopped *[]string
	mu      *sync.Mutex
}

func (s *stoppable) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.stopped = append(*s.stopped, s.name)
	return nil
}

func TestShutdown_ReverseOrder(t *testing.T) {
	r := newTestRegistry()
	var stopped []string
	var mu sync.Mutex

	for _, name := range []string{"first", "second", "third"} {
		name := name
		var deps []string
		switch name {
		case "second":
			deps = []string{"first"}
		case "third":
			deps = []string{"second"}
		}
		r.RegisterSingleton(name, func(ctx context.Context, d Deps) (any, error) {
			return &stoppable{name: name, stopped: &stopped, mu: &mu}, nil
		}, deps...)
	}

	if _, err := r.Resolve(context.Background(), "third"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	r.Shutdown(context.Background())

	want := []string{"third", "second", "first"}
	if len(stopped) != len(want) {
		t.Fatalf("expected %d stops, got %v", len(want), stopped)
	}
	for i := range want {
		if stopped[i] != want[i] {
			t.Errorf("stop %d: expected %s, got %s", i, want[i], stopped[i])
		}
	}
}

func TestShutdown_RejectsNewResolves(t *testing.T) {
	r := newTestRegistry()
	r.RegisterSingleton("svc", func(ctx context.Context, deps Deps) (any, error) {
		return &struct{}{}, nil
	})

	r.Shutdown(context.Background())

	_, err := r.Resolve(context.Background(), "svc")
	if err == nil {
		t.Fatal("expected resolve after shutdown to fail")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeShuttingDown {
		t.Errorf("expected SHUTTING_DOWN, got %s", apperrors.CodeOf(err))
	}
}

func TestResolveAs(t *testing.T) {
	r := newTestRegistry()
	r.RegisterSingleton("number", func(ctx context.Context, deps Deps) (any, error) {
		return 7, nil
	})

	n, err := ResolveAs[int](context.Background(), r, "number")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7, got %d", n)
	}

	if _, err := ResolveAs[string](context.Background(), r, "number"); err == nil {
		t.Error("expected a type mismatch error")
	}
}

func TestInfo_ReportsStatus(t *testing.T) {
	r := newTestRegistry()
	r.RegisterSingleton("ready", func(ctx context.Context, deps Deps) (any, error) {
		return "ok", nil
	})
	r.RegisterSingleton("untouched", func(ctx context.Context, deps Deps) (any, error) {
		return "ok", nil
	})

	if _, err := r.Resolve(context.Background(), "ready"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	statuses := map[string]string{}
	for _, info := range r.Info() {
		statuses[info.ServiceType] = info.Status
	}
	if statuses["ready"] != StatusReady.String() {
		t.Errorf("expected ready service to report Ready, got %s", statuses["ready"])
	}
	if statuses["untouched"] != StatusRegistered.String() {
		t.Errorf("expected unresolved service to report Registered, got %s", statuses["untouched"])
	}
}

type initService struct {
	initialized bool
	fail        bool
}

func (s *initService) Initialize(_ context.Context) error {
	if s.fail {
		return errors.New("init blew up")
	}
	s.initialized = true
	return nil
}

func TestResolve_InitializeHook(t *testing.T) {
	r := newTestRegistry()
	r.RegisterSingleton("svc", func(ctx context.Context, deps Deps) (any, error) {
		return &initService{}, nil
	})

	instance, err := r.Resolve(context.Background(), "svc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !instance.(*initService).initialized {
		t.Error("expected Initialize to run before the service is ready")
	}
}

func TestResolve_InitializeFailure(t *testing.T) {
	r := newTestRegistry()
	r.RegisterSingleton("svc", func(ctx context.Context, deps Deps) (any, error) {
		return &initService{fail: true}, nil
	})

	_, err := r.Resolve(context.Background(), "svc")
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := apperrors.CodeOf(err); code != apperrors.ErrCodeConstructionFailed {
		t.Errorf("expected CONSTRUCTION_FAILED, got %s", code)
	}
	if !strings.Contains(err.Error(), "init blew up") {
		t.Errorf("expected cause in message, got %q", err)
	}
}

func TestResolve_ConcurrentCycleFromDifferentNodes(t *testing.T) {
	r := newTestRegistry()

	// The slow transient widens the window in which both resolutions hold
	// their own descriptor lock before recursing into the other's.
	r.RegisterTransient("slow", func(ctx context.Context, deps Deps) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return "slow", nil
	})
	r.RegisterSingleton("a", func(ctx context.Context, deps Deps) (any, error) {
		return "a", nil
	}, "slow", "b")
	r.RegisterSingleton("b", func(ctx context.Context, deps Deps) (any, error) {
		return "b", nil
	}, "slow", "a")

	errCh := make(chan error, 2)
	for _, name := range []string{"a", "b"} {
		go func(name string) {
			_, err := r.Resolve(context.Background(), name)
			errCh <- err
		}(name)
	}

	var errs []error
	for i := 0; i < 2; i++ {
		select {
		case err := <-errCh:
			errs = append(errs, err)
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent resolves of a cyclic graph never returned")
		}
	}

	sawCycle := false
	for _, err := range errs {
		if err == nil {
			t.Fatal("expected both resolves of a cyclic graph to fail")
		}
		if strings.Contains(err.Error(), "circular dependency") {
			sawCycle = true
		}
	}
	if !sawCycle {
		t.Errorf("expected a circular dependency in at least one error, got %v", errs)
	}
}
