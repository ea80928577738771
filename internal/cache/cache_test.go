package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("greeting", "hola", 0)
	v, ok := c.Get("greeting")
	if !ok {
		t.Fatalf("expected hit for greeting")
	}
	if v.(string) != "hola" {
		t.Fatalf("got %v, want hola", v)
	}
}

func TestGetAbsent(t *testing.T) {
	c := New(0)
	defer c.Stop()

	if v, ok := c.Get("nope"); ok || v != nil {
		t.Fatalf("expected miss, got (%v, %v)", v, ok)
	}
}

func TestNilIsAValue(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("empty", nil, 0)
	v, ok := c.Get("empty")
	if !ok {
		t.Fatalf("stored nil should be a hit")
	}
	if v != nil {
		t.Fatalf("got %v, want nil", v)
	}
}

func TestOverwrite(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("k", "v1", 0)
	c.Set("k", "v2", 0)
	v, ok := c.Get("k")
	if !ok || v.(string) != "v2" {
		t.Fatalf("got (%v, %v), want (v2, true)", v, ok)
	}
	if got := c.Size(); got != 1 {
		t.Fatalf("size = %d, want 1", got)
	}
}

func TestLazyEviction(t *testing.T) {
	c := New(0)
	c.Set("k", "v", 30*time.Millisecond)
	c.Stop() // sin timers: sólo desalojo perezoso

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected stale entry to read as absent")
	}
	if got := c.Size(); got != 0 {
		t.Fatalf("size after lazy eviction = %d, want 0", got)
	}
	if n := c.CounterSnapshot().LazyEvictions; n != 1 {
		t.Fatalf("lazy evictions = %d, want 1", n)
	}
}

func TestScheduledEviction(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("k", "v", 30*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	// Sin ninguna lectura, el timer tiene que haber limpiado la entrada.
	if got := c.Size(); got != 0 {
		t.Fatalf("size = %d, want 0 (timer should have evicted)", got)
	}
	if n := c.CounterSnapshot().ScheduledEvictions; n != 1 {
		t.Fatalf("scheduled evictions = %d, want 1", n)
	}
}

func TestSizeCountsStaleEntries(t *testing.T) {
	c := New(0)
	c.Set("k", "v", 20*time.Millisecond)
	c.Stop()

	time.Sleep(60 * time.Millisecond)

	// Vencida pero nunca leída ni desalojada: Size y Keys la cuentan.
	if got := c.Size(); got != 1 {
		t.Fatalf("size = %d, want 1 (stale entries count)", got)
	}
	keys := c.Keys()
	if len(keys) != 1 || keys[0] != "k" {
		t.Fatalf("keys = %v, want [k]", keys)
	}
	if c.Has("k") {
		t.Fatalf("Has must never report a stale entry")
	}
	if got := c.Size(); got != 0 {
		t.Fatalf("size after Has = %d, want 0", got)
	}
}

func TestHas(t *testing.T) {
	c := New(0)
	defer c.Stop()

	if c.Has("k") {
		t.Fatalf("Has on empty cache")
	}
	c.Set("k", 42, 0)
	if !c.Has("k") {
		t.Fatalf("expected Has = true")
	}
}

func TestDeleteTwice(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("k", "v", 0)
	if !c.Delete("k") {
		t.Fatalf("first delete should report true")
	}
	if c.Delete("k") {
		t.Fatalf("second delete should report false")
	}
	if c.Delete("never-existed") {
		t.Fatalf("delete of absent key should report false")
	}
}

func TestClear(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)
	c.Clear()

	if got := c.Size(); got != 0 {
		t.Fatalf("size after clear = %d, want 0", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after clear")
	}
	c.Clear() // clear sobre cache vacío es no-op
}

func TestDefaultTTLApplies(t *testing.T) {
	c := New(40 * time.Millisecond)
	defer c.Stop()

	c.Set("k", "v", 0) // 0 ⇒ default de la instancia
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit right after set")
	}
	time.Sleep(120 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire with the instance default TTL")
	}
}

func TestGetOrSetComputesOnce(t *testing.T) {
	c := New(0)
	defer c.Stop()

	calls := 0
	factory := func(context.Context) (any, error) {
		calls++
		return "computed", nil
	}

	v, err := c.GetOrSet(context.Background(), "k", 0, factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(string) != "computed" {
		t.Fatalf("got %v, want computed", v)
	}

	v, err = c.GetOrSet(context.Background(), "k", 0, factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(string) != "computed" {
		t.Fatalf("got %v, want computed", v)
	}
	if calls != 1 {
		t.Fatalf("factory calls = %d, want 1", calls)
	}
}

func TestGetOrSetErrorLeavesNothing(t *testing.T) {
	c := New(0)
	defer c.Stop()

	boom := errors.New("db caída")
	_, err := c.GetOrSet(context.Background(), "k", 0, func(context.Context) (any, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got err %v, want %v", err, boom)
	}
	if got := c.Size(); got != 0 {
		t.Fatalf("size = %d, want 0 (failed factory must not write)", got)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after failed factory")
	}

	// Un retry con factory sana sí escribe.
	v, err := c.GetOrSet(context.Background(), "k", 0, func(context.Context) (any, error) {
		return 7, nil
	})
	if err != nil || v.(int) != 7 {
		t.Fatalf("got (%v, %v), want (7, nil)", v, err)
	}
}

func TestGetOrSetRecomputesStale(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("k", "old", 20*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	v, err := c.GetOrSet(context.Background(), "k", 0, func(context.Context) (any, error) {
		return "fresh", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(string) != "fresh" {
		t.Fatalf("got %v, want fresh", v)
	}
}

// Una clave sobrescrita no puede perder el valor nuevo cuando vence el TTL
// del valor viejo: el timer anterior se cancela y, si igual disparara, la
// generación no coincide.
func TestOverwriteSurvivesOldTimer(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("k", "v1", 50*time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	c.Set("k", "v2", 10*time.Second)

	time.Sleep(150 * time.Millisecond) // bastante después del TTL de v1

	v, ok := c.Get("k")
	if !ok {
		t.Fatalf("v2 must still be present after v1's TTL elapsed")
	}
	if v.(string) != "v2" {
		t.Fatalf("got %v, want v2", v)
	}
}

func TestStats(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("b", 2, 0)
	c.Set("a", 1, 0)

	st := c.Stats()
	if st.Size != 2 {
		t.Fatalf("stats.size = %d, want 2", st.Size)
	}
	if len(st.Keys) != 2 || st.Keys[0] != "a" || st.Keys[1] != "b" {
		t.Fatalf("stats.keys = %v, want [a b]", st.Keys)
	}
}

func TestDeletePrefix(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("employees:list:1", "x", 0)
	c.Set("employees:list:2", "y", 0)
	c.Set("dashboard:summary", "z", 0)

	if n := c.DeletePrefix("employees:"); n != 2 {
		t.Fatalf("deleted = %d, want 2", n)
	}
	if got := c.Size(); got != 1 {
		t.Fatalf("size = %d, want 1", got)
	}
	if !c.Has("dashboard:summary") {
		t.Fatalf("unrelated key must survive prefix invalidation")
	}
}

func TestGetOrSetSingleFlight(t *testing.T) {
	c := New(0)
	defer c.Stop()

	var calls atomic.Int64
	factory := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(30 * time.Millisecond)
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrSet(context.Background(), "hot", 0, factory)
			if err != nil {
				t.Errorf("goroutine %d: %v", i, err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("factory calls = %d, want 1 (concurrent misses must collapse)", n)
	}
	for i, v := range results {
		if v.(string) != "shared" {
			t.Fatalf("goroutine %d got %v, want shared", i, v)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(0)
	defer c.Stop()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%10)
				switch i % 5 {
				case 0:
					c.Set(key, g*1000+i, time.Duration(i%3)*time.Millisecond)
				case 1:
					c.Get(key)
				case 2:
					c.Has(key)
				case 3:
					c.Delete(key)
				default:
					c.Size()
				}
			}
		}(g)
	}
	wg.Wait()

	// Sólo importa terminar sin data races ni deadlocks; el estado final
	// depende del scheduling.
	c.Clear()
	if got := c.Size(); got != 0 {
		t.Fatalf("size = %d, want 0", got)
	}
}
