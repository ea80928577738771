package rate

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/kv"
)

func TestAllowUntilMax(t *testing.T) {
	l := NewKVLimiter(kv.NewMemory("t"), "rl", 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "login:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d debería pasar", i)
		}
		if want := int64(3 - i); res.Remaining != want {
			t.Fatalf("remaining tras hit %d = %d, esperaba %d", i, res.Remaining, want)
		}
	}

	res, err := l.Allow(ctx, "login:1.2.3.4")
	if err != nil {
		t.Fatalf("Allow 4: %v", err)
	}
	if res.Allowed {
		t.Fatal("hit 4 debería rebotar")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Fatalf("RetryAfter fuera de rango: %v", res.RetryAfter)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewKVLimiter(kv.NewMemory("t"), "rl", 1, time.Minute)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "login:1.1.1.1"); !res.Allowed {
		t.Fatal("primera IP debería pasar")
	}
	if res, _ := l.Allow(ctx, "login:1.1.1.1"); res.Allowed {
		t.Fatal("primera IP debería rebotar")
	}
	if res, _ := l.Allow(ctx, "login:2.2.2.2"); !res.Allowed {
		t.Fatal("otra IP no comparte contador")
	}
}

func TestWindowResets(t *testing.T) {
	const window = 40 * time.Millisecond
	l := NewKVLimiter(kv.NewMemory("t"), "rl", 1, window)
	ctx := context.Background()

	// Arrancar recién entrada una ventana para que los dos primeros
	// hits no queden a caballo de un borde.
	now := time.Now().UTC()
	time.Sleep(now.Truncate(window).Add(window + 5*time.Millisecond).Sub(now))

	if res, _ := l.Allow(ctx, "k"); !res.Allowed {
		t.Fatal("primer hit debería pasar")
	}
	if res, _ := l.Allow(ctx, "k"); res.Allowed {
		t.Fatal("segundo hit en la misma ventana debería rebotar")
	}

	time.Sleep(90 * time.Millisecond)
	if res, _ := l.Allow(ctx, "k"); !res.Allowed {
		t.Fatal("ventana nueva debería arrancar en cero")
	}
}

func TestNoopAlwaysAllows(t *testing.T) {
	var l Limiter = Noop{}
	for i := 0; i < 50; i++ {
		res, err := l.Allow(context.Background(), "x")
		if err != nil || !res.Allowed {
			t.Fatalf("Noop rechazó: %v %v", res, err)
		}
	}
}
