package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL es la vigencia por defecto de una entrada.
const DefaultTTL = 5 * time.Minute

// entry es el ocupante actual de una clave.
// gen distingue ocupantes sucesivos: el timer de un ocupante viejo no
// puede borrar al nuevo.
type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
	timer    *time.Timer
	gen      uint64
}

func (e *entry) staleAt(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// Stats es la foto que expone el endpoint de diagnóstico.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Counters acumula contadores internos para instrumentación.
// El paquete de métricas los mapea a Prometheus; acá no se importa nada.
type Counters struct {
	Hits               uint64
	Misses             uint64
	LazyEvictions      uint64
	ScheduledEvictions uint64
}

// Cache es un cache efímero en memoria con TTL por entrada.
// Todas las operaciones son seguras para uso concurrente: cada acceso al
// mapa pasa por el mutex.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	defaultTTL time.Duration
	nextGen    uint64
	stopped    bool
	counters   Counters

	group singleflight.Group
}

// New crea un cache con el TTL por defecto dado.
// defaultTTL <= 0 usa DefaultTTL.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]*entry),
		defaultTTL: defaultTTL,
	}
}

// Set guarda value bajo key, sobrescribiendo cualquier ocupante anterior.
// ttl <= 0 usa el default de la instancia. Siempre (re)arma el desalojo
// programado; el timer del ocupante anterior se detiene primero.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeLocked(key, value, ttl)
}

func (c *Cache) storeLocked(key string, value any, ttl time.Duration) {
	if prev, ok := c.entries[key]; ok && prev.timer != nil {
		prev.timer.Stop()
	}

	c.nextGen++
	e := &entry{
		value:    value,
		storedAt: time.Now(),
		ttl:      ttl,
		gen:      c.nextGen,
	}
	if !c.stopped {
		gen := e.gen
		e.timer = time.AfterFunc(ttl, func() { c.expire(key, gen) })
	}
	c.entries[key] = e
}

// expire es el callback del timer de una entrada.
// Borra sólo si la clave sigue ocupada por la generación que armó el timer.
func (c *Cache) expire(key string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.gen != gen {
		return
	}
	delete(c.entries, key)
	c.counters.ScheduledEvictions++
}

// Get retorna el valor vigente de key.
// Una entrada vencida se remueve acá mismo (desalojo perezoso) y se
// responde como ausente. nil es un valor válido: (nil, true) significa
// que alguien guardó nil.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.counters.Misses++
		return nil, false
	}
	if e.staleAt(time.Now()) {
		c.dropLocked(key, e)
		c.counters.LazyEvictions++
		c.counters.Misses++
		return nil, false
	}
	c.counters.Hits++
	return e.value, true
}

// Has reporta si key tiene un valor vigente, con el mismo desalojo
// perezoso que Get. Nunca responde true para una entrada vencida.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if e.staleAt(time.Now()) {
		c.dropLocked(key, e)
		c.counters.LazyEvictions++
		return false
	}
	return true
}

// Delete remueve key y reporta si estaba presente.
// No chequea vigencia: una entrada vencida aún no desalojada cuenta como
// presente.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.dropLocked(key, e)
	return true
}

// Clear remueve todas las entradas y detiene sus timers.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	c.entries = make(map[string]*entry)
}

// Size retorna la cantidad de entradas del mapa, incluyendo las vencidas
// que todavía no fueron desalojadas. Size refleja ocupación, no vigencia.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys retorna las claves del mapa crudo (mismo criterio que Size),
// ordenadas para que la salida sea estable.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keysLocked()
}

func (c *Cache) keysLocked() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats retorna tamaño y claves en una sola toma del lock.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Size: len(c.entries), Keys: c.keysLocked()}
}

// CounterSnapshot retorna los contadores acumulados.
func (c *Cache) CounterSnapshot() Counters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters
}

// GetOrSet retorna el valor vigente de key o lo computa con factory.
// Misses concurrentes de la misma clave comparten una sola ejecución de
// factory. Si factory falla, el error se propaga y no se escribe nada.
// factory corre fuera del lock: puede bloquear (consultas a DB).
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, factory func(context.Context) (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Otro vuelo pudo haber poblado la clave mientras esperábamos.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DeletePrefix remueve todas las claves con el prefijo dado y retorna
// cuántas removió. Lo usan los writes para invalidar familias de claves
// (ej: "employees:").
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			c.dropLocked(k, e)
			n++
		}
	}
	return n
}

// Stop detiene todos los timers pendientes y deja de armar nuevos.
// El cache sigue siendo usable: el desalojo perezoso alcanza. Pensado
// para shutdown y para tests que necesitan observar entradas vencidas.
func (c *Cache) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for _, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}
}

// dropLocked saca la entrada del mapa y detiene su timer.
func (c *Cache) dropLocked(key string, e *entry) {
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(c.entries, key)
}
