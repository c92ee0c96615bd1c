// Package querycache guarda vistas de lectura (listados, resúmenes, analítica) por clave
// jerárquica y las invalida o parchea tras cada mutación.
//
// Una mutación que termina con éxito invalida todas las claves que afecta antes de devolver
// el control. Cualquier Fetch posterior sobre esas claves vuelve a la base, salvo que la
// entrada haya sido parcheada con el resultado autoritativo de la propia mutación.
package querycache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const keySep = "\x1f"

// DefaultGCTime tiempo sin lecturas tras el cual una entrada se descarta.
const DefaultGCTime = 5 * time.Minute

// Key clave jerárquica: ["products", "eggs", "100", "0"]. Invalidate(["products"]) afecta a todas.
type Key []string

// K construye una clave formateando cada parte con fmt.Sprint.
func K(parts ...any) Key {
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = fmt.Sprint(p)
	}
	return k
}

func (k Key) String() string { return strings.Join(k, keySep) }

// HasPrefix indica si prefix es prefijo (por segmentos) de k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) clone() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}

// Loader obtiene el valor fresco de una clave.
type Loader func(ctx context.Context) (any, error)

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	stale     bool
	// lastRead en nanosegundos Unix; se actualiza con lectura compartida del mapa.
	lastRead atomic.Int64
}

func newEntry(key Key, value any, at time.Time, stale bool) *entry {
	e := &entry{key: key.clone(), value: value, fetchedAt: at, stale: stale}
	e.lastRead.Store(at.UnixNano())
	return e
}

// Entry copia de una entrada expuesta a Entries.
type Entry struct {
	Key       Key
	Value     any
	FetchedAt time.Time
	Stale     bool
}

// Stats contadores de uso.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Option configura el Cache.
type Option func(*Cache)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithGCTime cambia el tiempo sin lecturas tras el cual se descarta una entrada.
func WithGCTime(d time.Duration) Option {
	return func(c *Cache) { c.gcTime = d }
}

// Cache seguro para uso concurrente.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	// epoch avanza con cada invalidación. Una carga iniciada en una época anterior se
	// guarda marcada como vencida y no se comparte con cargas de la época nueva.
	epoch uint64

	group  singleflight.Group
	now    func() time.Time
	gcTime time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// New construye un cache vacío.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
		gcTime:  DefaultGCTime,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch devuelve el valor cacheado si tiene menos de staleTime; si no, llama a fn.
// Las llamadas concurrentes sobre la misma clave comparten una sola carga.
// Un error de fn no se cachea.
func (c *Cache) Fetch(ctx context.Context, key Key, staleTime time.Duration, fn Loader) (any, error) {
	id := key.String()

	c.mu.RLock()
	e, ok := c.entries[id]
	epoch := c.epoch
	now := c.now()
	if ok {
		e.lastRead.Store(now.UnixNano())
	}
	if ok && !e.stale && now.Sub(e.fetchedAt) < staleTime {
		v := e.value
		c.mu.RUnlock()
		c.hits.Add(1)
		return v, nil
	}
	c.mu.RUnlock()

	c.misses.Add(1)
	return c.load(ctx, key, id, epoch, fn)
}

// Refresh fuerza la carga de la clave aunque esté vigente.
func (c *Cache) Refresh(ctx context.Context, key Key, fn Loader) (any, error) {
	c.mu.RLock()
	epoch := c.epoch
	c.mu.RUnlock()
	return c.load(ctx, key, key.String(), epoch, fn)
}

func (c *Cache) load(ctx context.Context, key Key, id string, epoch uint64, fn Loader) (any, error) {
	flight := fmt.Sprintf("%s#%d", id, epoch)
	// La carga compartida no se cancela si el primer llamador se va.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = newEntry(key, v, c.now(), c.epoch != epoch)
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Invalidate marca como vencidas todas las entradas cuya clave empieza por alguno de los prefijos.
func (c *Cache) Invalidate(prefixes ...Key) int {
	return c.InvalidateWhere(func(k Key) bool {
		for _, p := range prefixes {
			if k.HasPrefix(p) {
				return true
			}
		}
		return false
	})
}

// InvalidateWhere marca como vencidas las entradas que cumplen pred. Devuelve cuántas.
// De paso descarta las entradas sin lecturas dentro del gcTime.
func (c *Cache) InvalidateWhere(pred func(Key) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	n := 0
	for _, e := range c.entries {
		if pred(e.key) {
			e.stale = true
			n++
		}
	}
	c.sweepLocked()
	return n
}

// Sweep descarta las entradas que nadie leyó dentro del gcTime. Devuelve cuántas.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

func (c *Cache) sweepLocked() int {
	if c.gcTime <= 0 {
		return 0
	}
	cutoff := c.now().Add(-c.gcTime).UnixNano()
	n := 0
	for id, e := range c.entries {
		if e.lastRead.Load() < cutoff {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// Entries copia de las entradas que cumplen pred.
func (c *Cache) Entries(pred func(Key) bool) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Entry
	for _, e := range c.entries {
		if pred == nil || pred(e.key) {
			out = append(out, Entry{Key: e.key.clone(), Value: e.value, FetchedAt: e.fetchedAt, Stale: e.stale})
		}
	}
	return out
}

// Set reemplaza el valor de una clave como si se acabara de cargar.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = newEntry(key, value, c.now(), false)
}

// Patch aplica fn al valor de cada entrada que cumple pred, conservando su antigüedad.
// fn debe devolver un valor nuevo en lugar de mutar el recibido.
func (c *Cache) Patch(pred func(Key) bool, fn func(Key, any) any) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if pred(e.key) {
			e.value = fn(e.key, e.value)
			n++
		}
	}
	return n
}

// Optimistic parchea como Patch y devuelve una función que restaura los valores previos
// de las entradas tocadas (para deshacer si la mutación remota falla).
func (c *Cache) Optimistic(pred func(Key) bool, fn func(Key, any) any) (rollback func()) {
	c.mu.Lock()
	snapshot := make(map[string]any)
	for id, e := range c.entries {
		if pred(e.key) {
			snapshot[id] = e.value
			e.value = fn(e.key, e.value)
		}
	}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for id, v := range snapshot {
				if e, ok := c.entries[id]; ok {
					e.value = v
				}
			}
		})
	}
}

// Stats contadores actuales.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}

// Get versión tipada de Fetch.
func Get[T any](ctx context.Context, c *Cache, key Key, staleTime time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, staleTime, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("querycache: tipo inesperado %T para %s", v, key)
	}
	return t, nil
}
