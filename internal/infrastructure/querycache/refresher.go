package querycache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

type job struct {
	key Key
	fn  Loader
}

// Refresher recarga periódicamente claves registradas (analítica del dashboard).
type Refresher struct {
	cache    *Cache
	interval time.Duration
	log      *logger.Logger

	mu   sync.Mutex
	jobs []job
}

// NewRefresher crea el refresco periódico sobre el cache.
func NewRefresher(c *Cache, interval time.Duration, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	return &Refresher{cache: c, interval: interval, log: log.Component("querycache")}
}

// Register agrega una clave a recargar en cada tick.
func (r *Refresher) Register(key Key, fn Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job{key: key.clone(), fn: fn})
}

// Run bloquea hasta que ctx se cancela, recargando todas las claves en cada intervalo.
func (r *Refresher) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.RefreshAll(ctx)
		}
	}
}

// RefreshAll recarga en paralelo las claves registradas y luego descarta las entradas sin
// lecturas recientes. Los errores se registran y no detienen al resto: la entrada anterior
// sigue sirviéndose hasta que venza.
func (r *Refresher) RefreshAll(ctx context.Context) {
	r.mu.Lock()
	jobs := make([]job, len(r.jobs))
	copy(jobs, r.jobs)
	r.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(4)
	for _, j := range jobs {
		g.Go(func() error {
			if _, err := r.cache.Refresh(ctx, j.key, j.fn); err != nil {
				r.log.Warn().Err(err).Str("key", j.key.String()).Msg("refresco de cache fallido")
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := r.cache.Sweep(); n > 0 {
		r.log.Debug().Int("entries", n).Msg("entradas de cache descartadas")
	}
}
