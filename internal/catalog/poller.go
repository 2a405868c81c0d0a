package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"rocket-assembler/internal/logging"
	"rocket-assembler/internal/metrics"
	"rocket-assembler/internal/part"
)

// Reconciler receives catalog revisions.
type Reconciler interface {
	ReconcileCatalog(entries []part.CatalogEntry) int
}

// Poller watches a catalog file and hands every changed revision to a
// Reconciler. A revision counts as changed when its serialized entries
// differ from the last delivered one, so touching the file without
// editing it is a no-op.
type Poller struct {
	path     string
	interval time.Duration
	target   Reconciler
	logger   *zap.Logger

	mu      sync.Mutex
	modTime time.Time
	last    []byte
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller creates a poller for the file at path.
func NewPoller(path string, interval time.Duration, target Reconciler, logger *zap.Logger) *Poller {
	return &Poller{
		path:     path,
		interval: interval,
		target:   target,
		logger:   logging.OrNop(logger).Named("catalog"),
	}
}

// Check loads the file once and delivers it if it changed. Returns whether
// a revision was delivered.
func (p *Poller) Check() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return false, err
	}
	if p.last != nil && info.ModTime().Equal(p.modTime) {
		return false, nil
	}

	lib, err := LoadFile(p.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return false, err
	}
	p.modTime = info.ModTime()

	serialized, err := json.Marshal(lib.Entries)
	if err != nil {
		return false, err
	}
	if p.last != nil && bytes.Equal(serialized, p.last) {
		metrics.CatalogReloads.WithLabelValues("unchanged").Inc()
		return false, nil
	}
	p.last = serialized

	n := p.target.ReconcileCatalog(lib.All())
	metrics.CatalogReloads.WithLabelValues("changed").Inc()
	p.logger.Info("catalog revision applied",
		zap.String("path", p.path),
		zap.Int("entries", len(lib.Entries)),
		zap.Int("refreshed", n))
	return true, nil
}

// Start runs an immediate check and then polls in the background until
// ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	if _, err := p.Check(); err != nil {
		p.logger.Warn("catalog load failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.watchLoop(ctx)
}

// Stop stops the background loop and waits for it to exit.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
}

func (p *Poller) watchLoop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Check(); err != nil {
				p.logger.Debug("catalog poll failed", zap.Error(err))
			}
		}
	}
}
