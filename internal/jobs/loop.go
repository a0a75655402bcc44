package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// loop runs fn immediately and then every interval until stopped.
type loop struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	fn       func(ctx context.Context) error

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func (l *loop) start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.stopCh = make(chan struct{})

	l.wg.Add(1)
	go l.run(l.stopCh)
	l.logger.Info("job started", "job", l.name, "interval", l.interval)
}

// stop signals the loop and waits for an in-flight run to finish.
func (l *loop) stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	close(l.stopCh)
	l.mu.Unlock()

	l.wg.Wait()
	l.logger.Info("job stopped", "job", l.name)
}

func (l *loop) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *loop) run(stopCh <-chan struct{}) {
	defer l.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	l.tick(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.tick(ctx)
		case <-stopCh:
			return
		}
	}
}

func (l *loop) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.fn(ctx); err != nil {
		l.logger.ErrorContext(ctx, "job run failed", "job", l.name, "err", err)
	}
}
