// marketbot/bot/watcher.go
package bot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"marketbot/marketbot/sources/psql/dao"
	"marketbot/marketbot/utils/logging"
)

// Watcher is the auto-responder: while enabled it periodically claims the
// oldest unread chat and runs it through the pipeline. A tick that finds a
// run already in progress simply skips; the next tick tries again.
type Watcher struct {
	engine   *Engine
	settings SettingsStore
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

const DefaultWatchInterval = 30 * time.Second

func NewWatcher(engine *Engine, settings SettingsStore) *Watcher {
	return &Watcher{
		engine:   engine,
		settings: settings,
		interval: DefaultWatchInterval,
	}
}

func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Start launches the polling loop. Idempotent.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stop = make(chan struct{})
	stop := w.stop
	w.mu.Unlock()

	logging.AppLogger.Info("auto-responder watcher started")
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.Stop()
				return
			case <-stop:
				return
			case <-ticker.C:
				w.tick(ctx)
			}
		}
	}()
}

// Stop halts the polling loop. Idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stop)
	logging.AppLogger.Info("auto-responder watcher stopped")
}

func (w *Watcher) tick(ctx context.Context) {
	if w.settings != nil {
		if w.settings.GetString(ctx, dao.KeyAutoResponder, "false") != "true" {
			return
		}
	}
	processed, title, err := w.engine.ProcessOldestUnread(ctx)
	if err != nil {
		if err != ErrRunInProgress {
			logging.ErrorLogger.Error("auto-responder tick failed", zap.Error(err))
		}
		return
	}
	if processed {
		logging.BotLogger.Info("auto-responder processed unread chat", zap.String("chat", title))
	}
}
