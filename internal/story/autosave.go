package story

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storyhub/internal/state"
)

const DefaultAutoSaveInterval = 30 * time.Second

// AutoSaver re-persists the state on a fixed interval while a story is open
// in the editor, independent of explicit saves.
type AutoSaver struct {
	store    *state.Store
	interval time.Duration
	log      *zap.Logger
}

func NewAutoSaver(store *state.Store, interval time.Duration, logger *zap.Logger) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoSaver{store: store, interval: interval, log: logger.Named("autosave")}
}

// Run blocks until ctx is done.
func (a *AutoSaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Tick saves once if the editor is open. It reports whether it saved.
func (a *AutoSaver) Tick() bool {
	var id int64
	open := false
	a.store.View(func(st *state.State) {
		if st.Editing != nil && st.Editing.Open {
			if s, _ := st.FindStory(st.Editing.StoryID); s != nil {
				open = true
				id = s.ID
			}
		}
	})
	if !open {
		return false
	}
	a.store.SaveAll()
	a.log.Debug("auto-saved", zap.Int64("story_id", id), zap.String("at", time.Now().Format(time.TimeOnly)))
	return true
}
