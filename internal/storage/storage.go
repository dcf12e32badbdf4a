// Package storage is the key/value persistence adapter. Every collection is a
// JSON document stored under a namespaced key in the kv table.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// collection keys, before prefixing
const (
	KeyStories        = "stories"
	KeyUsers          = "users"
	KeyCurrentUser    = "current_user"
	KeyBookmarks      = "bookmarks"
	KeySubscribers    = "subscribers"
	KeyReaderSettings = "reader_settings"
	KeyComments       = "comments"
	KeyStoryProgress  = "story_progress"
)

// Keys lists every collection in save order.
var Keys = []string{
	KeyStories,
	KeyUsers,
	KeyCurrentUser,
	KeyBookmarks,
	KeySubscribers,
	KeyReaderSettings,
	KeyComments,
	KeyStoryProgress,
}

const saveWarning = "Storage error. Data may not be saved."

// Notifier receives user-visible warnings.
type Notifier interface {
	Notify(level, message string)
}

type NotifierFunc func(level, message string)

func (f NotifierFunc) Notify(level, message string) { f(level, message) }

type Adapter struct {
	db     *sql.DB
	prefix string
	log    *zap.Logger
	notify Notifier
}

func New(db *sql.DB, prefix string, logger *zap.Logger, notify Notifier) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{db: db, prefix: prefix, log: logger.Named("storage"), notify: notify}
}

// SetNotifier replaces the warning sink. Used once the event hub is up.
func (a *Adapter) SetNotifier(n Notifier) { a.notify = n }

func (a *Adapter) key(name string) string { return a.prefix + name }

// Raw returns the stored document for name, or ok=false when absent.
func (a *Adapter) Raw(name string) (value []byte, ok bool, err error) {
	var s string
	err = a.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, a.key(name)).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", a.key(name), err)
	}
	return []byte(s), true, nil
}

// Load returns the stored value of name, or def when it is absent or cannot
// be parsed. Failures are logged, never returned.
func Load[T any](a *Adapter, name string, def T) T {
	raw, ok, err := a.Raw(name)
	if err != nil {
		a.log.Error("load failed, using default", zap.String("key", a.key(name)), zap.Error(err))
		return def
	}
	if !ok || len(raw) == 0 {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		a.log.Error("stored value is malformed, using default", zap.String("key", a.key(name)), zap.Error(err))
		return def
	}
	return v
}

// Save serialises v under name. A failure is logged and reported through the
// notifier; the returned error is informational only.
func (a *Adapter) Save(name string, v any) error {
	err := a.put(name, v)
	if err != nil {
		a.log.Error("save failed", zap.String("key", a.key(name)), zap.Error(err))
		if a.notify != nil {
			a.notify.Notify("error", saveWarning)
		}
	}
	return err
}

func (a *Adapter) put(name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	_, err = a.db.Exec(`
	INSERT INTO kv(key, value) VALUES(?, ?)
	ON CONFLICT(key)
	DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP
	`, a.key(name), string(b))
	if err != nil {
		return fmt.Errorf("write %s: %w", a.key(name), err)
	}
	return nil
}

// SaveBatch saves each collection in Keys order. There is no atomicity: a
// failure part way leaves earlier collections written. It returns the number
// of collections that failed.
func (a *Adapter) SaveBatch(values map[string]any) int {
	failed := 0
	for _, k := range Keys {
		v, ok := values[k]
		if !ok {
			continue
		}
		if err := a.put(k, v); err != nil {
			a.log.Error("save failed", zap.String("key", a.key(k)), zap.Error(err))
			failed++
		}
	}
	if failed > 0 && a.notify != nil {
		a.notify.Notify("error", saveWarning)
	}
	return failed
}
