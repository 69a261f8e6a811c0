package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskflow/internal/model"

	"github.com/rs/zerolog"
)

// TaskList owns the in-memory task list and mirrors it to a Slot after every mutation.
//
// Slot failures never reach callers: reads fall back to an empty list and writes are logged
// and dropped, leaving memory as the source of truth. All methods are safe for concurrent use.
type TaskList struct {
	mu    sync.Mutex
	slot  Slot
	key   string
	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	tasks   []model.Task
	lastErr error
}

type Option func(*TaskList)

func WithLogger(l zerolog.Logger) Option {
	return func(tl *TaskList) { tl.log = l }
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(tl *TaskList) { tl.now = now }
}

// WithIDGenerator overrides the UUID generator (tests).
func WithIDGenerator(f func() string) Option {
	return func(tl *TaskList) { tl.newID = f }
}

// WithKey stores the list under a different slot key.
func WithKey(key string) Option {
	return func(tl *TaskList) { tl.key = key }
}

// OpenTaskList creates a TaskList over slot and loads the persisted snapshot.
func OpenTaskList(ctx context.Context, slot Slot, opts ...Option) *TaskList {
	tl := &TaskList{
		slot:  slot,
		key:   TasksKey,
		log:   zerolog.Nop(),
		now:   time.Now,
		newID: newTaskID,
	}
	for _, o := range opts {
		o(tl)
	}
	tl.Reload(ctx)
	return tl
}

// Reload replaces the in-memory list with the persisted snapshot.
// Missing or unusable data yields an empty list.
func (l *TaskList) Reload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tasks, repaired := l.loadLocked(ctx)
	l.tasks = tasks
	if repaired {
		// Fresh ids must survive the next load, so the sanitized list replaces the stored one.
		l.persistLocked(ctx)
	}
}

func (l *TaskList) loadLocked(ctx context.Context) ([]model.Task, bool) {
	if l.slot == nil {
		return []model.Task{}, false
	}
	raw, ok, err := l.slot.Get(ctx, l.key)
	if err != nil {
		l.log.Warn().Err(err).Str("key", l.key).Msg("read task slot")
		return []model.Task{}, false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.Task{}, false
	}
	res, err := decodeTasks(raw, l.now(), l.newID)
	if err != nil {
		l.log.Warn().Err(err).Str("key", l.key).Msg("discarding unreadable task snapshot")
		return []model.Task{}, false
	}
	if res.changed() {
		l.log.Info().
			Int("dropped", res.Dropped).
			Int("rewrittenIds", res.Rewritten).
			Int("stamped", res.Stamped).
			Int("kept", len(res.Tasks)).
			Msg("sanitized task snapshot")
	}
	return res.Tasks, res.changed()
}

// Tasks returns a copy of the list in display order (newest first).
func (l *TaskList) Tasks() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *TaskList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *TaskList) Get(id string) (model.Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.tasks[i], true
	}
	return model.Task{}, false
}

// Resolve finds a task by full id or by a prefix that matches exactly one id.
func (l *TaskList) Resolve(ref string) (model.Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(ref); i >= 0 {
		return l.tasks[i], true
	}
	match := -1
	for i, t := range l.tasks {
		if strings.HasPrefix(t.ID, ref) {
			if match >= 0 {
				return model.Task{}, false
			}
			match = i
		}
	}
	if match < 0 {
		return model.Task{}, false
	}
	return l.tasks[match], true
}

// Add prepends a task with the trimmed text. Blank text is ignored and reported as false.
func (l *TaskList) Add(ctx context.Context, text string) (model.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.newID()
	for l.indexLocked(id) >= 0 {
		id = l.newID()
	}
	t := model.Task{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: l.now().UnixMilli(),
	}
	l.tasks = append([]model.Task{t}, l.tasks...)
	l.persistLocked(ctx)
	return t, true
}

// Toggle flips the completed flag of id. Unknown ids are ignored.
func (l *TaskList) Toggle(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	l.persistLocked(ctx)
	return true
}

// Remove deletes id. Unknown ids are ignored.
func (l *TaskList) Remove(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false
	}
	l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
	l.persistLocked(ctx)
	return true
}

// ClearCompleted removes every completed task and returns how many were removed.
func (l *TaskList) ClearCompleted(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := make([]model.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(l.tasks) - len(kept)
	l.tasks = kept
	// Persist even when nothing was removed; the original page rewrote the slot on every
	// state update.
	l.persistLocked(ctx)
	return removed
}

// LastPersistError reports the most recent slot write failure, or nil after a successful write.
func (l *TaskList) LastPersistError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *TaskList) indexLocked(id string) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *TaskList) persistLocked(ctx context.Context) {
	if l.slot == nil {
		return
	}
	raw, err := encodeTasks(l.tasks)
	if err == nil {
		err = l.slot.Set(ctx, l.key, raw)
	}
	l.lastErr = err
	if err != nil {
		l.log.Warn().Err(err).Str("key", l.key).Int("tasks", len(l.tasks)).Msg("persist task list")
		return
	}
	l.log.Debug().Str("key", l.key).Int("tasks", len(l.tasks)).Msg("persisted task list")
}
