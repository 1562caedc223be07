package remotesync

import (
	"sync"
	"time"
)

// DismissAfter is how long a transient notification stays visible before it
// dismisses itself.
const DismissAfter = 3 * time.Second

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is the user-visible outcome of a persistence attempt.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives persistence outcomes. Implementations decide how the
// notification is surfaced; the timed Tray below mirrors the alert banners
// the page renders.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(n Notification)

// Notify delegates to the underlying function.
func (fn NotifierFunc) Notify(n Notification) { fn(n) }

// Tray keeps currently visible notifications and dismisses each after a
// fixed delay. Notifications can also be dismissed early, matching the
// page's dismissible alert controls.
type Tray struct {
	mu      sync.Mutex
	active  map[int]Notification
	nextID  int
	dismiss time.Duration
	timers  map[int]*time.Timer
}

// NewTray builds a tray with the standard dismissal delay.
func NewTray() *Tray {
	return &Tray{
		active:  make(map[int]Notification),
		timers:  make(map[int]*time.Timer),
		dismiss: DismissAfter,
	}
}

// Notify shows n and schedules its self-dismissal.
func (t *Tray) Notify(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.active[id] = n
	t.timers[id] = time.AfterFunc(t.dismiss, func() {
		t.Dismiss(id)
	})
}

// Dismiss removes one notification ahead of its timer.
func (t *Tray) Dismiss(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
	delete(t.active, id)
}

// Active returns the currently visible notifications keyed by id.
func (t *Tray) Active() map[int]Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]Notification, len(t.active))
	for id, n := range t.active {
		out[id] = n
	}
	return out
}
