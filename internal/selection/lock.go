package selection

import "sync"

// Locker guards a lockable component (the editor instance itself, or a
// sub-panel) against concurrent UI takeover: dialogs, drag operations,
// disabled mode. A component is locked by at most one holder at a time.
type Locker struct {
	mu       sync.Mutex
	holder   string
	fullSize bool
}

// Lock acquires the lock for the named holder. It fails if the
// component is already locked, or if the holder name is empty.
func (l *Locker) Lock(holder string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if holder == "" || l.holder != "" {
		return false
	}
	l.holder = holder
	return true
}

// Unlock releases the lock. It fails if the component is not locked.
func (l *Locker) Unlock() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holder == "" {
		return false
	}
	l.holder = ""
	return true
}

// IsLocked reports whether the component is locked.
func (l *Locker) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holder != ""
}

// Holder returns the current lock holder name, empty when unlocked.
func (l *Locker) Holder() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holder
}

// SetFullSize records the full-size presentation flag.
func (l *Locker) SetFullSize(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fullSize = v
}

// FullSize reports the full-size presentation flag.
func (l *Locker) FullSize() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fullSize
}
