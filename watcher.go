package cubelock

// Watcher keeps the trailing window of completed move labels and fires a
// callback when the window equals the secret sequence.
type Watcher struct {
	secret   []string
	buffer   []string
	unlocks  int
	onUnlock func()
}

// NewWatcher creates a watcher for secret. An empty secret never matches.
func NewWatcher(secret []string, onUnlock func()) *Watcher {
	s := make([]string, len(secret))
	copy(s, secret)
	return &Watcher{
		secret:   s,
		buffer:   make([]string, 0, len(s)),
		onUnlock: onUnlock,
	}
}

// SetUnlockCallback sets the callback that fires on a match.
func (w *Watcher) SetUnlockCallback(cb func()) {
	w.onUnlock = cb
}

// Observe appends a completed move, trims the window to the secret length
// and reports whether the window now matches.
func (w *Watcher) Observe(m Move) bool {
	return w.ObserveLabel(m.Label())
}

// ObserveLabel is Observe for a bare label.
func (w *Watcher) ObserveLabel(label string) bool {
	n := len(w.secret)
	if n == 0 {
		return false
	}

	w.buffer = append(w.buffer, label)
	if len(w.buffer) > n {
		// Keep only the most recent n labels
		w.buffer = append(w.buffer[:0], w.buffer[len(w.buffer)-n:]...)
	}

	if !w.matches() {
		return false
	}

	w.unlocks++
	if w.onUnlock != nil {
		w.onUnlock()
	}
	return true
}

func (w *Watcher) matches() bool {
	if len(w.buffer) != len(w.secret) {
		return false
	}
	for i := range w.secret {
		if w.buffer[i] != w.secret[i] {
			return false
		}
	}
	return true
}

// Buffer returns a copy of the trailing window, oldest first.
func (w *Watcher) Buffer() []string {
	out := make([]string, len(w.buffer))
	copy(out, w.buffer)
	return out
}

// Secret returns a copy of the secret sequence.
func (w *Watcher) Secret() []string {
	out := make([]string, len(w.secret))
	copy(out, w.secret)
	return out
}

// Unlocks returns how many times the secret has matched.
func (w *Watcher) Unlocks() int {
	return w.unlocks
}

// Reset clears the window and the unlock count.
func (w *Watcher) Reset() {
	w.buffer = w.buffer[:0]
	w.unlocks = 0
}
