package view

import "sync"

// lifecycle guards the state of a view against results arriving after the
// view was unmounted, and against duplicate submissions.
type lifecycle struct {
	mu      sync.Mutex
	epoch   int // incremented on every mount and unmount
	mounted bool
	busy    bool
}

// mount starts a new epoch and returns it. l.mu must not be held.
func (l *lifecycle) mount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
	l.mounted = true
	return l.epoch
}

func (l *lifecycle) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
	l.mounted = false
}

// alive reports whether epoch is still the current mount. l.mu must be held.
func (l *lifecycle) alive(epoch int) bool {
	return l.mounted && l.epoch == epoch
}

// begin marks the start of an action and runs prepare under the lock. It
// returns ErrBusy if an action is already in flight.
func (l *lifecycle) begin(prepare func()) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return 0, ErrBusy
	}
	l.busy = true
	if prepare != nil {
		prepare()
	}
	return l.epoch, nil
}

// end marks the end of an action and applies its result if the view is still
// mounted at epoch. It reports whether the result was applied.
func (l *lifecycle) end(epoch int, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = false
	if !l.alive(epoch) {
		return false
	}
	if apply != nil {
		apply()
	}
	return true
}

// update applies a fetch result if the view is still mounted at epoch.
func (l *lifecycle) update(epoch int, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive(epoch) {
		return false
	}
	apply()
	return true
}

// Submitting reports whether an action is in flight.
func (l *lifecycle) Submitting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// current returns the epoch of the current mount.
func (l *lifecycle) current() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.epoch
}
