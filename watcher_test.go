package cubelock

import (
	"testing"
)

func TestSecretUnlocksAfterFifthMove(t *testing.T) {
	e := NewEngine(NewStore())
	unlocks := 0
	w := NewWatcher(DefaultSecretSequence, func() { unlocks++ })
	e.OnMove(func(m Move) { w.Observe(m) })
	r := NewResolver(e, nil)

	for i, key := range []string{"r", "r", "u", "l", "d"} {
		if unlocks != 0 {
			t.Fatalf("Unlocked early before move %d", i+1)
		}
		if _, ok := r.KeyPress(key); !ok {
			t.Fatalf("Key %q not bound", key)
		}
		e.Finish()
	}

	if unlocks != 1 {
		t.Errorf("Expected exactly 1 unlock, got %d", unlocks)
	}
	if w.Unlocks() != 1 {
		t.Errorf("Unlocks() = %d, want 1", w.Unlocks())
	}
}

func TestSecretMatchesAfterNoise(t *testing.T) {
	unlocked := false
	w := NewWatcher(DefaultSecretSequence, func() { unlocked = true })

	for _, l := range []string{LabelFront, LabelBack, LabelRight, LabelUp} {
		w.ObserveLabel(l)
	}
	for _, l := range DefaultSecretSequence {
		w.ObserveLabel(l)
	}
	if !unlocked {
		t.Error("Secret typed after other moves should still unlock")
	}
}

func TestWrongOrderNeverUnlocks(t *testing.T) {
	w := NewWatcher(DefaultSecretSequence, func() {
		t.Error("Unexpected unlock")
	})
	for _, l := range []string{LabelRight, LabelUp, LabelRight, LabelLeft, LabelDown, LabelRight, LabelRight, LabelUp, LabelDown, LabelLeft} {
		if w.ObserveLabel(l) {
			t.Errorf("Observe(%q) reported a match", l)
		}
	}
}

func TestBufferBoundedToSecretLength(t *testing.T) {
	w := NewWatcher(DefaultSecretSequence, nil)
	for i := 0; i < 100; i++ {
		w.ObserveLabel(Labels[i%len(Labels)])
		if got := len(w.Buffer()); got > len(DefaultSecretSequence) {
			t.Fatalf("Buffer grew to %d", got)
		}
	}

	want := []string{LabelBack, LabelRight, LabelLeft, LabelUp, LabelDown}
	got := w.Buffer()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Buffer = %v, want %v", got, want)
			break
		}
	}
}

func TestRepeatedSecretUnlocksEachTime(t *testing.T) {
	w := NewWatcher(DefaultSecretSequence, nil)
	for round := 0; round < 3; round++ {
		for _, l := range DefaultSecretSequence {
			w.ObserveLabel(l)
		}
	}
	if w.Unlocks() != 3 {
		t.Errorf("Unlocks() = %d, want 3", w.Unlocks())
	}
}

func TestEmptySecretNeverMatches(t *testing.T) {
	w := NewWatcher(nil, func() { t.Error("Unexpected unlock") })
	if w.ObserveLabel(LabelRight) {
		t.Error("Empty secret should never match")
	}
	if len(w.Buffer()) != 0 {
		t.Error("Empty secret should not buffer")
	}
}

func TestWatcherCopiesSecret(t *testing.T) {
	secret := []string{LabelUp, LabelUp}
	w := NewWatcher(secret, nil)
	secret[0] = LabelDown

	w.ObserveLabel(LabelUp)
	if !w.ObserveLabel(LabelUp) {
		t.Error("Watcher should keep its own copy of the secret")
	}
}

func TestWatcherReset(t *testing.T) {
	w := NewWatcher(DefaultSecretSequence, nil)
	for _, l := range DefaultSecretSequence {
		w.ObserveLabel(l)
	}
	w.Reset()
	if w.Unlocks() != 0 || len(w.Buffer()) != 0 {
		t.Error("Reset should clear buffer and unlock count")
	}
}
