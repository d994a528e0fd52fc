package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/cubelock"
	"github.com/SeamusWaldron/cubelock/internal/recorder"
	"github.com/SeamusWaldron/cubelock/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// journalSession records labels as one closed session and returns its ID.
// unlockAfter is the number of moves after which an unlock is recorded, or
// -1 for none.
func journalSession(t *testing.T, db *storage.DB, labels []string, unlockAfter int) string {
	t.Helper()
	s := recorder.NewSession(db, nil, nil)
	id, err := s.Start(version)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	now := time.Now()
	for i, label := range labels {
		r, err := cubelock.ParseLabel(label)
		if err != nil {
			t.Fatalf("ParseLabel(%q) failed: %v", label, err)
		}
		m := cubelock.Move{Rotation: r, Time: now.Add(time.Duration(i) * 100 * time.Millisecond)}
		if err := s.RecordMove(m); err != nil {
			t.Fatalf("RecordMove() failed: %v", err)
		}
		if i+1 == unlockAfter {
			if err := s.MarkUnlocked(cubelock.DefaultSecretSequence); err != nil {
				t.Fatalf("MarkUnlocked() failed: %v", err)
			}
		}
	}
	if err := s.End(); err != nil {
		t.Fatalf("End() failed: %v", err)
	}
	return id
}

func secretWithPrefix(prefix ...string) []string {
	return append(prefix, cubelock.DefaultSecretSequence...)
}

func TestReplayMovesFindsUnlock(t *testing.T) {
	db := openTestDB(t)
	labels := secretWithPrefix(cubelock.LabelFront, cubelock.LabelBack)
	id := journalSession(t, db, labels, len(labels))

	records, err := storage.NewMoveRepository(db).GetBySession(id)
	if err != nil {
		t.Fatalf("GetBySession() failed: %v", err)
	}

	var out bytes.Buffer
	res, err := replayMoves(&out, records, testConfig(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("replayMoves() failed: %v", err)
	}

	if res.Moves != len(labels) {
		t.Errorf("Moves = %d, want %d", res.Moves, len(labels))
	}
	if len(res.Unlocks) != 1 || res.Unlocks[0] != len(labels)-1 {
		t.Errorf("Unlocks = %v, want [%d]", res.Unlocks, len(labels)-1)
	}
	if res.Rejected != 0 {
		t.Errorf("Rejected = %d, want 0", res.Rejected)
	}
	if res.Store.IsSolved() {
		t.Error("Replayed cube should be scrambled")
	}
	if got := strings.Count(out.String(), "** unlocked **"); got != 1 {
		t.Errorf("Output marks %d unlocks, want 1", got)
	}
	if !strings.Contains(out.String(), cubelock.LabelBack) {
		t.Error("Output is missing a move label")
	}
}

func TestReplayMovesMatchesDirectApply(t *testing.T) {
	db := openTestDB(t)
	labels := []string{cubelock.LabelRight, cubelock.LabelUp, cubelock.LabelFront, cubelock.LabelLeft}
	id := journalSession(t, db, labels, -1)

	records, err := storage.NewMoveRepository(db).GetBySession(id)
	if err != nil {
		t.Fatalf("GetBySession() failed: %v", err)
	}
	res, err := replayMoves(io.Discard, records, testConfig(), nil)
	if err != nil {
		t.Fatalf("replayMoves() failed: %v", err)
	}

	want := cubelock.NewStore()
	for _, label := range labels {
		r, _ := cubelock.ParseLabel(label)
		if err := want.CommitRotation(r); err != nil {
			t.Fatalf("CommitRotation() failed: %v", err)
		}
	}
	if res.Store.String() != want.String() {
		t.Errorf("Replay net:\n%s\nwant:\n%s", res.Store.String(), want.String())
	}
	if len(res.Unlocks) != 0 {
		t.Errorf("Unlocks = %v, want none", res.Unlocks)
	}
}

func TestReplayMovesRejectsCorruptRecord(t *testing.T) {
	records := []storage.MoveRecord{
		{MoveIndex: 0, Axis: int(cubelock.AxisX), Layer: 1, Direction: int(cubelock.Positive), Label: cubelock.LabelRight},
		{MoveIndex: 1, Axis: 7, Layer: 1, Direction: 1, Label: "bogus"},
	}
	res, err := replayMoves(io.Discard, records, testConfig(), nil)
	if err != nil {
		t.Fatalf("replayMoves() failed: %v", err)
	}
	if res.Moves != 1 || res.Rejected != 1 {
		t.Errorf("Moves=%d Rejected=%d, want 1 and 1", res.Moves, res.Rejected)
	}
}

func TestWriteHistory(t *testing.T) {
	db := openTestDB(t)

	var empty bytes.Buffer
	if err := writeHistory(&empty, db, 10); err != nil {
		t.Fatalf("writeHistory() failed: %v", err)
	}
	if !strings.Contains(empty.String(), "No sessions recorded yet") {
		t.Errorf("Empty history = %q", empty.String())
	}

	unlockedID := journalSession(t, db, cubelock.DefaultSecretSequence, len(cubelock.DefaultSecretSequence))
	plainID := journalSession(t, db, []string{cubelock.LabelFront}, -1)

	var out bytes.Buffer
	if err := writeHistory(&out, db, 10); err != nil {
		t.Fatalf("writeHistory() failed: %v", err)
	}
	text := out.String()
	for _, id := range []string{unlockedID, plainID} {
		if !strings.Contains(text, id) {
			t.Errorf("History is missing session %s", id)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, unlockedID) && !strings.Contains(line, "yes") {
			t.Errorf("Unlocked session line = %q, want yes", line)
		}
		if strings.HasPrefix(line, plainID) && !strings.Contains(line, "no") {
			t.Errorf("Plain session line = %q, want no", line)
		}
	}
	if strings.Contains(text, "(open)") {
		t.Error("Closed sessions should not be marked open")
	}
}

func TestWriteSessionText(t *testing.T) {
	db := openTestDB(t)
	labels := secretWithPrefix(cubelock.LabelFront)
	id := journalSession(t, db, labels, len(labels))

	s, err := storage.NewSessionRepository(db).Get(id)
	if err != nil || s == nil {
		t.Fatalf("Get() = %v, %v", s, err)
	}

	var out bytes.Buffer
	if err := writeSession(&out, db, s, "txt"); err != nil {
		t.Fatalf("writeSession() failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "ID:       "+id) {
		t.Error("Text output is missing the session ID")
	}
	if !strings.Contains(text, "Unlocked: true") {
		t.Error("Text output should report the unlock")
	}
	if got := strings.Count(text, "<- unlock"); got != 1 {
		t.Errorf("Text output marks %d unlock moves, want 1", got)
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "<- unlock") && !strings.Contains(line, cubelock.LabelDown) {
			t.Errorf("Unlock marked on %q, want the final Rotate Down", line)
		}
	}
}

func TestWriteSessionJSON(t *testing.T) {
	db := openTestDB(t)
	labels := cubelock.DefaultSecretSequence
	id := journalSession(t, db, labels, len(labels))

	s, err := storage.NewSessionRepository(db).Get(id)
	if err != nil || s == nil {
		t.Fatalf("Get() = %v, %v", s, err)
	}

	var out bytes.Buffer
	if err := writeSession(&out, db, s, "JSON"); err != nil {
		t.Fatalf("writeSession() failed: %v", err)
	}

	var got struct {
		SessionID string `json:"session_id"`
		Unlocked  bool   `json:"unlocked"`
		Moves     []struct {
			Label    string `json:"label"`
			Notation string `json:"notation"`
		} `json:"moves"`
		Events []struct {
			Type    string `json:"type"`
			Payload struct {
				MoveIndex int      `json:"move_index"`
				Sequence  []string `json:"sequence"`
			} `json:"payload"`
		} `json:"events"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, out.String())
	}

	if got.SessionID != id {
		t.Errorf("session_id = %q, want %q", got.SessionID, id)
	}
	if !got.Unlocked {
		t.Error("unlocked = false, want true")
	}
	if len(got.Moves) != len(labels) {
		t.Fatalf("moves = %d, want %d", len(got.Moves), len(labels))
	}
	for i, m := range got.Moves {
		if m.Label != labels[i] {
			t.Errorf("moves[%d].label = %q, want %q", i, m.Label, labels[i])
		}
		r, _ := cubelock.ParseLabel(labels[i])
		if m.Notation != r.Notation() {
			t.Errorf("moves[%d].notation = %q, want %q", i, m.Notation, r.Notation())
		}
	}
	if len(got.Events) != 1 || got.Events[0].Type != storage.EventUnlock {
		t.Fatalf("events = %+v, want one unlock", got.Events)
	}
	if got.Events[0].Payload.MoveIndex != len(labels)-1 {
		t.Errorf("unlock move_index = %d, want %d", got.Events[0].Payload.MoveIndex, len(labels)-1)
	}
}

func TestWriteSessionUnknownFormat(t *testing.T) {
	db := openTestDB(t)
	id := journalSession(t, db, nil, -1)
	s, _ := storage.NewSessionRepository(db).Get(id)

	if err := writeSession(io.Discard, db, s, "csv"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestSessionArg(t *testing.T) {
	db := openTestDB(t)

	if _, err := sessionArg(db, nil, true); err != errNoSessions {
		t.Errorf("sessionArg(--last) on empty journal = %v, want errNoSessions", err)
	}

	first := journalSession(t, db, []string{cubelock.LabelUp}, -1)
	time.Sleep(5 * time.Millisecond)
	second := journalSession(t, db, []string{cubelock.LabelDown}, -1)

	s, err := sessionArg(db, nil, true)
	if err != nil {
		t.Fatalf("sessionArg(--last) failed: %v", err)
	}
	if s.SessionID != second {
		t.Errorf("--last = %s, want %s", s.SessionID, second)
	}

	s, err = sessionArg(db, []string{first}, false)
	if err != nil {
		t.Fatalf("sessionArg(id) failed: %v", err)
	}
	if s.SessionID != first {
		t.Errorf("sessionArg(id) = %s, want %s", s.SessionID, first)
	}

	if _, err := sessionArg(db, []string{"missing"}, false); err == nil {
		t.Error("Expected an error for an unknown session")
	}
	if _, err := sessionArg(db, nil, false); err == nil {
		t.Error("Expected an error without an ID or --last")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{59 * time.Second, "59.00s"},
		{90 * time.Second, "1m30.0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
