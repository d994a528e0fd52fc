package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubelock"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesFileAndMigrates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "journal.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	version, err := db.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() failed: %v", err)
	}
	if version != LatestVersion() {
		t.Errorf("Schema version = %d, want %d", version, LatestVersion())
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := NewSessionRepository(db).Create("test")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Second Open() failed: %v", err)
	}
	defer db.Close()

	s, err := NewSessionRepository(db).Get(id)
	if err != nil || s == nil {
		t.Fatalf("Session lost after reopen: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	id, err := repo.Create("v1")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	s, err := repo.Get(id)
	if err != nil || s == nil {
		t.Fatalf("Get() = %v, %v", s, err)
	}
	if s.EndedAt != nil || s.Unlocked {
		t.Error("New session should be open and locked")
	}
	if s.AppVersion == nil || *s.AppVersion != "v1" {
		t.Errorf("AppVersion = %v", s.AppVersion)
	}

	if err := repo.MarkUnlocked(id); err != nil {
		t.Fatalf("MarkUnlocked() failed: %v", err)
	}
	if err := repo.End(id); err != nil {
		t.Fatalf("End() failed: %v", err)
	}

	s, _ = repo.Get(id)
	if s.EndedAt == nil || s.DurationMs == nil {
		t.Error("Ended session should have end time and duration")
	}
	if !s.Unlocked {
		t.Error("Session should be marked unlocked")
	}
}

func TestGetMissingSession(t *testing.T) {
	db := openTestDB(t)
	s, err := NewSessionRepository(db).Get("nope")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if s != nil {
		t.Error("Missing session should return nil")
	}

	last, err := NewSessionRepository(db).GetLast()
	if err != nil || last != nil {
		t.Errorf("GetLast() on empty journal = %v, %v", last, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := repo.Create("")
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		ids = append(ids, id)
	}

	sessions, err := repo.List(10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != ids[2] {
		t.Errorf("First listed = %s, want newest %s", sessions[0].SessionID, ids[2])
	}

	last, _ := repo.GetLast()
	if last == nil || last.SessionID != ids[2] {
		t.Error("GetLast() should return the newest session")
	}

	limited, _ := repo.List(2)
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d", len(limited))
	}
}

func TestMovesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sessionID, _ := NewSessionRepository(db).Create("")
	moves := NewMoveRepository(db)

	start := time.Now()
	played := []cubelock.Move{
		{Rotation: cubelock.RotateRight, Time: start.Add(100 * time.Millisecond)},
		{Rotation: cubelock.Rotation{Axis: cubelock.AxisY, Index: 0, Direction: cubelock.Negative}, Time: start.Add(900 * time.Millisecond)},
	}
	for i, m := range played {
		if _, err := moves.Create(sessionID, i, m.Time.Sub(start).Milliseconds(), m); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	records, err := moves.GetBySession(sessionID)
	if err != nil {
		t.Fatalf("GetBySession() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1].Label != cubelock.LabelDown || records[1].Layer != 0 {
		t.Errorf("Record 1 = %+v", records[1])
	}

	restored := ToMoves(records, start)
	for i := range played {
		if restored[i].Rotation != played[i].Rotation {
			t.Errorf("Move %d = %s, want %s", i, restored[i].Rotation, played[i].Rotation)
		}
	}

	next, _ := moves.GetNextIndex(sessionID)
	if next != 2 {
		t.Errorf("GetNextIndex() = %d, want 2", next)
	}
}

func TestCreateBatch(t *testing.T) {
	db := openTestDB(t)
	sessionID, _ := NewSessionRepository(db).Create("")
	moves := NewMoveRepository(db)

	start := time.Now()
	batch := []cubelock.Move{
		{Rotation: cubelock.RotateUp, Time: start},
		{Rotation: cubelock.RotateLeft, Time: start.Add(time.Second)},
		{Rotation: cubelock.RotateDown, Time: start.Add(2 * time.Second)},
	}
	if err := moves.CreateBatch(sessionID, batch, 0, start); err != nil {
		t.Fatalf("CreateBatch() failed: %v", err)
	}

	count, _ := moves.Count(sessionID)
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	// A duplicate index rolls back the whole batch.
	if err := moves.CreateBatch(sessionID, batch[:2], 2, start); err == nil {
		t.Error("Expected duplicate move index to fail")
	}
	count, _ = moves.Count(sessionID)
	if count != 3 {
		t.Errorf("Count() after failed batch = %d, want 3", count)
	}
}

func TestDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	sessionID, _ := sessions.Create("")

	NewMoveRepository(db).Create(sessionID, 0, 10, cubelock.Move{Rotation: cubelock.RotateFront})
	NewEventRepository(db).Create(sessionID, 20, EventUnlock, `{}`)

	if err := sessions.Delete(sessionID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if n, _ := NewMoveRepository(db).Count(sessionID); n != 0 {
		t.Errorf("Moves left after delete: %d", n)
	}
	if n, _ := NewEventRepository(db).Count(sessionID); n != 0 {
		t.Errorf("Events left after delete: %d", n)
	}
}

func TestEventsByType(t *testing.T) {
	db := openTestDB(t)
	sessionID, _ := NewSessionRepository(db).Create("")
	events := NewEventRepository(db)

	events.Create(sessionID, 500, EventUnlock, `{"moves":5}`)
	events.Create(sessionID, 100, "note", `{}`)

	all, err := events.GetBySession(sessionID)
	if err != nil {
		t.Fatalf("GetBySession() failed: %v", err)
	}
	if len(all) != 2 || all[0].TsMs != 100 {
		t.Errorf("Events not ordered by time: %+v", all)
	}

	unlocks, _ := events.GetByType(sessionID, EventUnlock)
	if len(unlocks) != 1 || unlocks[0].PayloadJSON != `{"moves":5}` {
		t.Errorf("GetByType() = %+v", unlocks)
	}
}
