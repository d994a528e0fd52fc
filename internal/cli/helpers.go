package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubelock/internal/storage"
)

var errNoSessions = errors.New("no sessions recorded yet")

// openDB opens the journal at path, or the default location when empty.
func openDB(path string) (*storage.DB, error) {
	var db *storage.DB
	var err error

	if path == "" {
		db, err = storage.OpenDefault()
	} else {
		db, err = storage.Open(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return db, nil
}

// sessionArg picks the session named on the command line, or the most
// recent one when last is set.
func sessionArg(db *storage.DB, args []string, last bool) (*storage.Session, error) {
	repo := storage.NewSessionRepository(db)

	if last {
		s, err := repo.GetLast()
		if err != nil {
			return nil, fmt.Errorf("failed to get latest session: %w", err)
		}
		if s == nil {
			return nil, errNoSessions
		}
		return s, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("please provide a session ID or use --last")
	}

	s, err := repo.Get(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("session not found: %s", args[0])
	}
	return s, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
