package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubelock"
)

// MoveRecord represents a completed turn in the journal.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Axis      int
	Layer     int
	Direction int
	Label     string
}

// Rotation returns the layer turn the record describes.
func (m MoveRecord) Rotation() cubelock.Rotation {
	return cubelock.Rotation{
		Axis:      cubelock.Axis(m.Axis),
		Index:     m.Layer,
		Direction: cubelock.Direction(m.Direction),
	}
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, axis, layer, direction, label)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Create stores a move and returns its ID. tsMs is relative to session start.
func (r *MoveRepository) Create(sessionID string, moveIndex int, tsMs int64, move cubelock.Move) (int64, error) {
	result, err := r.db.Exec(insertMove,
		sessionID, moveIndex, tsMs, int(move.Axis), move.Index, int(move.Direction), move.Label())

	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch stores multiple moves in a single transaction. Timestamps
// are taken from each move relative to start.
func (r *MoveRepository) CreateBatch(sessionID string, moves []cubelock.Move, startIndex int, start time.Time) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			tsMs := move.Time.Sub(start).Milliseconds()
			_, err := tx.Exec(insertMove,
				sessionID, startIndex+i, tsMs, int(move.Axis), move.Index, int(move.Direction), move.Label())
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, axis, layer, direction, label
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs, &m.Axis, &m.Layer, &m.Direction, &m.Label)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// GetNextIndex returns the next move index for a session.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoves converts records to moves, timed relative to start.
func ToMoves(records []MoveRecord, start time.Time) []cubelock.Move {
	moves := make([]cubelock.Move, len(records))
	for i, r := range records {
		moves[i] = cubelock.Move{
			Rotation: r.Rotation(),
			Time:     start.Add(time.Duration(r.TsMs) * time.Millisecond),
		}
	}
	return moves
}
