package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/Garsondee/Board-Sense/internal/match"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Store records games and relocations to SQLite. Writes are queued to a
// single writer goroutine so the host loop never blocks on disk. The first
// failed write marks the store degraded and later writes are dropped.
type Store struct {
	db           *sql.DB
	writeChan    chan writeOp
	healthStatus atomic.Bool
	log          zerolog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

var _ match.Recorder = (*Store)(nil)

// writeOp is either a transactional write or, when flushed is set, a barrier.
type writeOp struct {
	fn      func(*sql.Tx) error
	flushed chan struct{}
}

// Open opens (creating if needed) the database at path and starts the writer.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	// One connection keeps writer and readers on the same view of the file.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:        db,
		writeChan: make(chan writeOp, 256),
		log:       log.With().Str("component", "history").Logger(),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	if err := s.InitDB(); err != nil {
		cancel()
		db.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.writerLoop()
	return s, nil
}

// InitDB creates the schema if it does not exist.
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

func (s *Store) writerLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			// Drain what is already queued.
			for {
				select {
				case op := <-s.writeChan:
					s.apply(op)
				default:
					return
				}
			}
		case op := <-s.writeChan:
			s.apply(op)
		}
	}
}

func (s *Store) apply(op writeOp) {
	if op.flushed != nil {
		close(op.flushed)
		return
	}
	if !s.healthStatus.Load() {
		return
	}
	s.executeWrite(op.fn)
}

func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		s.degrade(err, "begin")
		return
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		s.degrade(err, "write")
		return
	}
	if err := tx.Commit(); err != nil {
		s.degrade(err, "commit")
	}
}

func (s *Store) degrade(err error, stage string) {
	s.log.Error().Err(err).Str("stage", stage).Msg("history store degraded")
	s.healthStatus.Store(false)
}

func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}
	select {
	case s.writeChan <- writeOp{fn: fn}:
	default:
		s.log.Warn().Str("record", what).Msg("history write queue full, dropping record")
	}
}

// GameStarted queues a games row.
func (s *Store) GameStarted(sess match.Session, cfg match.GameConfig, fen string, at time.Time) {
	rec := GameRecord{
		GameID:       sess.ID,
		Name:         sess.Name,
		Mode:         string(cfg.Mode),
		Rating:       cfg.Rating,
		InitialFEN:   fen,
		StartTimeUTC: at.UTC(),
	}
	s.enqueue("game", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (
			game_id, name, mode, rating, initial_fen, start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.GameID, rec.Name, rec.Mode, rec.Rating, rec.InitialFEN, rec.StartTimeUTC)
		return err
	})
}

// Relocated queues a moves row.
func (s *Store) Relocated(sess match.Session, r match.Relocation, fen string, at time.Time) {
	rec := MoveRecord{
		GameID:       sess.ID,
		MoveNumber:   r.Number,
		Side:         sideCode(r.Side),
		FromSquare:   r.From.String(),
		ToSquare:     r.To.String(),
		Occupant:     r.Moved.ID(),
		Automated:    r.Automated,
		FENAfterMove: fen,
		MoveTimeUTC:  at.UTC(),
	}
	if r.Replaced.Present() {
		rec.Replaced = r.Replaced.ID()
	}
	s.enqueue("move", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO moves (
			game_id, move_number, side, from_square, to_square,
			occupant, replaced, automated, fen_after_move, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.GameID, rec.MoveNumber, rec.Side, rec.FromSquare, rec.ToSquare,
			rec.Occupant, rec.Replaced, rec.Automated, rec.FENAfterMove, rec.MoveTimeUTC)
		return err
	})
}

func sideCode(s board.Side) string {
	if s == board.Black {
		return "b"
	}
	return "w"
}

// Flush blocks until every write queued before the call has been applied,
// or ctx is done.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case s.writeChan <- writeOp{flushed: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsHealthy reports whether writes are still being applied.
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// Close drains queued writes and closes the database.
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.log.Warn().Msg("history writer shutdown timeout, some writes may be lost")
	}
	return s.db.Close()
}

// QueryGames returns recorded games, newest first. limit <= 0 means all.
func (s *Store) QueryGames(ctx context.Context, limit int) ([]GameRecord, error) {
	query := `SELECT game_id, name, mode, rating, initial_fen, start_time_utc
	FROM games ORDER BY start_time_utc DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.Name, &g.Mode, &g.Rating, &g.InitialFEN, &g.StartTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return games, nil
}

// QueryMoves returns a game's moves in order.
func (s *Store) QueryMoves(ctx context.Context, gameID string) ([]MoveRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		move_id, game_id, move_number, side, from_square, to_square,
		occupant, replaced, automated, fen_after_move, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Side, &m.FromSquare, &m.ToSquare,
			&m.Occupant, &m.Replaced, &m.Automated, &m.FENAfterMove, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}
