package history

import "time"

// GameRecord represents a row in the games table.
type GameRecord struct {
	GameID       string    `db:"game_id"`
	Name         string    `db:"name"`
	Mode         string    `db:"mode"`
	Rating       int       `db:"rating"`
	InitialFEN   string    `db:"initial_fen"`
	StartTimeUTC time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table.
type MoveRecord struct {
	MoveID       int64     `db:"move_id"`
	GameID       string    `db:"game_id"`
	MoveNumber   int       `db:"move_number"`
	Side         string    `db:"side"` // "w" or "b"
	FromSquare   string    `db:"from_square"`
	ToSquare     string    `db:"to_square"`
	Occupant     string    `db:"occupant"`
	Replaced     string    `db:"replaced"` // empty unless the destination was occupied
	Automated    bool      `db:"automated"`
	FENAfterMove string    `db:"fen_after_move"`
	MoveTimeUTC  time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure.
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	mode TEXT NOT NULL CHECK(mode IN ('pvp', 'cpu')),
	rating INTEGER NOT NULL,
	initial_fen TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	side TEXT NOT NULL CHECK(side IN ('w', 'b')),
	from_square TEXT NOT NULL,
	to_square TEXT NOT NULL,
	occupant TEXT NOT NULL,
	replaced TEXT NOT NULL DEFAULT '',
	automated INTEGER NOT NULL DEFAULT 0,
	fen_after_move TEXT NOT NULL,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_start ON games(start_time_utc);
`
