// internal/store/sql.go
//
// SQL implementation of the Store interface.
// Responsibilities:
//   - Opening SQLite (safe defaults: WAL, busy timeout, foreign keys,
//     immediate write transactions) or PostgreSQL through pgx.
//   - Applying the embedded goose migrations.
//   - Session/stats writes inside one transaction with an optimistic check on
//     the stored attempt count, so two racing guesses cannot both become
//     attempt N.
//
// Queries are written with `?` placeholders and rebound to `$n` for PostgreSQL.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
	"github.com/santiago-ondris/wheels-house-sub002/internal/stats"
)

// Driver selects the SQL backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// tsLayout is fixed width so text timestamps order correctly.
const tsLayout = "2006-01-02T15:04:05.000000Z"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLStore is a Store over database/sql.
type SQLStore struct {
	db     *sql.DB
	driver Driver
	now    func() time.Time
}

// NewSQLStore wraps an already opened and migrated database.
func NewSQLStore(db *sql.DB, driver Driver) *SQLStore {
	return &SQLStore{db: db, driver: driver, now: time.Now}
}

// Open connects to dsn with the given driver and applies migrations.
func Open(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = openSQLite(dsn)
	case DriverPostgres:
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := Migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, driver), nil
}

// openSQLite opens (and creates if missing) a SQLite database file.
//
// - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
// - Configures busy timeout and WAL journaling mode.
// - Enforces foreign keys.
// - BEGIN IMMEDIATE so concurrent writers queue instead of failing on upgrade.
func openSQLite(dsn string) (*sql.DB, error) {
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate")
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, driver Driver) error {
	dialect := "sqlite3"
	if driver == DriverPostgres {
		dialect = "postgres"
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	log.Info().Str("component", "migrate").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	log.Fatal().Str("component", "migrate").Msgf(format, v...)
}

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Close() error { return s.db.Close() }

// q rebinds `?` placeholders for the active driver.
func (s *SQLStore) q(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// withTx runs fn in a transaction, rolling back on error.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db error: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db error: commit: %w", err)
	}
	return nil
}

func (s *SQLStore) timestamp() string { return s.now().UTC().Format(tsLayout) }

func parseTS(v string) time.Time {
	t, _ := time.Parse(tsLayout, v)
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

/* -------------------------------- users --------------------------------- */

func (s *SQLStore) CreateUser(ctx context.Context, u *User) error {
	var exists int
	err := s.db.QueryRowContext(ctx, s.q(`SELECT 1 FROM users WHERE lower(username)=lower(?)`), u.Username).Scan(&exists)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("db error: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		s.q(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`),
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.UTC().Format(tsLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// isUniqueViolation recognizes unique-constraint errors from both drivers.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (s *SQLStore) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`), username)
	return scanUser(row)
}

func (s *SQLStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, username, password_hash, created_at FROM users WHERE id=?`), id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.CreatedAt = parseTS(created)
	return &u, nil
}

/* ------------------------------- sessions ------------------------------- */

func (s *SQLStore) GetSession(ctx context.Context, userID string, gameNumber int) (*game.Session, error) {
	var (
		sess                game.Session
		attempts, feedbacks string
		gameOver, won       int
	)
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT game_number, game_date, word_length, attempts, feedbacks, game_over, won, correct_word
		FROM wheelword_games WHERE user_id=? AND game_number=?`), userID, gameNumber,
	).Scan(&sess.GameNumber, &sess.GameDate, &sess.WordLength, &attempts, &feedbacks, &gameOver, &won, &sess.CorrectWord)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal([]byte(attempts), &sess.Attempts); err != nil {
		return nil, fmt.Errorf("decode attempts: %w", err)
	}
	if err := json.Unmarshal([]byte(feedbacks), &sess.Feedbacks); err != nil {
		return nil, fmt.Errorf("decode feedbacks: %w", err)
	}
	sess.GameOver, sess.Won = gameOver == 1, won == 1
	return &sess, nil
}

func (s *SQLStore) SaveAttempt(ctx context.Context, userID string, sess *game.Session, st *stats.Stats) error {
	attempts, err := json.Marshal(sess.Attempts)
	if err != nil {
		return fmt.Errorf("encode attempts: %w", err)
	}
	feedbacks, err := json.Marshal(sess.Feedbacks)
	if err != nil {
		return fmt.Errorf("encode feedbacks: %w", err)
	}
	n := len(sess.Attempts)
	now := s.timestamp()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var res sql.Result
		var err error
		if n == 1 {
			res, err = tx.ExecContext(ctx, s.q(`
				INSERT INTO wheelword_games
					(user_id, game_number, game_date, word_length, attempts, feedbacks, attempts_used,
					 game_over, won, correct_word, created_at, updated_at)
				VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
				ON CONFLICT (user_id, game_number) DO NOTHING`),
				userID, sess.GameNumber, sess.GameDate, sess.WordLength, string(attempts), string(feedbacks), n,
				boolToInt(sess.GameOver), boolToInt(sess.Won), sess.CorrectWord, now, now)
		} else {
			res, err = tx.ExecContext(ctx, s.q(`
				UPDATE wheelword_games
				SET attempts=?, feedbacks=?, attempts_used=?, game_over=?, won=?, correct_word=?, updated_at=?
				WHERE user_id=? AND game_number=? AND attempts_used=? AND game_over=0`),
				string(attempts), string(feedbacks), n, boolToInt(sess.GameOver), boolToInt(sess.Won),
				sess.CorrectWord, now, userID, sess.GameNumber, n-1)
		}
		if err != nil {
			return fmt.Errorf("db error: save session: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if affected == 0 {
			return ErrConflict
		}
		if st != nil {
			return s.upsertStats(ctx, tx, userID, st, now)
		}
		return nil
	})
}

/* -------------------------------- stats --------------------------------- */

func (s *SQLStore) GetStats(ctx context.Context, userID string) (*stats.Stats, error) {
	var st stats.Stats
	var dist string
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT games_played, games_won, current_streak, max_streak, win_distribution, last_game_number
		FROM wheelword_stats WHERE user_id=?`), userID,
	).Scan(&st.GamesPlayed, &st.GamesWon, &st.CurrentStreak, &st.MaxStreak, &dist, &st.LastGameNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &stats.Stats{}, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal([]byte(dist), &st.WinDistribution); err != nil {
		return nil, fmt.Errorf("decode win distribution: %w", err)
	}
	return &st, nil
}

func (s *SQLStore) upsertStats(ctx context.Context, tx *sql.Tx, userID string, st *stats.Stats, now string) error {
	dist, err := json.Marshal(st.WinDistribution)
	if err != nil {
		return fmt.Errorf("encode win distribution: %w", err)
	}
	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO wheelword_stats
			(user_id, games_played, games_won, current_streak, max_streak, win_distribution, last_game_number, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT (user_id) DO UPDATE SET
			games_played=excluded.games_played,
			games_won=excluded.games_won,
			current_streak=excluded.current_streak,
			max_streak=excluded.max_streak,
			win_distribution=excluded.win_distribution,
			last_game_number=excluded.last_game_number,
			updated_at=excluded.updated_at`),
		userID, st.GamesPlayed, st.GamesWon, st.CurrentStreak, st.MaxStreak, string(dist), st.LastGameNumber, now)
	if err != nil {
		return fmt.Errorf("db error: save stats: %w", err)
	}
	return nil
}

/* ----------------------------- daily words ------------------------------ */

func (s *SQLStore) RecordDailyWord(ctx context.Context, gameNumber int, date, word string) (string, error) {
	if _, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO wheelword_daily_words (game_number, game_date, word, created_at)
		VALUES (?,?,?,?)
		ON CONFLICT (game_number) DO NOTHING`), gameNumber, date, word, s.timestamp()); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	var stored string
	if err := s.db.QueryRowContext(ctx,
		s.q(`SELECT word FROM wheelword_daily_words WHERE game_number=?`), gameNumber).Scan(&stored); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

/* ----------------------------- leaderboard ------------------------------ */

// Leaderboard fetches the winners of a game.
//
// - Ordered by attempts used ASC, then finish time ASC.
// - Default limit is 20 if not specified.
func (s *SQLStore) Leaderboard(ctx context.Context, gameNumber, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT g.user_id, u.username, g.attempts_used, g.updated_at
		FROM wheelword_games g
		JOIN users u ON u.id = g.user_id
		WHERE g.game_number=? AND g.won=1
		ORDER BY g.attempts_used ASC, g.updated_at ASC
		LIMIT ?`), gameNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		var finished string
		if err := rows.Scan(&r.UserID, &r.Username, &r.AttemptsUsed, &finished); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		r.FinishedAt = parseTS(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
