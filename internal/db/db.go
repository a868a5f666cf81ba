package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store defines all database operations.
type Store interface {
	SearchDyes(ctx context.Context, prefix string, limit int) ([]*DyeItem, error)
	GetDyeByName(ctx context.Context, name string) (*DyeItem, error)
	ListDyes(ctx context.Context) ([]*DyeItem, error)
	CreateCollection(ctx context.Context, userID, name string) (int64, error)
	DeleteCollection(ctx context.Context, userID, name string) (bool, error)
	ListCollections(ctx context.Context, userID string) ([]*Collection, error)
	SearchCollections(ctx context.Context, userID, prefix string, limit int) ([]*Collection, error)
	CreateSubmission(ctx context.Context, sub *Submission) (int64, error)
	GetSubmission(ctx context.Context, id int64) (*Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status SubmissionStatus) error
	SearchSubmissions(ctx context.Context, status SubmissionStatus, prefix string, limit int) ([]*Submission, error)
	ListSubmissionsByUser(ctx context.Context, userID string) ([]*Submission, error)
	UpsertUser(ctx context.Context, userID, username string) error
	SearchUsers(ctx context.Context, prefix string, limit int) ([]*KnownUser, error)
	InsertOutcome(ctx context.Context, command, userID, guildID string, success bool) error
	PruneOutcomes(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// sqlOpenFunc is a package-level variable to allow testing sql.Open failures.
var sqlOpenFunc = sql.Open

// NewSQLiteStore opens a SQLite database and returns a new SQLiteStore.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sqlOpenFunc("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := initDB(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &SQLiteStore{db: sqlDB}, nil
}

// initDB configures pragmas and runs migrations on an open database connection.
func initDB(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := RunMigrations(context.Background(), sqlDB); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// NewSQLiteStoreFromDB creates a SQLiteStore from an existing *sql.DB connection.
func NewSQLiteStoreFromDB(sqlDB *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: sqlDB}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Dye catalog ---

func (s *SQLiteStore) SearchDyes(ctx context.Context, prefix string, limit int) ([]*DyeItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, hex, selectable FROM dye_items
		 WHERE selectable = 1 AND name LIKE ? ESCAPE '\'
		 ORDER BY name LIMIT ?`,
		likePrefix(prefix), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDyes(rows)
}

func (s *SQLiteStore) GetDyeByName(ctx context.Context, name string) (*DyeItem, error) {
	item := &DyeItem{}
	var selectable int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, hex, selectable FROM dye_items WHERE name = ? COLLATE NOCASE`,
		name,
	).Scan(&item.ID, &item.Name, &item.Category, &item.Hex, &selectable)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item.Selectable = selectable == 1
	return item, nil
}

func (s *SQLiteStore) ListDyes(ctx context.Context) ([]*DyeItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, hex, selectable FROM dye_items WHERE selectable = 1 ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDyes(rows)
}

func scanDyes(rows *sql.Rows) ([]*DyeItem, error) {
	var items []*DyeItem
	for rows.Next() {
		item := &DyeItem{}
		var selectable int
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Hex, &selectable); err != nil {
			return nil, err
		}
		item.Selectable = selectable == 1
		items = append(items, item)
	}
	return items, rows.Err()
}

// --- Collections ---

func (s *SQLiteStore) CreateCollection(ctx context.Context, userID, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (user_id, name, created_at) VALUES (?, ?, ?)`,
		userID, name, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) DeleteCollection(ctx context.Context, userID, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM collections WHERE user_id = ? AND name = ?`,
		userID, name,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListCollections(ctx context.Context, userID string) ([]*Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM collections WHERE user_id = ? ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCollections(rows)
}

func (s *SQLiteStore) SearchCollections(ctx context.Context, userID, prefix string, limit int) ([]*Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM collections
		 WHERE user_id = ? AND name LIKE ? ESCAPE '\'
		 ORDER BY name LIMIT ?`,
		userID, likePrefix(prefix), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCollections(rows)
}

func scanCollections(rows *sql.Rows) ([]*Collection, error) {
	var cols []*Collection
	for rows.Next() {
		c := &Collection{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// --- Submissions ---

func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *Submission) (int64, error) {
	status := sub.Status
	if status == "" {
		status = SubmissionPending
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (user_id, user_name, name, body, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.UserID, sub.UserName, sub.Name, sub.Body, string(status), time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, id int64) (*Submission, error) {
	sub := &Submission{}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, user_name, name, body, status, created_at FROM submissions WHERE id = ?`,
		id,
	).Scan(&sub.ID, &sub.UserID, &sub.UserName, &sub.Name, &sub.Body, &status, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sub.Status = SubmissionStatus(status)
	return sub, nil
}

func (s *SQLiteStore) UpdateSubmissionStatus(ctx context.Context, id int64, status SubmissionStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET status = ? WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("submission %d not found", id)
	}
	return nil
}

func (s *SQLiteStore) SearchSubmissions(ctx context.Context, status SubmissionStatus, prefix string, limit int) ([]*Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, user_name, name, body, status, created_at FROM submissions
		 WHERE status = ? AND name LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ?`,
		string(status), likePrefix(prefix), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (s *SQLiteStore) ListSubmissionsByUser(ctx context.Context, userID string) ([]*Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, user_name, name, body, status, created_at FROM submissions
		 WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func scanSubmissions(rows *sql.Rows) ([]*Submission, error) {
	var subs []*Submission
	for rows.Next() {
		sub := &Submission{}
		var status string
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.UserName, &sub.Name, &sub.Body, &status, &sub.CreatedAt); err != nil {
			return nil, err
		}
		sub.Status = SubmissionStatus(status)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// --- Users ---

func (s *SQLiteStore) UpsertUser(ctx context.Context, userID, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, last_seen) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   username = CASE WHEN excluded.username != '' THEN excluded.username ELSE users.username END,
		   last_seen = excluded.last_seen`,
		userID, username, time.Now().UTC(),
	)
	return err
}

func (s *SQLiteStore) SearchUsers(ctx context.Context, prefix string, limit int) ([]*KnownUser, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, username, last_seen FROM users
		 WHERE username LIKE ? ESCAPE '\'
		 ORDER BY username LIMIT ?`,
		likePrefix(prefix), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*KnownUser
	for rows.Next() {
		u := &KnownUser{}
		if err := rows.Scan(&u.UserID, &u.Username, &u.LastSeen); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- Command outcomes ---

func (s *SQLiteStore) InsertOutcome(ctx context.Context, command, userID, guildID string, success bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_outcomes (command, user_id, guild_id, success, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		command, userID, guildID, boolToInt(success), time.Now().UTC(),
	)
	return err
}

func (s *SQLiteStore) PruneOutcomes(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM command_outcomes WHERE created_at < ?`,
		before,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// likePrefix escapes LIKE metacharacters in user input and appends the
// trailing wildcard for prefix matching.
func likePrefix(prefix string) string {
	escaped := make([]byte, 0, len(prefix)+2)
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c == '%' || c == '_' || c == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return string(escaped) + "%"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
