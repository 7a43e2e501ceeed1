package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"promptclub-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

// Store holds the chat state in sqlite. The default DSN is an in-process
// database, matching the single-process reference where state lives and dies
// with the server; a file path can be configured for inspection.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// an in-memory sqlite database exists per connection
	db.SetMaxOpenConns(1)

	if err := setPragmaValues(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func setPragmaValues(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	// these next 2 extremely speed up performance of sqlite
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}

	return nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS users (
				id BIGINT PRIMARY KEY,
				name VARCHAR(32) NOT NULL,
				avatar TEXT NOT NULL,
				role VARCHAR(8) NOT NULL,
				status VARCHAR(8) NOT NULL,
				xp INTEGER NOT NULL,
				level INTEGER NOT NULL,
				joined_at TIMESTAMP NOT NULL,
				is_muted BOOLEAN NOT NULL DEFAULT FALSE,
				mute_until BIGINT NOT NULL DEFAULT 0
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS channels (
				id BIGINT PRIMARY KEY,
				name VARCHAR(32) NOT NULL,
				type VARCHAR(8) NOT NULL,
				description TEXT NOT NULL DEFAULT ''
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS messages (
				id BIGINT PRIMARY KEY,
				channel_id BIGINT NOT NULL,
				user_id BIGINT NOT NULL,
				content TEXT NOT NULL,
				timestamp BIGINT NOT NULL,
				type VARCHAR(16) NOT NULL,
				is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
				FOREIGN KEY (channel_id) REFERENCES channels(id) ON DELETE CASCADE,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	return nil
}

func (s *Store) InsertUser(user models.User) error {
	_, err := s.db.Exec("INSERT INTO users VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Avatar, user.Role, user.Status, user.Xp, user.Level,
		user.JoinedAt, user.IsMuted, user.MuteUntil)
	return err
}

func (s *Store) UpdateUser(user models.User) error {
	result, err := s.db.Exec(`
			UPDATE users
			SET name = ?, avatar = ?, role = ?, status = ?, xp = ?, level = ?, is_muted = ?, mute_until = ?
			WHERE id = ?
		`,
		user.Name, user.Avatar, user.Role, user.Status, user.Xp, user.Level,
		user.IsMuted, user.MuteUntil, user.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user ID [%d]: %w", user.ID, ErrNotFound)
	}
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Avatar, &user.Role, &user.Status,
		&user.Xp, &user.Level, &user.JoinedAt, &user.IsMuted, &user.MuteUntil)
	return user, err
}

func (s *Store) UserByID(id int64) (models.User, error) {
	user, err := scanUser(s.db.QueryRow("SELECT * FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user ID [%d]: %w", id, ErrNotFound)
	}
	return user, err
}

// UserByName resolves a display name to the oldest non-bot user carrying it.
func (s *Store) UserByName(name string) (models.User, error) {
	user, err := scanUser(s.db.QueryRow(
		"SELECT * FROM users WHERE name = ? AND role != ? ORDER BY id LIMIT 1", name, models.RoleBot))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user name [%s]: %w", name, ErrNotFound)
	}
	return user, err
}

// Users returns every user in creation order. Snowflake IDs are
// time-ordered, so sorting by ID preserves the original collection order the
// ranking command depends on for tie-breaking.
func (s *Store) Users() ([]models.User, error) {
	rows, err := s.db.Query("SELECT * FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User = []models.User{}

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *Store) UserCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (s *Store) InsertChannel(channel models.Channel) error {
	_, err := s.db.Exec("INSERT INTO channels VALUES(?, ?, ?, ?)",
		channel.ID, channel.Name, channel.Type, channel.Description)
	return err
}

func (s *Store) ChannelByID(id int64) (models.Channel, error) {
	var channel models.Channel
	err := s.db.QueryRow("SELECT * FROM channels WHERE id = ?", id).
		Scan(&channel.ID, &channel.Name, &channel.Type, &channel.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Channel{}, fmt.Errorf("channel ID [%d]: %w", id, ErrNotFound)
	}
	return channel, err
}

func (s *Store) Channels() ([]models.Channel, error) {
	rows, err := s.db.Query("SELECT * FROM channels ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.Channel = []models.Channel{}

	for rows.Next() {
		var channel models.Channel
		err := rows.Scan(&channel.ID, &channel.Name, &channel.Type, &channel.Description)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}

	return channels, rows.Err()
}

func (s *Store) InsertMessage(msg models.Message) error {
	_, err := s.db.Exec("INSERT INTO messages VALUES(?, ?, ?, ?, ?, ?, ?)",
		msg.ID, msg.ChannelID, msg.UserID, msg.Content, msg.Timestamp, msg.Type, msg.IsDeleted)
	return err
}

// SoftDeleteMessage hides a message while keeping the record for audit.
// Deleting an absent message is a no-op.
func (s *Store) SoftDeleteMessage(id int64) (bool, error) {
	result, err := s.db.Exec("UPDATE messages SET is_deleted = TRUE WHERE id = ?", id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) MessagesByChannel(channelID int64) ([]models.Message, error) {
	rows, err := s.db.Query("SELECT * FROM messages WHERE channel_id = ? ORDER BY id", channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message = []models.Message{}

	for rows.Next() {
		var msg models.Message
		err := rows.Scan(&msg.ID, &msg.ChannelID, &msg.UserID, &msg.Content,
			&msg.Timestamp, &msg.Type, &msg.IsDeleted)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (s *Store) MessageByID(id int64) (models.Message, error) {
	var msg models.Message
	err := s.db.QueryRow("SELECT * FROM messages WHERE id = ?", id).
		Scan(&msg.ID, &msg.ChannelID, &msg.UserID, &msg.Content,
			&msg.Timestamp, &msg.Type, &msg.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, fmt.Errorf("message ID [%d]: %w", id, ErrNotFound)
	}
	return msg, err
}
