package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"CoffeeMill/internal/model"
)

const messageColumns = `id, name, contact_info, body, viewed, created_at`

// MessageRepository реализует доступ к таблице messages
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository создает новый репозиторий сообщений
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row rowScanner) (*model.Message, error) {
	var m model.Message
	var name sql.NullString
	if err := row.Scan(&m.ID, &name, &m.ContactInfo, &m.Body, &m.Viewed, &m.CreatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		m.Name = &name.String
	}
	return &m, nil
}

// CreateMessage сохраняет новое непрочитанное сообщение
func (r *MessageRepository) CreateMessage(ctx context.Context, m model.Message) (*model.Message, error) {
	m.ID = uuid.NewString()
	m.Viewed = false
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages(id, name, contact_info, body, viewed) VALUES($1, $2, $3, $4, false) RETURNING created_at`,
		m.ID, m.Name, m.ContactInfo, m.Body,
	).Scan(&m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return &m, nil
}

// ListMessages возвращает все сообщения, новые первыми
func (r *MessageRepository) ListMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()
	messages := make([]model.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// GetMessage возвращает сообщение по id
func (r *MessageRepository) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	m, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

// MarkViewed отмечает сообщение прочитанным
func (r *MessageRepository) MarkViewed(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET viewed=true WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message viewed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark message viewed: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMessage удаляет сообщение и возвращает удалённую запись
func (r *MessageRepository) DeleteMessage(ctx context.Context, id string) (*model.Message, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	m, err := scanMessage(r.db.QueryRowContext(ctx, `DELETE FROM messages WHERE id=$1 RETURNING `+messageColumns, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete message: %w", err)
	}
	return m, nil
}

// UserRepository реализует доступ к таблице users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername ищет пользователя по логину
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `SELECT id, name, username, password_hash FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// SaveUser заводит администратора или обновляет имя и хеш пароля существующего
func (r *UserRepository) SaveUser(ctx context.Context, u model.User) (*model.User, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users(name, username, password_hash) VALUES($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash
		RETURNING id`,
		u.Name, u.Username, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return &u, nil
}
