package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ShoppingTracker/internal/model"
)

// TelegramRepository реализует доступ к таблицам telegram_config и telegram_users
type TelegramRepository struct {
	db *sql.DB
}

// NewTelegramRepository создает новый репозиторий настроек Telegram
func NewTelegramRepository(db *sql.DB) *TelegramRepository {
	return &TelegramRepository{db: db}
}

// GetConfig возвращает единственную строку конфигурации или ErrNotFound
func (r *TelegramRepository) GetConfig(ctx context.Context) (*model.TelegramConfig, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, bot_token FROM telegram_config LIMIT 1`)
	var c model.TelegramConfig
	if err := row.Scan(&c.ID, &c.BotToken); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get telegram config: %w", err)
	}
	return &c, nil
}

// SaveConfig сохраняет токен бота: обновляет существующую строку,
// либо вставляет первую; в таблице живет не более одной строки
func (r *TelegramRepository) SaveConfig(ctx context.Context, botToken string) (*model.TelegramConfig, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	var c model.TelegramConfig
	c.BotToken = botToken
	// блокируем существующую строку, чтобы параллельные сохранения не породили вторую
	row := tx.QueryRowContext(ctx, `SELECT id FROM telegram_config LIMIT 1 FOR UPDATE`)
	err = row.Scan(&c.ID)
	switch {
	case err == sql.ErrNoRows:
		insert := `INSERT INTO telegram_config(bot_token) VALUES($1) RETURNING id`
		if err := tx.QueryRowContext(ctx, insert, botToken).Scan(&c.ID); err != nil {
			return nil, fmt.Errorf("failed to insert telegram config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to select telegram config: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE telegram_config SET bot_token=$1 WHERE id=$2`, botToken, c.ID); err != nil {
			return nil, fmt.Errorf("failed to update telegram config: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &c, nil
}

// CreateUser добавляет получателя уведомлений
func (r *TelegramRepository) CreateUser(ctx context.Context, name, chatID string) (*model.TelegramUser, error) {
	query := `INSERT INTO telegram_users(name, chat_id) VALUES($1, $2) RETURNING id`
	var u model.TelegramUser
	u.Name = name
	u.ChatID = chatID
	if err := r.db.QueryRowContext(ctx, query, name, chatID).Scan(&u.ID); err != nil {
		return nil, fmt.Errorf("failed to insert telegram user: %w", err)
	}
	return &u, nil
}

// ListUsers возвращает всех получателей уведомлений
func (r *TelegramRepository) ListUsers(ctx context.Context) ([]model.TelegramUser, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, chat_id FROM telegram_users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select telegram users: %w", err)
	}
	defer rows.Close()
	var users []model.TelegramUser
	for rows.Next() {
		var u model.TelegramUser
		if err := rows.Scan(&u.ID, &u.Name, &u.ChatID); err != nil {
			return nil, fmt.Errorf("failed to scan telegram user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate telegram users: %w", err)
	}
	return users, nil
}

// DeleteUser удаляет получателя; отсутствующий получатель не считается ошибкой
func (r *TelegramRepository) DeleteUser(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM telegram_users WHERE id=$1`, id); err != nil {
		return fmt.Errorf("failed to delete telegram user: %w", err)
	}
	return nil
}
