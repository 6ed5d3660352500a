package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
)

type sqliteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo, UserRepository'nin SQLite implementasyonunu oluşturur.
func NewSQLiteUserRepo(db *sql.DB) UserRepository {
	return &sqliteUserRepo{db: db}
}

const userColumns = `user_id, display_name, secret_word, profile_pic, created_at, last_active, banned_until, ban_reason, last_ban_date`

func (r *sqliteUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	if err := r.loadStarredChats(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *sqliteUserRepo) GetByNameAndSecret(ctx context.Context, displayName, secretWord string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE display_name = ? AND secret_word = ? LIMIT 1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, displayName, secretWord))
}

func (r *sqliteUserRepo) Upsert(ctx context.Context, user *models.User) error {
	// Kayıt alan setinin tam replace'i — ban alanları korunur.
	query := `
		INSERT INTO users (user_id, display_name, secret_word, profile_pic, created_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			secret_word  = excluded.secret_word,
			profile_pic  = excluded.profile_pic,
			created_at   = excluded.created_at,
			last_active  = excluded.last_active`

	if _, err := r.db.ExecContext(ctx, query,
		user.UserID, user.DisplayName, user.SecretWord, user.ProfilePic,
		user.CreatedAt, user.LastActive,
	); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) SetBan(ctx context.Context, userID string, bannedUntil int64, reason string, lastBanDate int64) error {
	query := `UPDATE users SET banned_until = ?, ban_reason = ?, last_ban_date = ? WHERE user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, bannedUntil, reason, lastBanDate, userID); err != nil {
		return fmt.Errorf("failed to set ban: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) ClearBan(ctx context.Context, userID string) error {
	query := `UPDATE users SET banned_until = NULL, ban_reason = NULL WHERE user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear ban: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) TouchLastActive(ctx context.Context, userID string, ts int64) error {
	query := `UPDATE users SET last_active = ? WHERE user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, ts, userID); err != nil {
		return fmt.Errorf("failed to touch last active: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) StarChat(ctx context.Context, userID, chatID string, now int64) error {
	// Kullanıcı satırı yoksa minimal upsert — star FK'sının hedefi olmalı.
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, created_at, last_active) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING`,
		userID, now, now,
	); err != nil {
		return fmt.Errorf("failed to upsert user for star: %w", err)
	}

	// INSERT OR IGNORE → set-add, tekrar star idempotent.
	if _, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO starred_chats (user_id, chat_id) VALUES (?, ?)`,
		userID, chatID,
	); err != nil {
		return fmt.Errorf("failed to star chat: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) UnstarChat(ctx context.Context, userID, chatID string) error {
	// Satır yoksa no-op — idempotent set-remove.
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM starred_chats WHERE user_id = ? AND chat_id = ?`,
		userID, chatID,
	); err != nil {
		return fmt.Errorf("failed to unstar chat: %w", err)
	}

	return nil
}

// scanUser, tek satırlık user sorgusunu okur.
func (r *sqliteUserRepo) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.UserID, &user.DisplayName, &user.SecretWord, &user.ProfilePic,
		&user.CreatedAt, &user.LastActive,
		&user.BannedUntil, &user.BanReason, &user.LastBanDate,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return user, nil
}

// loadStarredChats, kullanıcının yıldızladığı chat id'lerini yükler.
func (r *sqliteUserRepo) loadStarredChats(ctx context.Context, user *models.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chat_id FROM starred_chats WHERE user_id = ?`, user.UserID)
	if err != nil {
		return fmt.Errorf("failed to load starred chats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chatID string
		if err := rows.Scan(&chatID); err != nil {
			return fmt.Errorf("failed to scan starred chat: %w", err)
		}
		user.StarredChats = append(user.StarredChats, chatID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating starred chats: %w", err)
	}

	return nil
}
