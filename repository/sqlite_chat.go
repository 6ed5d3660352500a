package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
)

type sqliteChatRepo struct {
	db *sql.DB
}

// NewSQLiteChatRepo, ChatRepository'nin SQLite implementasyonunu oluşturur.
func NewSQLiteChatRepo(db *sql.DB) ChatRepository {
	return &sqliteChatRepo{db: db}
}

const chatColumns = `id, name, creator_id, is_private, created_at, last_activity`

func (r *sqliteChatRepo) Insert(ctx context.Context, chat *models.Chat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chats (id, name, creator_id, is_private, created_at, last_activity)
		VALUES (?, ?, ?, ?, ?, ?)`,
		chat.ID, chat.Name, chat.CreatorID, chat.IsPrivate, chat.CreatedAt, chat.LastActivity,
	); err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}

	// Üyeler verbatim gelir — INSERT OR IGNORE PK çakışmasını yutar
	// (aynı id iki kez gönderilmişse tek satır kalır).
	for _, memberID := range chat.Members {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO chat_members (chat_id, user_id) VALUES (?, ?)`,
			chat.ID, memberID,
		); err != nil {
			return fmt.Errorf("failed to insert chat member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chat insert: %w", err)
	}

	return nil
}

func (r *sqliteChatRepo) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	query := `SELECT ` + chatColumns + ` FROM chats WHERE id = ?`

	chat := &models.Chat{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&chat.ID, &chat.Name, &chat.CreatorID, &chat.IsPrivate,
		&chat.CreatedAt, &chat.LastActivity,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	if err := r.loadMembers(ctx, []*models.Chat{chat}); err != nil {
		return nil, err
	}

	if err := r.loadMessages(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

func (r *sqliteChatRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteChatRepo) AppendMessage(ctx context.Context, chatID string, msg *models.Message, lastActivity int64) error {
	// Append + last_activity güncellemesi tek transaction —
	// yarım kalmış mesaj görünmez.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, user_id, user_name, timestamp, is_encrypted, message, encrypted_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, chatID, msg.UserID, msg.UserName, msg.Timestamp,
		msg.IsEncrypted, msg.Message, msg.EncryptedData,
	); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE chats SET last_activity = ? WHERE id = ?`,
		lastActivity, chatID,
	); err != nil {
		return fmt.Errorf("failed to update chat activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message append: %w", err)
	}

	return nil
}

func (r *sqliteChatRepo) ListVisible(ctx context.Context, userID string, offset, limit int) ([]models.Chat, error) {
	var (
		query string
		args  []any
	)

	if userID == "" {
		query = `SELECT ` + chatColumns + ` FROM chats
			WHERE is_private = 0
			ORDER BY created_at DESC LIMIT ? OFFSET ?`
		args = []any{limit, offset}
	} else {
		query = `SELECT ` + chatColumns + ` FROM chats
			WHERE is_private = 0
			   OR creator_id = ?
			   OR id IN (SELECT chat_id FROM chat_members WHERE user_id = ?)
			ORDER BY created_at DESC LIMIT ? OFFSET ?`
		args = []any{userID, userID, limit, offset}
	}

	return r.queryChats(ctx, query, args...)
}

func (r *sqliteChatRepo) SearchPublic(ctx context.Context, query string, limit int) ([]models.Chat, error) {
	// LIKE, ASCII için zaten case-insensitive. % ve _ escape edilir —
	// kullanıcı girdisi wildcard olarak yorumlanmaz.
	pattern := "%" + escapeLike(query) + "%"

	sqlQuery := `SELECT ` + chatColumns + ` FROM chats
		WHERE is_private = 0 AND name LIKE ? ESCAPE '\'
		ORDER BY created_at DESC LIMIT ?`

	return r.queryChats(ctx, sqlQuery, pattern, limit)
}

func (r *sqliteChatRepo) FindPrivateBetween(ctx context.Context, user1, user2 string) (*models.Chat, error) {
	// İki yön de denenir: user1 creator + user2 member, veya tersi.
	query := `SELECT ` + chatColumns + ` FROM chats c
		WHERE c.is_private = 1 AND (
			(c.creator_id = ? AND EXISTS (
				SELECT 1 FROM chat_members m WHERE m.chat_id = c.id AND m.user_id = ?))
			OR
			(c.creator_id = ? AND EXISTS (
				SELECT 1 FROM chat_members m WHERE m.chat_id = c.id AND m.user_id = ?))
		)
		LIMIT 1`

	chat := &models.Chat{}
	err := r.db.QueryRowContext(ctx, query, user1, user2, user2, user1).Scan(
		&chat.ID, &chat.Name, &chat.CreatorID, &chat.IsPrivate,
		&chat.CreatedAt, &chat.LastActivity,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find private chat: %w", err)
	}

	if err := r.loadMembers(ctx, []*models.Chat{chat}); err != nil {
		return nil, err
	}

	return chat, nil
}

func (r *sqliteChatRepo) GetManyByIDs(ctx context.Context, ids []string) ([]models.Chat, error) {
	if len(ids) == 0 {
		return []models.Chat{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	query := `SELECT ` + chatColumns + ` FROM chats
		WHERE id IN (` + placeholders + `)
		ORDER BY created_at DESC`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return r.queryChats(ctx, query, args...)
}

// queryChats, çok satırlı chat sorgusunu çalıştırır ve üyeleri yükler.
func (r *sqliteChatRepo) queryChats(ctx context.Context, query string, args ...any) ([]models.Chat, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(
			&chat.ID, &chat.Name, &chat.CreatorID, &chat.IsPrivate,
			&chat.CreatedAt, &chat.LastActivity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	ptrs := make([]*models.Chat, len(chats))
	for i := range chats {
		ptrs[i] = &chats[i]
	}
	if err := r.loadMembers(ctx, ptrs); err != nil {
		return nil, err
	}

	return chats, nil
}

// loadMembers, verilen chat'lerin üye listelerini tek sorguda yükler.
func (r *sqliteChatRepo) loadMembers(ctx context.Context, chats []*models.Chat) error {
	if len(chats) == 0 {
		return nil
	}

	byID := make(map[string]*models.Chat, len(chats))
	placeholders := make([]string, 0, len(chats))
	args := make([]any, 0, len(chats))
	for _, chat := range chats {
		chat.Members = []string{}
		byID[chat.ID] = chat
		placeholders = append(placeholders, "?")
		args = append(args, chat.ID)
	}

	query := `SELECT chat_id, user_id FROM chat_members
		WHERE chat_id IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load chat members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chatID, userID string
		if err := rows.Scan(&chatID, &userID); err != nil {
			return fmt.Errorf("failed to scan chat member: %w", err)
		}
		if chat, ok := byID[chatID]; ok {
			chat.Members = append(chat.Members, userID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating chat members: %w", err)
	}

	return nil
}

// loadMessages, chat'in mesajlarını ekleme sırasıyla (seq) yükler.
func (r *sqliteChatRepo) loadMessages(ctx context.Context, chat *models.Chat) error {
	chat.Messages = []models.Message{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, user_name, timestamp, is_encrypted, message, encrypted_data
		FROM messages WHERE chat_id = ? ORDER BY seq`, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID, &msg.UserID, &msg.UserName, &msg.Timestamp,
			&msg.IsEncrypted, &msg.Message, &msg.EncryptedData,
		); err != nil {
			return fmt.Errorf("failed to scan message row: %w", err)
		}
		chat.Messages = append(chat.Messages, msg)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating message rows: %w", err)
	}

	return nil
}

// escapeLike, LIKE pattern'ındaki özel karakterleri escape eder.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
