package repository

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/TheExpert24/Enkryptonite/database"
	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDB, geçici dizinde migration'ları uygulanmış bir SQLite açar.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrations)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db.Conn
}

func TestUserUpsertAndGet(t *testing.T) {
	repo := NewSQLiteUserRepo(setupDB(t))
	ctx := context.Background()

	pic := "/uploads/pic.png"
	user := &models.User{
		UserID: "u1", DisplayName: "alice", SecretWord: "secret",
		ProfilePic: &pic, CreatedAt: 100, LastActive: 100,
	}
	require.NoError(t, repo.Upsert(ctx, user))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.DisplayName)
	assert.Equal(t, "secret", got.SecretWord)
	require.NotNil(t, got.ProfilePic)
	assert.Equal(t, pic, *got.ProfilePic)
	assert.Nil(t, got.BannedUntil)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUserUpsertPreservesBanFields(t *testing.T) {
	repo := NewSQLiteUserRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{
		UserID: "u1", DisplayName: "alice", SecretWord: "s1", CreatedAt: 1, LastActive: 1,
	}))
	require.NoError(t, repo.SetBan(ctx, "u1", 9999, "spam", 500))

	// Re-register: kayıt alanları değişir, ban alanları olduğu gibi kalır
	require.NoError(t, repo.Upsert(ctx, &models.User{
		UserID: "u1", DisplayName: "alice2", SecretWord: "s2", CreatedAt: 2, LastActive: 2,
	}))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.DisplayName)
	assert.Equal(t, "s2", got.SecretWord)
	require.NotNil(t, got.BannedUntil)
	assert.Equal(t, int64(9999), *got.BannedUntil)
	require.NotNil(t, got.BanReason)
	assert.Equal(t, "spam", *got.BanReason)
}

func TestGetByNameAndSecret(t *testing.T) {
	repo := NewSQLiteUserRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{
		UserID: "u1", DisplayName: "alice", SecretWord: "correct",
	}))

	got, err := repo.GetByNameAndSecret(ctx, "alice", "correct")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	// Exact-match: yanlış secret veya yanlış isim → not found
	_, err = repo.GetByNameAndSecret(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = repo.GetByNameAndSecret(ctx, "Alice", "correct")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSetAndClearBan(t *testing.T) {
	repo := NewSQLiteUserRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{UserID: "u1", DisplayName: "alice", SecretWord: "s"}))
	require.NoError(t, repo.SetBan(ctx, "u1", 9999, "spam", 500))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got.BannedUntil)

	require.NoError(t, repo.ClearBan(ctx, "u1"))

	got, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got.BannedUntil)
	assert.Nil(t, got.BanReason)
	// last_ban_date tarihçe olarak kalır
	require.NotNil(t, got.LastBanDate)
	assert.Equal(t, int64(500), *got.LastBanDate)

	// Olmayan kullanıcıya SetBan no-op, hata dönmez
	assert.NoError(t, repo.SetBan(ctx, "ghost", 9999, "spam", 500))
}

func TestStarChatCreatesMinimalUser(t *testing.T) {
	repo := NewSQLiteUserRepo(setupDB(t))
	ctx := context.Background()

	// Kullanıcı satırı yokken star — minimal satır oluşur
	require.NoError(t, repo.StarChat(ctx, "u1", "c1", 100))
	require.NoError(t, repo.StarChat(ctx, "u1", "c1", 100)) // idempotent
	require.NoError(t, repo.StarChat(ctx, "u1", "c2", 100))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, got.StarredChats)

	require.NoError(t, repo.UnstarChat(ctx, "u1", "c1"))
	require.NoError(t, repo.UnstarChat(ctx, "u1", "ghost")) // no-op

	got, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, got.StarredChats)
}

func newTestChat(id, name, creator string, private bool, members []string, createdAt int64) *models.Chat {
	if members == nil {
		members = []string{}
	}
	return &models.Chat{
		ID: id, Name: name, CreatorID: creator, IsPrivate: private,
		Members: members, Messages: []models.Message{},
		CreatedAt: createdAt, LastActivity: createdAt,
	}
}

func TestChatInsertAndGet(t *testing.T) {
	repo := NewSQLiteChatRepo(setupDB(t))
	ctx := context.Background()

	chat := newTestChat("c1", "secret", "alice", true, []string{"bob", "bob", "carol"}, 100)
	require.NoError(t, repo.Insert(ctx, chat))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Name)
	assert.True(t, got.IsPrivate)
	// Duplicate member tek satıra iner (PK)
	assert.ElementsMatch(t, []string{"bob", "carol"}, got.Members)
	assert.NotNil(t, got.Messages)
	assert.Empty(t, got.Messages)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestAppendMessageAndOrdering(t *testing.T) {
	repo := NewSQLiteChatRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestChat("c1", "general", "alice", false, nil, 100)))

	encrypted := "ciphertext"
	msgs := []*models.Message{
		{ID: "m1", UserID: "alice", UserName: "alice", Timestamp: 200, Message: "first"},
		{ID: "m2", UserID: "bob", UserName: "bob", Timestamp: 150, Message: "second"},
		{ID: "m3", UserID: "bob", UserName: "bob", Timestamp: 300, IsEncrypted: true,
			Message: models.EncryptedPlaceholder, EncryptedData: &encrypted},
	}
	for i, m := range msgs {
		require.NoError(t, repo.AppendMessage(ctx, "c1", m, int64(200+i)))
	}

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)

	// Sıralama timestamp değil ekleme sırasıdır (seq)
	assert.Equal(t, "m1", got.Messages[0].ID)
	assert.Equal(t, "m2", got.Messages[1].ID)
	assert.Equal(t, "m3", got.Messages[2].ID)

	assert.True(t, got.Messages[2].IsEncrypted)
	require.NotNil(t, got.Messages[2].EncryptedData)
	assert.Equal(t, "ciphertext", *got.Messages[2].EncryptedData)

	// last_activity append ile güncellendi
	assert.Equal(t, int64(202), got.LastActivity)
}

func TestDeleteChatCascades(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteChatRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestChat("c1", "general", "alice", true, []string{"bob"}, 100)))
	require.NoError(t, repo.AppendMessage(ctx, "c1",
		&models.Message{ID: "m1", UserID: "alice", UserName: "alice", Timestamp: 200, Message: "hi"}, 200))

	require.NoError(t, repo.Delete(ctx, "c1"))
	assert.ErrorIs(t, repo.Delete(ctx, "c1"), pkg.ErrNotFound)

	// Mesajlar ve üyelik cascade ile silinir
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM messages WHERE chat_id = 'c1'`).Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM chat_members WHERE chat_id = 'c1'`).Scan(&count))
	assert.Zero(t, count)
}

func TestListVisible(t *testing.T) {
	repo := NewSQLiteChatRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestChat("pub1", "general", "alice", false, nil, 1)))
	require.NoError(t, repo.Insert(ctx, newTestChat("pub2", "random", "alice", false, nil, 2)))
	require.NoError(t, repo.Insert(ctx, newTestChat("priv-own", "mine", "bob", true, nil, 3)))
	require.NoError(t, repo.Insert(ctx, newTestChat("priv-member", "invited", "alice", true, []string{"bob"}, 4)))
	require.NoError(t, repo.Insert(ctx, newTestChat("priv-other", "hidden", "alice", true, []string{"carol"}, 5)))

	// Anonim: sadece public, en yeni önce
	chats, err := repo.ListVisible(ctx, "", 0, 10)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "pub2", chats[0].ID)
	assert.Equal(t, "pub1", chats[1].ID)

	// bob: public + creator/member olduğu private'lar
	chats, err = repo.ListVisible(ctx, "bob", 0, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(chats))
	for _, c := range chats {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"priv-member", "priv-own", "pub2", "pub1"}, ids)

	// Sayfalama: offset/limit
	chats, err = repo.ListVisible(ctx, "bob", 1, 2)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "priv-own", chats[0].ID)
	assert.Equal(t, "pub2", chats[1].ID)
}

func TestSearchPublic(t *testing.T) {
	repo := NewSQLiteChatRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestChat("c1", "Golang Talk", "alice", false, nil, 1)))
	require.NoError(t, repo.Insert(ctx, newTestChat("c2", "rust talk", "alice", false, nil, 2)))
	require.NoError(t, repo.Insert(ctx, newTestChat("c3", "golang private", "alice", true, nil, 3)))
	require.NoError(t, repo.Insert(ctx, newTestChat("c4", "100% legit", "alice", false, nil, 4)))

	// Case-insensitive substring, sadece public
	chats, err := repo.SearchPublic(ctx, "golang", 50)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "c1", chats[0].ID)

	// LIKE wildcard'ları escape edilir — "%" literal aranır
	chats, err = repo.SearchPublic(ctx, "100%", 50)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "c4", chats[0].ID)

	chats, err = repo.SearchPublic(ctx, "nomatch", 50)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestFindPrivateBetween(t *testing.T) {
	repo := NewSQLiteChatRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestChat("dm", "dm", "alice", true, []string{"bob"}, 1)))
	require.NoError(t, repo.Insert(ctx, newTestChat("pub", "general", "alice", false, []string{}, 2)))

	// Her iki yön de bulunur
	chat, err := repo.FindPrivateBetween(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "dm", chat.ID)

	chat, err = repo.FindPrivateBetween(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "dm", chat.ID)

	_, err = repo.FindPrivateBetween(ctx, "alice", "carol")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestGetManyByIDs(t *testing.T) {
	repo := NewSQLiteChatRepo(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestChat("c1", "one", "alice", false, nil, 1)))
	require.NoError(t, repo.Insert(ctx, newTestChat("c2", "two", "alice", false, nil, 2)))

	// Eksik id'ler sessizce atlanır
	chats, err := repo.GetManyByIDs(ctx, []string{"c1", "ghost", "c2"})
	require.NoError(t, err)
	assert.Len(t, chats, 2)

	chats, err = repo.GetManyByIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, chats)
	assert.Empty(t, chats)
}
