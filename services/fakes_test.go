package services

import (
	"context"
	"sort"
	"strings"

	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
)

// fakeUserRepo, UserRepository'nin in-memory test implementasyonu.
// err set edilirse tüm okuma çağrıları o hatayı döner (fail-open testi için).
type fakeUserRepo struct {
	users map[string]*models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByNameAndSecret(ctx context.Context, displayName, secretWord string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.DisplayName == displayName && u.SecretWord == secretWord {
			return u, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	u := *user
	// Upsert ban alanlarına dokunmaz
	if old, ok := f.users[user.UserID]; ok {
		u.BannedUntil = old.BannedUntil
		u.BanReason = old.BanReason
		u.LastBanDate = old.LastBanDate
		u.StarredChats = old.StarredChats
	}
	f.users[u.UserID] = &u
	return nil
}

func (f *fakeUserRepo) SetBan(ctx context.Context, userID string, bannedUntil int64, reason string, lastBanDate int64) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil // kullanıcı yoksa no-op
	}
	u.BannedUntil = &bannedUntil
	u.BanReason = &reason
	u.LastBanDate = &lastBanDate
	return nil
}

func (f *fakeUserRepo) ClearBan(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	if u, ok := f.users[userID]; ok {
		u.BannedUntil = nil
		u.BanReason = nil
	}
	return nil
}

func (f *fakeUserRepo) TouchLastActive(ctx context.Context, userID string, ts int64) error {
	if f.err != nil {
		return f.err
	}
	if u, ok := f.users[userID]; ok {
		u.LastActive = ts
	}
	return nil
}

func (f *fakeUserRepo) StarChat(ctx context.Context, userID, chatID string, now int64) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[userID]
	if !ok {
		u = &models.User{UserID: userID, CreatedAt: now, LastActive: now}
		f.users[userID] = u
	}
	for _, id := range u.StarredChats {
		if id == chatID {
			return nil
		}
	}
	u.StarredChats = append(u.StarredChats, chatID)
	return nil
}

func (f *fakeUserRepo) UnstarChat(ctx context.Context, userID, chatID string) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil
	}
	out := u.StarredChats[:0]
	for _, id := range u.StarredChats {
		if id != chatID {
			out = append(out, id)
		}
	}
	u.StarredChats = out
	return nil
}

// fakeChatRepo, ChatRepository'nin in-memory test implementasyonu.
type fakeChatRepo struct {
	chats map[string]*models.Chat
	err   error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*models.Chat)}
}

func (f *fakeChatRepo) Insert(ctx context.Context, chat *models.Chat) error {
	if f.err != nil {
		return f.err
	}
	c := *chat
	f.chats[c.ID] = &c
	return nil
}

func (f *fakeChatRepo) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.chats[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return c, nil
}

func (f *fakeChatRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.chats[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(f.chats, id)
	return nil
}

func (f *fakeChatRepo) AppendMessage(ctx context.Context, chatID string, msg *models.Message, lastActivity int64) error {
	if f.err != nil {
		return f.err
	}
	c, ok := f.chats[chatID]
	if !ok {
		return pkg.ErrNotFound
	}
	c.Messages = append(c.Messages, *msg)
	c.LastActivity = lastActivity
	return nil
}

func (f *fakeChatRepo) ListVisible(ctx context.Context, userID string, offset, limit int) ([]models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	var visible []models.Chat
	for _, c := range f.chats {
		if !c.IsPrivate || (userID != "" && (c.CreatorID == userID || c.IsMember(userID))) {
			visible = append(visible, *c)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt > visible[j].CreatedAt
	})
	if offset >= len(visible) {
		return nil, nil
	}
	visible = visible[offset:]
	if len(visible) > limit {
		visible = visible[:limit]
	}
	return visible, nil
}

func (f *fakeChatRepo) SearchPublic(ctx context.Context, query string, limit int) ([]models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Chat
	q := strings.ToLower(query)
	for _, c := range f.chats {
		if !c.IsPrivate && strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, *c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeChatRepo) FindPrivateBetween(ctx context.Context, user1, user2 string) (*models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.chats {
		if !c.IsPrivate {
			continue
		}
		if (c.CreatorID == user1 && c.IsMember(user2)) || (c.CreatorID == user2 && c.IsMember(user1)) {
			return c, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeChatRepo) GetManyByIDs(ctx context.Context, ids []string) ([]models.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Chat
	for _, id := range ids {
		if c, ok := f.chats[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}
