package models

import (
	"fmt"
	"strings"
)

// Chat, bir sohbet odasını temsil eder.
//
// Private chat: sadece creator + members okuyabilir/yazabilir.
// Public chat: herkes okur; yazmak banlı olmayan herhangi bir kimliğe açıktır.
// Members sadece private chat'lerde anlamlıdır — public chat'te boş saklanır.
// Messages append-only'dir; eklenen mesaj değişmez.
type Chat struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatorID    string    `json:"creatorId"`
	IsPrivate    bool      `json:"isPrivate"`
	Members      []string  `json:"members"`
	Messages     []Message `json:"messages"`
	CreatedAt    int64     `json:"createdAt"`
	LastActivity int64     `json:"lastActivity"`
}

// IsMember, userID'nin members listesinde olup olmadığını döner.
func (c *Chat) IsMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// CanRead, kullanıcının chat'i okuyup okuyamayacağını döner.
// Public chat herkese açıktır. Private chat'te userID boş olmamalı ve
// creator veya member olmalıdır.
//
// Bu predicate'ler chat snapshot'ı üzerinde çalışan saf fonksiyonlardır —
// yan etkileri yoktur. Boş userID "anonim" demektir.
func (c *Chat) CanRead(userID string) bool {
	if !c.IsPrivate {
		return true
	}
	return userID != "" && (c.CreatorID == userID || c.IsMember(userID))
}

// CanWrite, kullanıcının chat'e mesaj yazıp yazamayacağını döner.
// Private chat'te kural CanRead ile aynıdır. Public chat'te herkes yazabilir —
// ban kontrolü bu predicate'e GELMEDEN caller tarafından yapılır.
func (c *Chat) CanWrite(userID string) bool {
	if !c.IsPrivate {
		return true
	}
	return c.CanRead(userID)
}

// CanDelete, sadece creator'a izin verir.
func (c *Chat) CanDelete(userID string) bool {
	return userID != "" && c.CreatorID == userID
}

// CreateChatRequest, chat oluşturma isteği.
type CreateChatRequest struct {
	Name      string   `json:"name"`
	CreatorID string   `json:"creatorId"`
	IsPrivate bool     `json:"isPrivate"`
	Members   []string `json:"members"`
}

// Validate, zorunlu alanları kontrol eder.
func (r *CreateChatRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("chat name is required")
	}
	if r.CreatorID == "" {
		return fmt.Errorf("creator id is required")
	}
	return nil
}

// ChatPage, sayfalı chat listesi yanıtı.
// HasMore, count sorgusu yapmadan limit+1 fetch ile hesaplanır.
type ChatPage struct {
	Chats   []Chat `json:"chats"`
	HasMore bool   `json:"hasMore"`
}
