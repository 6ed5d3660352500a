package models

import "fmt"

// EncryptedPlaceholder, şifreli mesajların görüntüleme metni.
// Gerçek içerik EncryptedData'da opak olarak saklanır.
const EncryptedPlaceholder = "[Encrypted Message]"

// Message, bir chat mesajını temsil eder.
//
// İki içerik modundan tam olarak biri geçerlidir:
//   - Plaintext: Message dolu, içerik filtresinden geçmiştir.
//   - Encrypted: EncryptedData dolu (server asla incelemez),
//     Message alanında sabit placeholder bulunur.
//
// UserName, gönderim anındaki display name snapshot'ıdır — sonradan
// kullanıcının güncel ismiyle doğrulanmaz (denormalize).
type Message struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	UserName      string  `json:"userName"`
	Timestamp     int64   `json:"timestamp"`
	IsEncrypted   bool    `json:"isEncrypted"`
	Message       string  `json:"message"`
	EncryptedData *string `json:"encryptedData,omitempty"`
}

// SendMessageRequest, mesaj gönderme isteği.
type SendMessageRequest struct {
	ChatID        string `json:"chatId"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	Message       string `json:"message"`
	IsEncrypted   bool   `json:"isEncrypted"`
	EncryptedData string `json:"encryptedData"`
}

// Validate, zorunlu alanları kontrol eder.
// Plaintext boşluk kontrolü ve içerik filtresi service katmanındadır —
// sıralama (ban → chat → yetki → içerik) orada kurulur.
func (r *SendMessageRequest) Validate() error {
	if r.ChatID == "" || r.UserID == "" || r.UserName == "" {
		return fmt.Errorf("chatId, userId and userName are required")
	}
	return nil
}
