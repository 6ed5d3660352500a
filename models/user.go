// Package models, uygulamanın domain modellerini tanımlar.
//
// Tüm zaman damgaları epoch millisecond (int64) olarak tutulur —
// client tarafı Date.now() ile aynı formatta çalışır.
package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// reservedNames, kayıt sırasında reddedilen display name'ler (case-insensitive).
var reservedNames = map[string]bool{
	"admin":         true,
	"moderator":     true,
	"support":       true,
	"administrator": true,
	"mod":           true,
	"help":          true,
	"system":        true,
}

// User, kayıtlı bir kullanıcıyı temsil eder.
//
// SecretWord tek kimlik doğrulama faktörüdür: server tarafından üretilir,
// oluşturulduktan sonra değişmez (re-register hariç) ve HİÇBİR response'a
// dahil edilmez — json:"-" bunu garanti eder. Handler'lar zaten User yerine
// PublicUser/Profile view'ları döner.
type User struct {
	UserID       string   `json:"userId"`
	DisplayName  string   `json:"displayName"`
	SecretWord   string   `json:"-"`
	ProfilePic   *string  `json:"profilePic"`
	CreatedAt    int64    `json:"createdAt"`
	LastActive   int64    `json:"lastActive"`
	StarredChats []string `json:"starredChats,omitempty"`

	// Ban alanları — aktif ban yoksa nil.
	// Ban aktiftir ancak ve ancak BannedUntil != nil && *BannedUntil > now.
	// Süresi dolan ban alanları bir sonraki kontrolde lazy olarak temizlenir.
	BannedUntil *int64  `json:"bannedUntil,omitempty"`
	BanReason   *string `json:"-"`
	LastBanDate *int64  `json:"-"`
}

// PublicUser, register sonrası dönen güvenli kullanıcı görünümü.
type PublicUser struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	ProfilePic  *string `json:"profilePic"`
}

// SignInUser, find-user (sign-in) sonrası dönen minimal görünüm.
type SignInUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Profile, herkese açık profil görünümü.
// BannedUntil sadece ban AKTİFKEN doldurulur — geçmiş/süresi dolmuş
// ban bilgisi asla dışarı sızmaz.
type Profile struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	ProfilePic  *string `json:"profilePic"`
	CreatedAt   int64   `json:"createdAt"`
	LastActive  int64   `json:"lastActive"`
	BannedUntil *int64  `json:"bannedUntil,omitempty"`
}

// RegisterRequest, kayıt isteği.
// UserID opsiyoneldir — verilirse mevcut kullanıcı yeniden kayıt olur
// (secret word her çağrıda yenilenir).
type RegisterRequest struct {
	DisplayName string  `json:"displayName"`
	UserID      string  `json:"userId"`
	ProfilePic  *string `json:"profilePic"`
}

// Validate, display name kurallarını kontrol eder:
// trim sonrası 2-32 karakter, rezerve isimler reddedilir.
func (r *RegisterRequest) Validate() error {
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	nameLen := utf8.RuneCountInString(r.DisplayName)
	if nameLen < 2 {
		return fmt.Errorf("display name must be at least 2 characters")
	}
	if nameLen > 32 {
		return fmt.Errorf("display name must be 32 characters or less")
	}

	if reservedNames[strings.ToLower(r.DisplayName)] {
		return fmt.Errorf("this display name is reserved")
	}

	return nil
}
