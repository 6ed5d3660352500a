// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz — repository interface'i üzerinden
// çalışır. Test'lerde interface'in in-memory fake implementasyonları
// kullanılır, prod'da SQLite implementasyonu bağlanır.
package repository

import (
	"context"

	"github.com/TheExpert24/Enkryptonite/models"
)

// UserRepository, kullanıcı store işlemleri.
//
// Store hataları olduğu gibi (wrap'lenmiş) döner; HTTP status'a çevirme
// handler katmanının işidir. Kayıt bulunamadığında pkg.ErrNotFound döner.
type UserRepository interface {
	// GetByID, kullanıcıyı starred chat id'leriyle birlikte yükler.
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// GetByNameAndSecret, sign-in için exact-match pair lookup yapar.
	// Display name uniqueness tasarım gereği zorlanmaz — aynı isimli
	// birden fazla kullanıcı olabilir, secret word ayırt eder.
	GetByNameAndSecret(ctx context.Context, displayName, secretWord string) (*models.User, error)

	// Upsert, kayıt alan setini (display_name, secret_word, profile_pic,
	// created_at, last_active) tam olarak değiştirir. Ban alanlarına dokunmaz.
	Upsert(ctx context.Context, user *models.User) error

	// SetBan, ban penceresini çağrı anından itibaren yeniden kurar
	// (overwrite — kümülatif değil). Kullanıcı yoksa no-op.
	SetBan(ctx context.Context, userID string, bannedUntil int64, reason string, lastBanDate int64) error

	// ClearBan, banned_until ve ban_reason alanlarını temizler.
	// last_ban_date tarihçe olarak kalır.
	ClearBan(ctx context.Context, userID string) error

	// TouchLastActive, son aktiflik zamanını günceller.
	TouchLastActive(ctx context.Context, userID string, ts int64) error

	// StarChat, set-add semantiğiyle chat yıldızlar (idempotent).
	// Kullanıcı satırı yoksa minimal bir satır upsert edilir.
	StarChat(ctx context.Context, userID, chatID string, now int64) error

	// UnstarChat, set-remove. Yıldız yoksa no-op.
	UnstarChat(ctx context.Context, userID, chatID string) error
}
