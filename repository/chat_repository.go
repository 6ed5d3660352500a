package repository

import (
	"context"

	"github.com/TheExpert24/Enkryptonite/models"
)

// ChatRepository, chat store işlemleri.
//
// Liste sorguları (ListVisible, SearchPublic, GetManyByIDs) mesaj
// gövdelerini YÜKLEMEZ — mesajlar sadece GetByID ile gelir.
// Üye listeleri her sonuçta yüklüdür.
type ChatRepository interface {
	Insert(ctx context.Context, chat *models.Chat) error

	// GetByID, chat'i üyeleri ve mesaj dizisiyle (seq sıralı) yükler.
	GetByID(ctx context.Context, id string) (*models.Chat, error)

	// Delete, chat'i tamamen siler; mesajlar ve üyelik cascade ile gider
	// (arşivleme yok).
	Delete(ctx context.Context, id string) error

	// AppendMessage, mesajı ekler ve chat'in last_activity değerini
	// aynı transaction içinde günceller.
	AppendMessage(ctx context.Context, chatID string, msg *models.Message, lastActivity int64) error

	// ListVisible, görünürlük filtresiyle sayfalı liste döner:
	// public OLANLAR veya (userID boş değilse) kullanıcının creator ya da
	// member olduğu private chat'ler. En yeni oluşturulan önce.
	// Caller hasMore hesabı için limit+1 ister (one-ahead fetch).
	ListVisible(ctx context.Context, userID string, offset, limit int) ([]models.Chat, error)

	// SearchPublic, sadece public chat'lerde case-insensitive substring
	// isim araması yapar. En yeni önce.
	SearchPublic(ctx context.Context, query string, limit int) ([]models.Chat, error)

	// FindPrivateBetween, biri creator diğeri member olacak şekilde
	// (iki yön de denenir) iki kullanıcı arasındaki private chat'i arar.
	// Bulunamazsa pkg.ErrNotFound.
	FindPrivateBetween(ctx context.Context, user1, user2 string) (*models.Chat, error)

	// GetManyByIDs, id listesindeki chat'leri döner (starred listesi için).
	// Eksik id'ler sessizce atlanır.
	GetManyByIDs(ctx context.Context, ids []string) ([]models.Chat, error)
}
