// Package services, business logic katmanını barındırır.
//
// Service, handler (HTTP) ile repository (DB) arasında oturur:
// tüm iş kuralları (yetki, ban, içerik filtresi) burada yaşar.
// Service http.Request/Response bilmez, doğrudan SQL çalıştırmaz.
package services

import (
	"context"
	"log"
	"time"

	"github.com/TheExpert24/Enkryptonite/repository"
)

// BanStatus, bir kullanıcının ban durumunu temsil eder.
//
// Üç durumlu dönüş, "okuma sırasında gizli mutasyon" yerine temizliği
// çağrı noktasında görünür kılar: CheckStatus saf bir okumadır,
// BanExpired dönerse caller ClearExpired ile alanları temizler.
type BanStatus int

const (
	// BanNone — ban alanları yok.
	BanNone BanStatus = iota
	// BanActive — banned_until gelecekte, kullanıcı banlı.
	BanActive
	// BanExpired — banned_until geçmişte, alanlar henüz temizlenmemiş.
	BanExpired
)

// DefaultBanDuration, içerik ihlalinde uygulanan varsayılan ban süresi.
const DefaultBanDuration = 24 * time.Hour

// BanService, kullanıcı ban defteri.
//
// Expiry lazy'dir: süresi dolan ban bir sonraki kontrole kadar store'da
// kalır; background sweep ve unban bildirimi yoktur.
type BanService interface {
	// CheckStatus, ban durumunu okur — yan etkisizdir.
	// Kullanıcı yoksa BanNone döner.
	CheckStatus(ctx context.Context, userID string) (BanStatus, error)

	// ClearExpired, süresi dolmuş ban alanlarını store'dan siler.
	ClearExpired(ctx context.Context, userID string) error

	// IsBanned, mutasyon yapan operasyonların kullandığı kısayol:
	// CheckStatus + (gerekirse) ClearExpired.
	//
	// Store hatasında FALSE döner (fail-open) — erişilebilirlik, katı
	// enforcement'a tercih edilir; hata log'lanır. Bu bilinçli bir
	// tradeoff'tur, değiştirmeden önce iki kez düşünün.
	IsBanned(ctx context.Context, userID string) bool

	// Ban, kullanıcıyı duration süresince banlar.
	// Pencere çağrı anından itibaren yeniden kurulur (overwrite) —
	// tekrarlanan çağrılar süreyi biriktirmez, sıfırlar.
	Ban(ctx context.Context, userID, reason string, duration time.Duration) error
}

type banService struct {
	userRepo repository.UserRepository
}

// NewBanService, constructor.
func NewBanService(userRepo repository.UserRepository) BanService {
	return &banService{userRepo: userRepo}
}

func (s *banService) CheckStatus(ctx context.Context, userID string) (BanStatus, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		// ErrNotFound dahil — kayıtsız kullanıcı banlı değildir.
		return BanNone, err
	}

	if user.BannedUntil == nil {
		return BanNone, nil
	}

	if *user.BannedUntil > time.Now().UnixMilli() {
		return BanActive, nil
	}

	return BanExpired, nil
}

func (s *banService) ClearExpired(ctx context.Context, userID string) error {
	return s.userRepo.ClearBan(ctx, userID)
}

func (s *banService) IsBanned(ctx context.Context, userID string) bool {
	status, err := s.CheckStatus(ctx, userID)
	if err != nil {
		// Fail-open: lookup hatası "banlı değil" sayılır.
		log.Printf("[ban] failed to check ban status for user %s: %v", userID, err)
		return false
	}

	if status == BanExpired {
		if err := s.ClearExpired(ctx, userID); err != nil {
			log.Printf("[ban] failed to clear expired ban for user %s: %v", userID, err)
		}
	}

	return status == BanActive
}

func (s *banService) Ban(ctx context.Context, userID, reason string, duration time.Duration) error {
	now := time.Now()
	bannedUntil := now.Add(duration).UnixMilli()

	if err := s.userRepo.SetBan(ctx, userID, bannedUntil, reason, now.UnixMilli()); err != nil {
		return err
	}

	log.Printf("[ban] user %s banned until %s (%s)", userID, time.UnixMilli(bannedUntil).Format(time.RFC3339), reason)
	return nil
}
