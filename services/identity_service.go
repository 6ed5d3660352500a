package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
	"github.com/TheExpert24/Enkryptonite/repository"
	"github.com/google/uuid"
)

// IdentityService, kayıt ve kimlik çözümleme.
//
// Auth modeli bilinçli olarak kriptografik DEĞİLDİR: display name +
// server üretimi secret word çiftiyle exact-match lookup. Session,
// token veya şifre yoktur. Secret word hiçbir response'a yazılmaz.
type IdentityService interface {
	// Register, kullanıcıyı kaydeder (upsert).
	//
	// req.UserID verilirse mevcut kullanıcı yeniden kayıt olur ve secret
	// word HER çağrıda yenilenir — eski credential'ı tutan client'lar
	// düşer. Bu davranış orijinalden korunmuştur (bkz. DESIGN.md).
	Register(ctx context.Context, req *models.RegisterRequest) (*models.PublicUser, error)

	// FindBySecret, sign-in lookup'ı. Eşleşme yoksa VEYA eşleşen
	// kullanıcı banlıysa ErrNotFound — iki durum caller'a ayırt
	// ettirilmez (enumeration koruması).
	FindBySecret(ctx context.Context, displayName, secretWord string) (*models.SignInUser, error)

	// GetProfile, herkese açık profil döner. BannedUntil sadece ban
	// aktifken doldurulur.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type identityService struct {
	userRepo repository.UserRepository
	banSvc   BanService
}

// NewIdentityService, constructor.
func NewIdentityService(userRepo repository.UserRepository, banSvc BanService) IdentityService {
	return &identityService{
		userRepo: userRepo,
		banSvc:   banSvc,
	}
}

func (s *identityService) Register(ctx context.Context, req *models.RegisterRequest) (*models.PublicUser, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	userID := req.UserID
	if userID == "" {
		userID = uuid.NewString()
	}

	if s.banSvc.IsBanned(ctx, userID) {
		return nil, fmt.Errorf("%w: user is banned", pkg.ErrForbidden)
	}

	secretWord, err := generateSecretWord()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret word: %w", err)
	}

	now := time.Now().UnixMilli()
	user := &models.User{
		UserID:      userID,
		DisplayName: req.DisplayName,
		SecretWord:  secretWord,
		ProfilePic:  req.ProfilePic,
		CreatedAt:   now,
		LastActive:  now,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	// Secret word response'a asla yazılmaz.
	return &models.PublicUser{
		UserID:      user.UserID,
		DisplayName: user.DisplayName,
		ProfilePic:  user.ProfilePic,
	}, nil
}

func (s *identityService) FindBySecret(ctx context.Context, displayName, secretWord string) (*models.SignInUser, error) {
	displayName = strings.TrimSpace(displayName)
	secretWord = strings.TrimSpace(secretWord)

	if displayName == "" || secretWord == "" {
		return nil, fmt.Errorf("%w: missing parameters", pkg.ErrBadRequest)
	}

	user, err := s.userRepo.GetByNameAndSecret(ctx, displayName, secretWord)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
		}
		return nil, err
	}

	// Banlı kullanıcı da "not found" — ban varlığı sızdırılmaz.
	if s.banSvc.IsBanned(ctx, user.UserID) {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}

	return &models.SignInUser{
		UserID: user.UserID,
		Name:   user.DisplayName,
	}, nil
}

func (s *identityService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:      user.UserID,
		DisplayName: user.DisplayName,
		ProfilePic:  user.ProfilePic,
		CreatedAt:   user.CreatedAt,
		LastActive:  user.LastActive,
	}

	// Sadece AKTİF ban dışarı görünür — süresi dolmuş/geçmiş ban bilgisi
	// profile'a yazılmaz.
	if user.BannedUntil != nil && *user.BannedUntil > time.Now().UnixMilli() {
		profile.BannedUntil = user.BannedUntil
	}

	return profile, nil
}

// generateSecretWord, server üretimi opak credential oluşturur.
// crypto/rand — tahmin edilemez, 32 hex karakter.
func generateSecretWord() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
