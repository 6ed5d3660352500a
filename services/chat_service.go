package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
	"github.com/TheExpert24/Enkryptonite/pkg/moderation"
	"github.com/TheExpert24/Enkryptonite/repository"
	"github.com/google/uuid"
)

// Liste ve arama limitleri.
const (
	defaultListLimit  = 10
	searchResultLimit = 50
)

// ChatService, chat mutasyon motoru.
//
// Her mutasyon aynı sırayla ilerler: kimlik/ban durumu → yetki →
// (mesajlar için) içerik filtresi → store mutasyonu. Kontroller
// advisory'dir (oku-sonra-yaz): iki eşzamanlı SendMessage aynı anda
// CanWrite'tan geçebilir — append'ler commutative olduğu için güvenlidir.
type ChatService interface {
	Create(ctx context.Context, req *models.CreateChatRequest) (*models.Chat, error)

	// Get, chat'i viewer yetkisiyle döner: private chat'te viewer boşsa
	// ErrUnauthorized, okuma yetkisi yoksa ErrForbidden.
	Get(ctx context.Context, chatID, viewerID string) (*models.Chat, error)

	// SendMessage, mesajı ekler ve messageId döner.
	//
	// Plaintext path içerik filtresinden geçer; ihlalde gönderen
	// SENKRON olarak banlanır (24h) ve istek reddedilir — tek bir
	// işaretli mesaj, uyarı/itiraz adımı olmadan ban üretir.
	// Encrypted path filtreye GİRMEZ: server ciphertext'i inceleyemez.
	SendMessage(ctx context.Context, req *models.SendMessageRequest) (string, error)

	// Delete, chat'i sadece creator için siler (arşivleme yok).
	Delete(ctx context.Context, chatID, userID string) error

	// Star / Unstar — idempotent set-add / set-remove.
	Star(ctx context.Context, userID, chatID string) error
	Unstar(ctx context.Context, userID, chatID string) error
	ListStarred(ctx context.Context, userID string) ([]models.Chat, error)

	// List, public chat'leri + (viewer verilmişse) viewer'ın private
	// chat'lerini sayfalı döner. hasMore, count sorgusu yerine limit+1
	// fetch ile hesaplanır.
	List(ctx context.Context, page, limit int, viewerID string) (*models.ChatPage, error)

	// Search, sadece public chat'lerde isim araması (max 50 sonuç).
	Search(ctx context.Context, query string) ([]models.Chat, error)

	// FindPrivateChat, iki kullanıcı arasındaki mevcut private chat'in
	// id'sini döner — YOKSA OLUŞTURMAZ, ErrNotFound döner.
	FindPrivateChat(ctx context.Context, user1, user2 string) (string, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	banSvc   BanService
}

// NewChatService, constructor.
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, banSvc BanService) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		banSvc:   banSvc,
	}
}

func (s *chatService) Create(ctx context.Context, req *models.CreateChatRequest) (*models.Chat, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if s.banSvc.IsBanned(ctx, req.CreatorID) {
		return nil, fmt.Errorf("%w: user is banned", pkg.ErrForbidden)
	}

	// Private chat'te üyeler verbatim saklanır (dedup/cap yok).
	// Public chat'te members daima boştur.
	members := []string{}
	if req.IsPrivate && req.Members != nil {
		members = req.Members
	}

	now := time.Now().UnixMilli()
	chat := &models.Chat{
		ID:           uuid.NewString(),
		Name:         req.Name,
		CreatorID:    req.CreatorID,
		IsPrivate:    req.IsPrivate,
		Members:      members,
		Messages:     []models.Message{},
		CreatedAt:    now,
		LastActivity: now,
	}

	if err := s.chatRepo.Insert(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

func (s *chatService) Get(ctx context.Context, chatID, viewerID string) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if chat.IsPrivate && viewerID == "" {
		return nil, fmt.Errorf("%w: authentication required", pkg.ErrUnauthorized)
	}

	if !chat.CanRead(viewerID) {
		return nil, fmt.Errorf("%w: access denied", pkg.ErrForbidden)
	}

	return chat, nil
}

func (s *chatService) SendMessage(ctx context.Context, req *models.SendMessageRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if s.banSvc.IsBanned(ctx, req.UserID) {
		return "", fmt.Errorf("%w: user is banned", pkg.ErrForbidden)
	}

	chat, err := s.chatRepo.GetByID(ctx, req.ChatID)
	if err != nil {
		return "", err
	}

	if !chat.CanWrite(req.UserID) {
		return "", fmt.Errorf("%w: access denied", pkg.ErrForbidden)
	}

	msg := &models.Message{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		UserName:    req.UserName,
		Timestamp:   time.Now().UnixMilli(),
		IsEncrypted: req.IsEncrypted,
	}

	if req.IsEncrypted && req.EncryptedData != "" {
		// Encrypted path: içerik opak saklanır, filtre ÇALIŞMAZ.
		// Message alanına sabit placeholder yazılır.
		encrypted := req.EncryptedData
		msg.EncryptedData = &encrypted
		msg.Message = models.EncryptedPlaceholder
	} else {
		// Plaintext path.
		text := strings.TrimSpace(req.Message)
		if text == "" {
			return "", fmt.Errorf("%w: message cannot be empty", pkg.ErrBadRequest)
		}

		if !moderation.IsAppropriate(text) {
			// İhlal → gönderen anında banlanır, mesaj reddedilir.
			if banErr := s.banSvc.Ban(ctx, req.UserID, "Inappropriate content", DefaultBanDuration); banErr != nil {
				log.Printf("[chat] failed to ban user %s after content violation: %v", req.UserID, banErr)
			}
			return "", fmt.Errorf("%w: message contains inappropriate content, user has been banned", pkg.ErrForbidden)
		}

		msg.IsEncrypted = false
		msg.Message = text
	}

	now := time.Now().UnixMilli()
	if err := s.chatRepo.AppendMessage(ctx, chat.ID, msg, now); err != nil {
		return "", err
	}

	if err := s.userRepo.TouchLastActive(ctx, req.UserID, now); err != nil {
		return "", err
	}

	return msg.ID, nil
}

func (s *chatService) Delete(ctx context.Context, chatID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: authentication required", pkg.ErrUnauthorized)
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}

	if !chat.CanDelete(userID) {
		return fmt.Errorf("%w: only the creator can delete this chat", pkg.ErrForbidden)
	}

	return s.chatRepo.Delete(ctx, chatID)
}

func (s *chatService) Star(ctx context.Context, userID, chatID string) error {
	if userID == "" || chatID == "" {
		return fmt.Errorf("%w: user id and chat id are required", pkg.ErrBadRequest)
	}

	return s.userRepo.StarChat(ctx, userID, chatID, time.Now().UnixMilli())
}

func (s *chatService) Unstar(ctx context.Context, userID, chatID string) error {
	if userID == "" || chatID == "" {
		return fmt.Errorf("%w: user id and chat id are required", pkg.ErrBadRequest)
	}

	return s.userRepo.UnstarChat(ctx, userID, chatID)
}

func (s *chatService) ListStarred(ctx context.Context, userID string) ([]models.Chat, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.chatRepo.GetManyByIDs(ctx, user.StarredChats)
}

func (s *chatService) List(ctx context.Context, page, limit int, viewerID string) (*models.ChatPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListLimit
	}

	offset := (page - 1) * limit

	// One-ahead fetch: limit+1 satır istenir; fazlası geldiyse hasMore=true
	// ve fazla satır atılır. Count sorgusuna gerek kalmaz.
	chats, err := s.chatRepo.ListVisible(ctx, viewerID, offset, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(chats) > limit
	if hasMore {
		chats = chats[:limit]
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	return &models.ChatPage{Chats: chats, HasMore: hasMore}, nil
}

func (s *chatService) Search(ctx context.Context, query string) ([]models.Chat, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query required", pkg.ErrBadRequest)
	}

	chats, err := s.chatRepo.SearchPublic(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	return chats, nil
}

func (s *chatService) FindPrivateChat(ctx context.Context, user1, user2 string) (string, error) {
	if user1 == "" || user2 == "" {
		return "", fmt.Errorf("%w: both user ids are required", pkg.ErrBadRequest)
	}

	if s.banSvc.IsBanned(ctx, user1) || s.banSvc.IsBanned(ctx, user2) {
		return "", fmt.Errorf("%w: one or more users are banned", pkg.ErrForbidden)
	}

	chat, err := s.chatRepo.FindPrivateBetween(ctx, user1, user2)
	if err != nil {
		return "", err
	}

	return chat.ID, nil
}
