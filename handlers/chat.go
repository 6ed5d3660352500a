package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
	"github.com/TheExpert24/Enkryptonite/pkg/ratelimit"
	"github.com/TheExpert24/Enkryptonite/services"
)

// ChatHandler, chat endpoint'leri.
// messageLimiter nil ise mesaj rate limiting devre dışı kalır.
type ChatHandler struct {
	chatSvc        services.ChatService
	messageLimiter *ratelimit.MessageRateLimiter
}

// NewChatHandler, constructor.
func NewChatHandler(chatSvc services.ChatService, messageLimiter *ratelimit.MessageRateLimiter) *ChatHandler {
	return &ChatHandler{
		chatSvc:        chatSvc,
		messageLimiter: messageLimiter,
	}
}

// Create godoc
// POST /create-chat
// Body: {name, creatorId, isPrivate, members}
// X-User-ID header varsa creatorId'yi override eder.
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChatRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if viewer := ViewerID(r); viewer != "" {
		req.CreatorID = viewer
	}

	chat, err := h.chatSvc.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, chat)
}

// Get godoc
// GET /chat/{chatId}
// Viewer kimliği X-User-ID header veya ?userId= ile gelir (opsiyonel).
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chatId")

	chat, err := h.chatSvc.Get(r.Context(), chatID, ViewerID(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, chat)
}

// Send godoc
// POST /send-message
// Body: {chatId, userId, userName, message?, isEncrypted?, encryptedData?}
//
// Rate limiting kullanıcı bazlıdır: pencere aşılırsa 429 + Retry-After.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Limit anahtarı userID; gövdede yoksa client IP'ye düşer.
	limitKey := req.UserID
	if limitKey == "" {
		limitKey = ratelimit.ExtractIP(r)
	}
	if h.messageLimiter != nil && !h.messageLimiter.Allow(limitKey) {
		retryAfter := h.messageLimiter.RetryAfterSeconds(limitKey)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests, "too many messages, slow down")
		return
	}

	messageID, err := h.chatSvc.SendMessage(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"messageId": messageID})
}

// List godoc
// GET /api/all-chats?page=1&limit=10
// Viewer verilmişse kendi private chat'leri de listeye girer.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.chatSvc.List(r.Context(), page, limit, ViewerID(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Search godoc
// GET /api/search-chats?q=...
func (h *ChatHandler) Search(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, chats)
}

// PrivateChat godoc
// GET /api/private-chat?user1=...&user2=...
// Mevcut private chat'i arar; yoksa 404 — oluşturmaz.
func (h *ChatHandler) PrivateChat(w http.ResponseWriter, r *http.Request) {
	user1 := r.URL.Query().Get("user1")
	user2 := r.URL.Query().Get("user2")

	chatID, err := h.chatSvc.FindPrivateChat(r.Context(), user1, user2)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"chatId": chatID})
}

// Delete godoc
// DELETE /api/chats/{chatId}?userId=...
// Sadece creator silebilir.
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chatId")

	if err := h.chatSvc.Delete(r.Context(), chatID, ViewerID(r)); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// starRequest, star/unstar body'si.
type starRequest struct {
	ChatID string `json:"chatId"`
}

// Star godoc
// POST /api/user/{userId}/star
// Body: {chatId} — idempotent set-add.
func (h *ChatHandler) Star(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var req starRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.chatSvc.Star(r.Context(), userID, req.ChatID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"starred": true})
}

// Unstar godoc
// POST /api/user/{userId}/unstar
// Body: {chatId} — yıldız yoksa no-op.
func (h *ChatHandler) Unstar(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var req starRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.chatSvc.Unstar(r.Context(), userID, req.ChatID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"starred": false})
}

// StarredChats godoc
// GET /api/user/{userId}/starred-chats
func (h *ChatHandler) StarredChats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	chats, err := h.chatSvc.ListStarred(r.Context(), userID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, chats)
}
