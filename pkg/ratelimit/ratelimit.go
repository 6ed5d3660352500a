// Package ratelimit — MessageRateLimiter: mesaj spam koruması için
// kullanıcı bazlı rate limiting.
//
// Tasarım:
// - Her userID için window içinde gönderilen mesaj sayısı takip edilir.
// - Limit aşıldığında cooldown başlar; cooldown bitene kadar tüm
//   mesajlar reddedilir.
// - Cooldown bitince pencere sıfırlanır.
//
// Neden in-memory?
// Tek instance deploy — SQLite'a her mesajda sayaç yazmak gereksiz I/O
// yaratır. sync.RWMutex ile thread-safe.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket, bir kullanıcı için mesaj sayacı ve cooldown bilgisi tutar.
type bucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time // zero value = cooldown yok
}

// MessageRateLimiter, kullanıcı bazlı mesaj spam koruması.
//
// Kullanım:
//
//	limiter := NewMessageRateLimiter(5, 5*time.Second, 15*time.Second)
//	if !limiter.Allow(userID) { return 429 }
type MessageRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxMessages int
	window      time.Duration
	cooldown    time.Duration
	stopCleanup chan struct{}
}

// NewMessageRateLimiter, yeni limiter oluşturur ve arka plan temizleme
// goroutine'ini başlatır.
//
// maxMessages: Pencere başına izin verilen mesaj sayısı (ör: 5).
// window: Pencere süresi (ör: 5*time.Second).
// cooldown: Limit aşıldığında bekleme süresi (ör: 15*time.Second).
func NewMessageRateLimiter(maxMessages int, window, cooldown time.Duration) *MessageRateLimiter {
	rl := &MessageRateLimiter{
		buckets:     make(map[string]*bucket),
		maxMessages: maxMessages,
		window:      window,
		cooldown:    cooldown,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow, kullanıcının mesaj göndermesine izin verilip verilmediğini kontrol eder.
// false dönerse caller 429 dönmeli.
//
// Akış:
// 1. Cooldown'daysa → reject.
// 2. Cooldown bittiyse veya window dolmuşsa → yeni pencere başlat.
// 3. Window içindeyse → sayaç artır, limit aşıldıysa cooldown başlat.
func (rl *MessageRateLimiter) Allow(userID string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[userID]
	if !exists {
		rl.buckets[userID] = &bucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() {
		if now.Before(b.cooldownUntil) {
			return false
		}
		// Cooldown bitti — yeni pencere
		b.count = 1
		b.windowStart = now
		b.cooldownUntil = time.Time{}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxMessages {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}

	return true
}

// RetryAfterSeconds, kalan cooldown süresini saniye cinsinden döner.
// HTTP Retry-After header değeri olarak kullanılır. Cooldown yoksa 0.
func (rl *MessageRateLimiter) RetryAfterSeconds(userID string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[userID]
	if !exists || b.cooldownUntil.IsZero() {
		return 0
	}

	remaining := time.Until(b.cooldownUntil)
	if remaining <= 0 {
		return 0
	}

	// +1 yuvarlama — client'ın tam süreyi beklemesi için
	return int(remaining.Seconds()) + 1
}

// Stop, arka plan temizleme goroutine'ini durdurur (graceful shutdown).
func (rl *MessageRateLimiter) Stop() {
	close(rl.stopCleanup)
}

// cleanupLoop, her 30 saniyede bir süresi dolmuş bucket'ları siler.
// Bucket'lar kısa ömürlü ama çok kullanıcıda bellek birikmesini önler.
func (rl *MessageRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup, window'u geçmiş ve cooldown'u bitmiş tüm bucket'ları siler.
func (rl *MessageRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, b := range rl.buckets {
		windowExpired := now.Sub(b.windowStart) > rl.window
		cooldownExpired := b.cooldownUntil.IsZero() || now.After(b.cooldownUntil)

		if windowExpired && cooldownExpired {
			delete(rl.buckets, userID)
		}
	}
}

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
// Reverse proxy arkasında X-Forwarded-For / X-Real-IP öncelikli.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
