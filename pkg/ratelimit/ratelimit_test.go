package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinWindow(t *testing.T) {
	rl := NewMessageRateLimiter(3, time.Second, time.Second)
	defer rl.Stop()

	assert.True(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u1"))
	// 4. mesaj limiti aşar → cooldown başlar
	assert.False(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"))
}

func TestUsersAreIndependent(t *testing.T) {
	rl := NewMessageRateLimiter(1, time.Second, time.Second)
	defer rl.Stop()

	assert.True(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"))
	// u1'in cooldown'u u2'yi etkilemez
	assert.True(t, rl.Allow("u2"))
}

func TestCooldownExpires(t *testing.T) {
	rl := NewMessageRateLimiter(1, 10*time.Millisecond, 50*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"))

	time.Sleep(60 * time.Millisecond)

	// Cooldown bitti — yeni pencere açılır
	assert.True(t, rl.Allow("u1"))
}

func TestWindowResets(t *testing.T) {
	rl := NewMessageRateLimiter(2, 20*time.Millisecond, time.Second)
	defer rl.Stop()

	assert.True(t, rl.Allow("u1"))
	time.Sleep(30 * time.Millisecond)

	// Pencere doldu, sayaç sıfırlandı — limit hiç aşılmadı
	assert.True(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u1"))
}

func TestRetryAfterSeconds(t *testing.T) {
	rl := NewMessageRateLimiter(1, time.Second, 10*time.Second)
	defer rl.Stop()

	// Cooldown yokken 0
	assert.Equal(t, 0, rl.RetryAfterSeconds("u1"))

	rl.Allow("u1")
	rl.Allow("u1") // limit aşıldı

	retry := rl.RetryAfterSeconds("u1")
	assert.Greater(t, retry, 0)
	assert.LessOrEqual(t, retry, 11)
}

func TestExtractIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:12345"
	assert.Equal(t, "10.0.0.1", ExtractIP(r))

	// X-Forwarded-For öncelikli, ilk IP alınır
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", ExtractIP(r))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ExtractIP(r))
}
