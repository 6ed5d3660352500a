// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/enkryptonite.db)
}

// UploadConfig, profil fotoğrafı yükleme ayarları.
type UploadConfig struct {
	Dir     string // Dosyaların kaydedileceği dizin
	MaxSize int64  // Byte cinsinden max dosya boyutu (varsayılan: 5MB)
}

// RateLimitConfig, mesaj gönderme rate limit ayarları.
type RateLimitConfig struct {
	MaxMessages int           // Window başına izin verilen mesaj sayısı
	Window      time.Duration // Sayaç penceresi
	Cooldown    time.Duration // Limit aşıldığında uygulanan ceza süresi
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler; yoksa sessizce devam eder.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxSize, err := strconv.ParseInt(getEnv("UPLOAD_MAX_SIZE", "5242880"), 10, 64) // 5MB
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}

	maxMessages, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX_MESSAGES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX_MESSAGES: %w", err)
	}

	windowSec, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW_SECONDS: %w", err)
	}

	cooldownSec, err := strconv.Atoi(getEnv("RATE_LIMIT_COOLDOWN_SECONDS", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_COOLDOWN_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/enkryptonite.db"),
		},
		Upload: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "./data/uploads"),
			MaxSize: maxSize,
		},
		RateLimit: RateLimitConfig{
			MaxMessages: maxMessages,
			Window:      time.Duration(windowSec) * time.Second,
			Cooldown:    time.Duration(cooldownSec) * time.Second,
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:3000").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
