// Package main, Enkryptonite chat server'ının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//   1. Config'i yükle
//   2. Database'i başlat (embedded migration'lar ile)
//   3. Upload dizinini oluştur
//   4. Repository'leri oluştur (DB bağlantısı ile)
//   5. Service'leri oluştur (repository'ler ile)
//   6. Handler'ları oluştur (service'ler ile)
//   7. HTTP router'ı kur, route'ları bağla
//   8. CORS yapılandır
//   9. HTTP Server'ı başlat
//  10. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/TheExpert24/Enkryptonite/config"
	"github.com/TheExpert24/Enkryptonite/database"
	"github.com/TheExpert24/Enkryptonite/handlers"
	"github.com/TheExpert24/Enkryptonite/middleware"
	"github.com/TheExpert24/Enkryptonite/pkg/ratelimit"
	"github.com/TheExpert24/Enkryptonite/repository"
	"github.com/TheExpert24/Enkryptonite/services"
	"github.com/rs/cors"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] enkryptonite server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	// Migration'lar binary'ye gömülü — deploy'da ayrı dosya taşınmaz.
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to load embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Upload Dizini ───
	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		log.Fatalf("[main] failed to create upload directory: %v", err)
	}

	// ─── 4. Repository Layer ───
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	chatRepo := repository.NewSQLiteChatRepo(db.Conn)

	// ─── 5. Service Layer ───
	banService := services.NewBanService(userRepo)
	identityService := services.NewIdentityService(userRepo, banService)
	chatService := services.NewChatService(chatRepo, userRepo, banService)
	uploadService := services.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxSize)

	// Mesaj spam koruması — kullanıcı başına pencere + cooldown.
	messageLimiter := ratelimit.NewMessageRateLimiter(
		cfg.RateLimit.MaxMessages,
		cfg.RateLimit.Window,
		cfg.RateLimit.Cooldown,
	)

	// ─── 6. Handler Layer ───
	identityHandler := handlers.NewIdentityHandler(identityService, uploadService, cfg.Upload.MaxSize)
	chatHandler := handlers.NewChatHandler(chatService, messageLimiter)

	// ─── 7. HTTP Router ───
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"enkryptonite"}`)
	})

	// Identity — kayıt, sign-in lookup, profil
	mux.HandleFunc("POST /register-user", identityHandler.Register)
	mux.HandleFunc("GET /api/find-user", identityHandler.Find)
	mux.HandleFunc("GET /user/{userId}", identityHandler.Profile)
	mux.HandleFunc("POST /upload-profile-pic", identityHandler.UploadProfilePic)

	// Chats
	mux.HandleFunc("POST /create-chat", chatHandler.Create)
	mux.HandleFunc("GET /chat/{chatId}", chatHandler.Get)
	mux.HandleFunc("POST /send-message", chatHandler.Send)
	mux.HandleFunc("GET /api/all-chats", chatHandler.List)
	mux.HandleFunc("GET /api/search-chats", chatHandler.Search)
	mux.HandleFunc("GET /api/private-chat", chatHandler.PrivateChat)
	mux.HandleFunc("DELETE /api/chats/{chatId}", chatHandler.Delete)

	// Starred chats
	mux.HandleFunc("POST /api/user/{userId}/star", chatHandler.Star)
	mux.HandleFunc("POST /api/user/{userId}/unstar", chatHandler.Unstar)
	mux.HandleFunc("GET /api/user/{userId}/starred-chats", chatHandler.StarredChats)

	// Static file serving — yüklenen profil fotoğraflarına erişim
	//
	// http.FileServer zaten ".." path'lerini reddeder; ek güvenlik için
	// sadece düz dosya isimleri kabul edilir, subdirectory'ler reddedilir.
	uploadsHandler := http.StripPrefix("/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/") || strings.Contains(r.URL.Path, "\\") {
			http.NotFound(w, r)
			return
		}
		http.FileServer(http.Dir(cfg.Upload.Dir)).ServeHTTP(w, r)
	}))
	mux.Handle("GET /uploads/", uploadsHandler)

	// ─── 8. Middleware + CORS ───
	// Identity middleware tüm route'lara sarılır — viewer kimliği
	// opsiyoneldir, reddetmez, sadece context'e taşır.
	handler := middleware.Identity(mux)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID"},
		AllowCredentials: false,
		Debug:            false,
	})

	handler = corsHandler.Handler(handler)

	// ─── 9. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 10. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	messageLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
