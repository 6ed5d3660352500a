// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
package middleware

import (
	"context"
	"net/http"

	"github.com/TheExpert24/Enkryptonite/handlers"
)

// Identity, isteği yapan kullanıcının kimliğini çıkaran middleware.
//
// Bu OPSİYONEL bir kimliktir — token/session yoktur (bilinçli tasarım:
// auth modeli display name + secret word lookup'ından ibaret). Viewer
// kimliği sadece görünürlük filtresi ve yetki kontrolü için taşınır;
// yoksa istek anonim olarak devam eder, asla burada reddedilmez.
//
// Öncelik: X-User-ID header > userId query parametresi.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer := r.Header.Get("X-User-ID")
		if viewer == "" {
			viewer = r.URL.Query().Get("userId")
		}

		ctx := context.WithValue(r.Context(), handlers.ViewerContextKey, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
