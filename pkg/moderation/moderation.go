// Package moderation — plaintext mesajlar için pattern bazlı içerik filtresi.
//
// Filtre kategorileri sabittir: küfür, intihar/kendine zarar teşviki,
// nefret söylemi, cinsel şiddet, çocuk istismarı, terör tehdidi, doxxing.
// Herhangi bir kategori eşleşirse mesaj reddedilir; eşleşme yoksa
// varsayılan davranış İZİN VERMEKTİR (default-allow).
//
// Deterministik ve yan etkisizdir. Şifreli mesajlar bu filtreden GEÇMEZ —
// server ciphertext'i inceleyemez (ChatService'te encrypted path
// filtreyi atlar).
//
// pkg/moderation hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package moderation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// inappropriatePatterns, yasaklı içerik kategorileri.
// Word-boundary (\b) ve case-insensitive ((?i)) — "class" kelimesindeki
// "ass" gibi substring'ler eşleşmez.
var inappropriatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(fuck|shit|damn|bitch|asshole|bastard)\b`),         // küfür
	regexp.MustCompile(`(?i)\b(kill\s+yourself|kys)\b`),                          // intihara teşvik
	regexp.MustCompile(`(?i)\b(suicide|self\s*harm)\b`),                          // intihar / kendine zarar
	regexp.MustCompile(`(?i)\b(nazi|hitler|holocaust\s+denial)\b`),               // nefret söylemi
	regexp.MustCompile(`(?i)\b(rape|sexual\s+assault)\b`),                        // cinsel şiddet
	regexp.MustCompile(`(?i)\b(child\s+porn|cp)\b`),                              // çocuk istismarı
	regexp.MustCompile(`(?i)\b(terrorist|bomb\s+threat)\b`),                      // terör tehdidi
	regexp.MustCompile(`(?i)\b(doxx|dox)\b`),                                     // doxxing
}

// allowedPhrases, gündelik konuşma kalıpları.
// Not: default-allow zaten geçerli olduğu için bu liste sonucu
// DEĞİŞTİRMEZ — sadece erken çıkış sağlayan bir fast-path'tir.
var allowedPhrases = []string{
	"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
	"how are you", "whats up", "thank you", "thanks", "please", "sorry",
	"yes", "no", "ok", "okay", "sure", "maybe", "probably", "definitely",
}

// IsAppropriate, metnin içerik politikasına uygun olup olmadığını döner.
// true = izin verildi.
//
// Kurallar:
//   - Boş metin izinlidir.
//   - Trim sonrası 3 karakter ve altı koşulsuz izinlidir.
//   - Yasaklı kategorilerden biri eşleşirse reddedilir.
//   - Aksi halde izin verilir.
func IsAppropriate(text string) bool {
	if text == "" {
		return true
	}

	lower := strings.ToLower(strings.TrimSpace(text))

	// Çok kısa mesajlar filtrelenmez
	if utf8.RuneCountInString(lower) <= 3 {
		return true
	}

	for _, pattern := range inappropriatePatterns {
		if pattern.MatchString(lower) {
			return false
		}
	}

	// Gündelik kalıplar — fast-path, sonucu değiştirmez
	for _, phrase := range allowedPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return true
}
