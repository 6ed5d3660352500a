// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Service katmanı bu sabit error'ları döner (gerekirse fmt.Errorf ile
// "%w" kullanarak detay ekler), handler katmanı errors.Is() ile
// karşılaştırıp HTTP status code'a çevirir.
package pkg

import "errors"

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler:
// 400 / 401 / 403 / 404 — geri kalan her şey 500.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)
