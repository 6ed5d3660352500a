package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/TheExpert24/Enkryptonite/pkg"
)

// UploadService, profil fotoğrafı yükleme.
// Sadece image/* MIME type kabul edilir, max boyut config'ten gelir (5MB).
// Başarıda servis edilen URL döner; dosya içeriği başka hiçbir yerde
// işlenmez — upload bir kara kutudur.
type UploadService interface {
	SaveProfilePic(file multipart.File, header *multipart.FileHeader) (string, error)
}

type uploadService struct {
	uploadDir string
	maxSize   int64
}

// NewUploadService, constructor.
func NewUploadService(uploadDir string, maxSize int64) UploadService {
	return &uploadService{
		uploadDir: uploadDir,
		maxSize:   maxSize,
	}
}

func (s *uploadService) SaveProfilePic(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxSize {
		return "", fmt.Errorf("%w: file too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	contentType := header.Header.Get("Content-Type")
	mimeBase := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if !strings.HasPrefix(mimeBase, "image/") {
		return "", fmt.Errorf("%w: only image files are allowed", pkg.ErrBadRequest)
	}

	// Çakışma ve path traversal'a karşı: {random_hex}_{safe_name}
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random filename: %w", err)
	}
	diskFilename := "profile-" + hex.EncodeToString(randomBytes) + "_" + sanitizeFilename(header.Filename)

	destPath := filepath.Join(s.uploadDir, diskFilename)
	destFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/uploads/" + diskFilename, nil
}

// sanitizeFilename, dizin bileşenlerini ve tehlikeli karakterleri atar.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '\x00' {
			return -1
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." {
		name = "unnamed"
	}

	return name
}
