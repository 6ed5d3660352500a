// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'lar "ince"dir: body'yi parse et → service'i çağır → sonucu
// pkg.JSON/pkg.Error ile yaz. İş mantığı ve DB erişimi service'tedir.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/TheExpert24/Enkryptonite/models"
	"github.com/TheExpert24/Enkryptonite/pkg"
	"github.com/TheExpert24/Enkryptonite/services"
)

// contextKey, context.Value çakışmalarını önleyen özel tip.
type contextKey string

// ViewerContextKey, isteği yapan kullanıcının (opsiyonel) kimliğini taşır.
// middleware.Identity tarafından X-User-ID header'ından veya userId query
// parametresinden doldurulur. Boş string = anonim.
const ViewerContextKey contextKey = "viewer"

// ViewerID, context'teki viewer kimliğini döner (yoksa boş string).
func ViewerID(r *http.Request) string {
	v, _ := r.Context().Value(ViewerContextKey).(string)
	return v
}

// IdentityHandler, kayıt/sign-in/profil endpoint'leri.
type IdentityHandler struct {
	identitySvc services.IdentityService
	uploadSvc   services.UploadService
	maxUpload   int64
}

// NewIdentityHandler, constructor.
func NewIdentityHandler(identitySvc services.IdentityService, uploadSvc services.UploadService, maxUpload int64) *IdentityHandler {
	return &IdentityHandler{
		identitySvc: identitySvc,
		uploadSvc:   uploadSvc,
		maxUpload:   maxUpload,
	}
}

// Register godoc
// POST /register-user
//
// İki format desteklenir:
//   - multipart/form-data: displayName, userId (ops.), profilePic dosyası (ops.)
//   - JSON: {displayName, userId?}
//
// Response secret word İÇERMEZ.
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload + 1<<20); err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		req.DisplayName = r.FormValue("displayName")
		req.UserID = r.FormValue("userId")

		// Opsiyonel profil fotoğrafı — kayıtla birlikte yüklenebilir.
		if file, header, err := r.FormFile("profilePic"); err == nil {
			defer file.Close()
			url, upErr := h.uploadSvc.SaveProfilePic(file, header)
			if upErr != nil {
				pkg.Error(w, upErr)
				return
			}
			req.ProfilePic = &url
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	user, err := h.identitySvc.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Find godoc
// GET /api/find-user?displayName=...&code=...
//
// Sign-in lookup'ı. Yanlış code ve banlı kullanıcı aynı 404'ü döner.
func (h *IdentityHandler) Find(w http.ResponseWriter, r *http.Request) {
	displayName := r.URL.Query().Get("displayName")
	code := r.URL.Query().Get("code")

	user, err := h.identitySvc.FindBySecret(r.Context(), displayName, code)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Profile godoc
// GET /user/{userId}
func (h *IdentityHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	profile, err := h.identitySvc.GetProfile(r.Context(), userID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, profile)
}

// UploadProfilePic godoc
// POST /upload-profile-pic
// multipart/form-data, "profilePic" alanında tek image dosyası (max 5MB).
func (h *IdentityHandler) UploadProfilePic(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload + 1<<20); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("profilePic")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	url, err := h.uploadSvc.SaveProfilePic(file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"url": url})
}
