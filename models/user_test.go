package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		wantErr     bool
	}{
		{"valid", "alice", false},
		{"two chars min", "ab", false},
		{"one char", "a", true},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"trimmed to valid", "  alice  ", false},
		{"32 chars max", strings.Repeat("x", 32), false},
		{"33 chars too long", strings.Repeat("x", 33), true},
		{"unicode counted as runes", strings.Repeat("ğ", 32), false},

		// Rezerve isimler case-insensitive reddedilir
		{"reserved admin", "admin", true},
		{"reserved mixed case", "AdMiN", true},
		{"reserved moderator", "moderator", true},
		{"reserved system", "system", true},
		{"not reserved prefix", "administrative", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := RegisterRequest{DisplayName: tt.displayName}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterRequestValidateTrims(t *testing.T) {
	req := RegisterRequest{DisplayName: "  alice  "}
	assert.NoError(t, req.Validate())
	// Validate trim'i yerinde uygular
	assert.Equal(t, "alice", req.DisplayName)
}

func TestSendMessageRequestValidate(t *testing.T) {
	valid := SendMessageRequest{ChatID: "c1", UserID: "u1", UserName: "alice", Message: "hi"}
	assert.NoError(t, valid.Validate())

	missing := []SendMessageRequest{
		{UserID: "u1", UserName: "alice"},
		{ChatID: "c1", UserName: "alice"},
		{ChatID: "c1", UserID: "u1"},
	}
	for _, req := range missing {
		assert.Error(t, req.Validate())
	}

	// Message içeriği burada kontrol edilmez (service katmanının işi)
	empty := SendMessageRequest{ChatID: "c1", UserID: "u1", UserName: "alice"}
	assert.NoError(t, empty.Validate())
}
