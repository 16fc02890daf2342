package engine

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/mockapi/pkg/model"
)

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
		allowed bool
	}{
		{"wildcard", []string{"*"}, "https://a.test", "*", true},
		{"wildcard among others", []string{"https://a.test", "*"}, "https://b.test", "*", true},
		{"wildcard without origin header", []string{"*"}, "", "*", true},
		{"exact match echoes", []string{"https://a.test"}, "https://a.test", "https://a.test", true},
		{"not listed", []string{"https://a.test"}, "https://b.test", "", false},
		{"no origin header with explicit list", []string{"https://a.test"}, "", "", false},
		{"empty list", nil, "https://a.test", "", false},
		{"case sensitive", []string{"https://A.test"}, "https://a.test", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AllowOrigin(&model.GlobalSettings{CORSOrigins: tt.origins}, tt.origin)
			assert.Equal(t, tt.allowed, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyCORS(t *testing.T) {
	settings := &model.GlobalSettings{
		CORSOrigins: []string{"https://a.test"},
		CORSMethods: []string{"GET", "POST"},
		CORSHeaders: []string{"Content-Type", "X-Token"},
	}

	t.Run("allowed", func(t *testing.T) {
		h := http.Header{}
		assert.True(t, ApplyCORS(h, settings, "https://a.test"))
		assert.Equal(t, "https://a.test", h.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", h.Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-Token", h.Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "Origin", h.Get("Vary"))
	})

	t.Run("denied emits nothing", func(t *testing.T) {
		h := http.Header{}
		assert.False(t, ApplyCORS(h, settings, "https://b.test"))
		assert.Empty(t, h)
	})
}

func TestAdminCORS(t *testing.T) {
	var called bool
	h := AdminCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight short-circuits", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/admin/projects", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, called)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("passes through", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil))
		assert.True(t, called)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
