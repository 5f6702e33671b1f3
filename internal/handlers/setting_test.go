package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardocs/internal/models"
)

func getSettings(t *testing.T, router http.Handler, token string) (*httptest.ResponseRecorder, models.ReminderSetting) {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	var setting models.ReminderSetting
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &setting); err != nil {
			t.Fatalf("decode settings: %v", err)
		}
	}
	return w, setting
}

func putSettings(t *testing.T, router http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/settings", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSettingsRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupHandlerDB(t, t.Name())
	router, _ := newTestRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/settings", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupHandlerDB(t, t.Name())
	router, _ := newTestRouter(db)
	acc := seedHandlerAccount(t, db, "me@example.com")
	token := bearerToken(t, acc.ID)

	w, setting := getSettings(t, router, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	if !setting.EmailEnabled || setting.EmailDaysBefore != models.DefaultEmailDaysBefore {
		t.Fatalf("expected email defaults, got %+v", setting)
	}
	if setting.WhatsappEnabled || setting.WhatsappDaysBefore != models.DefaultWhatsappDaysBefore {
		t.Fatalf("expected whatsapp defaults, got %+v", setting)
	}

	var count int64
	if err := db.Model(&models.ReminderSetting{}).Where("user_id = ?", acc.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single settings row, got %d", count)
	}
}

func TestUpdateSettingsAppliesPartialInput(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupHandlerDB(t, t.Name())
	router, _ := newTestRouter(db)
	acc := seedHandlerAccount(t, db, "me@example.com")
	token := bearerToken(t, acc.ID)

	w := putSettings(t, router, token, `{"email_days_before":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var setting models.ReminderSetting
	if err := json.Unmarshal(w.Body.Bytes(), &setting); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if setting.EmailDaysBefore != 3 {
		t.Fatalf("expected lead time 3, got %d", setting.EmailDaysBefore)
	}
	if !setting.EmailEnabled {
		t.Fatalf("omitted fields must keep their value")
	}
}

func TestUpdateSettingsQuietHours(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupHandlerDB(t, t.Name())
	router, _ := newTestRouter(db)
	acc := seedHandlerAccount(t, db, "me@example.com")
	token := bearerToken(t, acc.ID)

	w := putSettings(t, router, token, `{"quiet_hours":{"start":"22:00","end":"06:00"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	_, setting := getSettings(t, router, token)
	window := setting.Window()
	if window == nil || window.Start != "22:00" || window.End != "06:00" {
		t.Fatalf("expected stored window, got %+v", window)
	}

	// empty bounds clear the window
	w = putSettings(t, router, token, `{"quiet_hours":{"start":"","end":""}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	_, setting = getSettings(t, router, token)
	if setting.Window() != nil {
		t.Fatalf("expected cleared window, got %+v", setting.Window())
	}
}

func TestUpdateSettingsRejectsBadInput(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupHandlerDB(t, t.Name())
	router, _ := newTestRouter(db)
	acc := seedHandlerAccount(t, db, "me@example.com")
	token := bearerToken(t, acc.ID)

	cases := []struct {
		name string
		body string
	}{
		{"negative lead", `{"email_days_before":-2}`},
		{"huge lead", `{"whatsapp_days_before":1000}`},
		{"malformed clock", `{"quiet_hours":{"start":"2pm","end":"07:00"}}`},
		{"not json", `{"email_enabled":`},
	}
	for _, tc := range cases {
		w := putSettings(t, router, token, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}

	// rejected updates leave stored settings untouched
	_, setting := getSettings(t, router, token)
	if setting.EmailDaysBefore != models.DefaultEmailDaysBefore || setting.WhatsappDaysBefore != models.DefaultWhatsappDaysBefore {
		t.Fatalf("rejected updates must not change settings, got %+v", setting)
	}
}
