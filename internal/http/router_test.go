package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-access-bot/internal/bot"
	"github.com/tbourn/go-access-bot/internal/config"
	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/http/handlers"
	"github.com/tbourn/go-access-bot/internal/presenter"
	"github.com/tbourn/go-access-bot/internal/render"
	"github.com/tbourn/go-access-bot/internal/repo"
	"github.com/tbourn/go-access-bot/internal/services"
	"github.com/tbourn/go-access-bot/internal/telegram"
)

const (
	testAdmin = int64(1)
	testToken = "s3cret"
)

func baseConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		Bot: config.BotConfig{
			AdminIDs:         []int64{testAdmin},
			MiniAppURL:       "https://t.me/test_bot/app",
			SupportURL:       "https://t.me/test_support",
			WebhookSecret:    "hook",
			InteractionToken: testToken,
			DefaultLocale:    "en",
		},
		Store: config.StoreConfig{Timeout: time.Second, ListPageSize: 20, UpdateTTL: time.Hour},
		OTEL:  config.OTELConfig{ServiceName: "test-svc"},
	}
}

// newTestApp wires the full stack over a throwaway SQLite file.
func newTestApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "router.db"), cfg.Store.Timeout)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	store := repo.NewStore(db, cfg.Store.Timeout)

	ledger := services.NewLedger(store)
	gate := services.NewGate(ledger)
	d := &bot.Dispatcher{
		Identity: services.NewIdentityStore(store),
		Gate:     gate,
		Console:  services.NewConsole(services.NewAdminSet(cfg.Bot.AdminIDs), ledger, cfg.Store.ListPageSize),
		AppURL:   cfg.Bot.MiniAppURL,
	}
	serial := bot.NewSerial(d, 8)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = serial.Run(ctx) }()
	t.Cleanup(cancel)

	p, err := presenter.New(cfg.Bot.DefaultLocale, cfg.Bot.SupportURL)
	if err != nil {
		t.Fatalf("presenter: %v", err)
	}
	h := handlers.New(serial, p, store, gate, handlers.Options{
		BotToken:       cfg.Bot.Token,
		InitDataMaxAge: cfg.Bot.WebAppAuthMaxAge,
		UpdateTTL:      cfg.Store.UpdateTTL,
	})

	r := gin.New()
	RegisterRoutes(r, h, cfg)
	return r
}

func postJSON(r http.Handler, path string, body any, set func(*http.Request)) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if set != nil {
		set(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(req *http.Request) { req.Header.Set("Authorization", "Bearer "+testToken) }

func interact(t *testing.T, r http.Handler, in domain.Interaction) handlers.InteractionResponse {
	t.Helper()
	w := postJSON(r, "/api/v1/interactions", in, bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /interactions = %d: %s", w.Code, w.Body.String())
	}
	var resp handlers.InteractionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	return resp
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newTestApp(t, baseConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("accessbot_http_requests_total")) {
		t.Fatalf("GET /metrics bad: code=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := baseConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}
	r := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestWebhook_SecretAndReply(t *testing.T) {
	r := newTestApp(t, baseConfig())
	u := telegram.Update{
		UpdateID: 100,
		Message: &telegram.Message{
			MessageID: 1,
			From:      &telegram.User{ID: 42, FirstName: "Joe"},
			Chat:      telegram.Chat{ID: 42},
			Text:      "/start",
		},
	}

	w := postJSON(r, WebhookPath, u, func(req *http.Request) {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret = %d", w.Code)
	}

	w = postJSON(r, WebhookPath, u, func(req *http.Request) {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "hook")
	})
	if w.Code != http.StatusOK {
		t.Fatalf("webhook = %d: %s", w.Code, w.Body.String())
	}
	var reply telegram.Reply
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("json: %v", err)
	}
	if reply.Method != "sendMessage" || reply.ChatID != 42 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestWebhook_DisabledWithoutSecret(t *testing.T) {
	cfg := baseConfig()
	cfg.Bot.WebhookSecret = ""
	r := newTestApp(t, cfg)

	forged := []telegram.Update{
		{UpdateID: 1, CallbackQuery: &telegram.CallbackQuery{
			ID:      "cb",
			From:    telegram.User{ID: testAdmin},
			Message: &telegram.Message{MessageID: 5, Chat: telegram.Chat{ID: testAdmin}},
			Data:    "admin_add",
		}},
		{UpdateID: 2, Message: &telegram.Message{
			MessageID: 6, From: &telegram.User{ID: testAdmin}, Chat: telegram.Chat{ID: testAdmin}, Text: "777",
		}},
		{UpdateID: 3, Message: &telegram.Message{
			MessageID: 7, From: &telegram.User{ID: 777}, Chat: telegram.Chat{ID: 777}, Text: "/start",
		}},
	}
	for _, u := range forged {
		w := postJSON(r, WebhookPath, u, func(req *http.Request) {
			req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "")
		})
		if w.Code != http.StatusNotFound {
			t.Fatalf("update %d: status = %d, want 404", u.UpdateID, w.Code)
		}
	}

	if got := interact(t, r, domain.Interaction{PrincipalID: 777, Text: "/start"}); got.Render.Kind != render.KindDenied {
		t.Fatalf("forged grant took effect: %s", got.Render.Kind)
	}
}

func TestInteractions_AdminGrantThenAccess(t *testing.T) {
	r := newTestApp(t, baseConfig())

	if got := interact(t, r, domain.Interaction{PrincipalID: 42, Text: "/start"}); got.Render.Kind != render.KindDenied {
		t.Fatalf("before grant: %s", got.Render.Kind)
	}
	if got := interact(t, r, domain.Interaction{PrincipalID: testAdmin, Text: "/admin"}); got.Render.Kind != render.KindAdminHome {
		t.Fatalf("/admin: %s", got.Render.Kind)
	}
	if got := interact(t, r, domain.Interaction{PrincipalID: testAdmin, Action: domain.ActionOpenAdd}); got.Render.Kind != render.KindPrompt {
		t.Fatalf("open-add: %s", got.Render.Kind)
	}
	got := interact(t, r, domain.Interaction{PrincipalID: testAdmin, Text: "42"})
	if got.Render.Kind != render.KindResult || got.Render.Result == nil || !got.Render.Result.Success {
		t.Fatalf("grant: %+v", got.Render)
	}

	got = interact(t, r, domain.Interaction{PrincipalID: 42, Text: "/start"})
	if got.Render.Kind != render.KindAuthorizedHome || got.Message == nil {
		t.Fatalf("after grant: %+v", got)
	}
}

func TestInteractions_Guarded(t *testing.T) {
	r := newTestApp(t, baseConfig())
	in := domain.Interaction{PrincipalID: 42, Text: "/start"}

	if w := postJSON(r, "/api/v1/interactions", in, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", w.Code)
	}

	cfg := baseConfig()
	cfg.Bot.InteractionToken = ""
	r = newTestApp(t, cfg)
	if w := postJSON(r, "/api/v1/interactions", in, bearer); w.Code != http.StatusNotFound {
		t.Fatalf("disabled = %d", w.Code)
	}
}

func TestAPI_Gzip(t *testing.T) {
	r := newTestApp(t, baseConfig())
	w := postJSON(r, "/api/v1/interactions", domain.Interaction{PrincipalID: 42, Text: "/help"}, func(req *http.Request) {
		bearer(req)
		req.Header.Set("Accept-Encoding", "gzip")
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q", got)
	}
}

func TestWebAppAuth_UnavailableWithoutBotToken(t *testing.T) {
	r := newTestApp(t, baseConfig())
	w := postJSON(r, "/api/v1/webapp/auth", handlers.WebAppAuthRequest{InitData: "a=b"}, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSwagger_OnlyWhenEnabled(t *testing.T) {
	r := newTestApp(t, baseConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("disabled swagger = %d", w.Code)
	}

	cfg := baseConfig()
	cfg.SwaggerEnabled = true
	r = newTestApp(t, cfg)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("/webapp/auth")) {
		t.Fatalf("swagger doc = %d", w.Code)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}
