package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_ScrubsSecrets(t *testing.T) {
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Custom"}}))
	r.POST("/telegram/webhook", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost,
		"/telegram/webhook?contact=joe@example.com&init=hash%3Dabc&sig=hash=0123456789abcdef0123", nil)
	req.Header.Set(HeaderTelegramSecret, "s3cr3t")
	req.Header.Set(HeaderInitData, "user=...&hash=ff")
	req.Header.Set("Authorization", "Bearer xyz")
	req.Header.Set("X-Custom", "private")
	req.Header.Set("X-Forwarded-For-Bot", "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, leaked := range []string{"s3cr3t", "Bearer xyz", "private", "joe@example.com", "AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw1", "0123456789abcdef0123"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("log leaked %q: %s", leaked, out)
		}
	}
	m := lastLine(t, buf)
	if m["message"] != "http_request" || m["level"] != "info" || m["path"] != "/telegram/webhook" {
		t.Fatalf("unexpected access log: %v", m)
	}
}

func TestRedactingLogger_LevelsAndUnmatchedPath(t *testing.T) {
	buf := captureLogger(t)
	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/err", func(c *gin.Context) {
		_ = c.Error(http.ErrAbortHandler)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	if lastLine(t, buf)["level"] != "warn" {
		t.Fatalf("4xx should log at warn")
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/err", nil))
	if lastLine(t, buf)["level"] != "error" {
		t.Fatalf("gin errors should log at error")
	}
	r.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/bot123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw1/getMe", nil))
	m := lastLine(t, buf)
	if strings.Contains(m["path"].(string), "AAHdq") {
		t.Fatalf("unmatched path should be redacted: %v", m["path"])
	}
}
