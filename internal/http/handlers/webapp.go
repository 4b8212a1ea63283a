package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-access-bot/internal/http/middleware"
	"github.com/tbourn/go-access-bot/internal/telegram"
)

// WebAppAuthRequest carries raw Mini App initData. The X-Telegram-Init-Data
// header is used when the body field is empty.
type WebAppAuthRequest struct {
	InitData string `json:"init_data" example:"query_id=AAH...&user=%7B%22id%22%3A42%7D&auth_date=1700000000&hash=..."`
}

// WebAppAuthResponse reports whether the Mini App user is allow-listed.
type WebAppAuthResponse struct {
	Authorized bool  `json:"authorized" example:"true"`
	UserID     int64 `json:"user_id" example:"42"`
}

// WebAppAuth godoc
// @ID          webAppAuth
// @Summary     Check Mini App access
// @Description Verifies Telegram Mini App initData and reports whether its user is on the allow-list.
// @Tags        WebApp
// @Accept      json
// @Produce     json
//
// @Param       X-Telegram-Init-Data  header  string                      false  "Raw initData"
// @Param       body                  body    handlers.WebAppAuthRequest  false  "initData payload"
//
// @Success     200  {object}  handlers.WebAppAuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing initData"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid or expired initData"
// @Failure     503  {object}  handlers.ErrorResponse  "Bot token not configured"
// @Router      /webapp/auth [post]
func (h *Handlers) WebAppAuth(c *gin.Context) {
	if h.opts.BotToken == "" {
		fail(c, http.StatusServiceUnavailable, ErrCodeWebAppUnavailable, "bot token not configured")
		return
	}

	var req WebAppAuthRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	raw := strings.TrimSpace(req.InitData)
	if raw == "" {
		raw = strings.TrimSpace(c.GetHeader(middleware.HeaderInitData))
	}
	if raw == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "init_data is required")
		return
	}

	user, err := telegram.ValidateInitData(raw, h.opts.BotToken, h.opts.InitDataMaxAge, h.opts.Now())
	if err != nil {
		middleware.LoggerFrom(c).Warn().
			Str("event", "invalid_init_data").
			Err(err).
			Msg("mini app auth rejected")
		if errors.Is(err, telegram.ErrInitDataExpired) {
			fail(c, http.StatusUnauthorized, ErrCodeInitDataExpired, err.Error())
			return
		}
		fail(c, http.StatusUnauthorized, ErrCodeInvalidInitData, "invalid init data")
		return
	}

	ok(c, http.StatusOK, WebAppAuthResponse{
		Authorized: h.access.Check(c.Request.Context(), user.ID),
		UserID:     user.ID,
	})
}
