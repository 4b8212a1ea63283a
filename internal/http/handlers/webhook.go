package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-access-bot/internal/http/middleware"
	"github.com/tbourn/go-access-bot/internal/repo"
	"github.com/tbourn/go-access-bot/internal/telegram"
)

// Webhook godoc
// @ID          telegramWebhook
// @Summary     Receive a Telegram update
// @Description Dispatches a Bot API update and answers with at most one Bot API method in the response body. Retried update ids are acknowledged without dispatch.
// @Tags        Telegram
// @Accept      json
// @Produce     json
//
// @Param       X-Telegram-Bot-Api-Secret-Token  header  string           false  "Webhook secret (when configured)"
// @Param       body                             body    telegram.Update  true   "Bot API update"
//
// @Success     200  {object}  telegram.Reply
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Secret mismatch"
// @Router      /telegram/webhook [post]
func (h *Handlers) Webhook(c *gin.Context) {
	var u telegram.Update
	if err := c.ShouldBindJSON(&u); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ctx := c.Request.Context()
	lg := middleware.LoggerFrom(c)

	if u.UpdateID > 0 {
		err := h.updates.MarkUpdateProcessed(ctx, u.UpdateID, h.opts.UpdateTTL)
		switch {
		case err == nil:
		case errors.Is(err, repo.ErrDuplicate):
			lg.Debug().Int64("update_id", u.UpdateID).Msg("duplicate update")
			c.Status(http.StatusOK)
			return
		case errors.Is(err, repo.ErrUnconfigured):
		default:
			lg.Warn().Err(err).Int64("update_id", u.UpdateID).Msg("update dedupe unavailable")
		}
	}

	in, accepted := telegram.Normalize(u)
	if !accepted {
		c.Status(http.StatusOK)
		return
	}

	r, err := h.dispatch.Submit(ctx, in)
	if err != nil {
		// Telegram would retry a 5xx, and the retry is a known duplicate.
		lg.Error().Err(err).Int64("update_id", u.UpdateID).Msg("dispatch failed")
		c.Status(http.StatusOK)
		return
	}

	msg, visible := h.render.Render(r)
	if !visible {
		c.Status(http.StatusOK)
		return
	}
	reply, send := telegram.BuildReply(u, msg)
	if !send {
		c.Status(http.StatusOK)
		return
	}
	ok(c, http.StatusOK, reply)
}
