package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/presenter"
	"github.com/tbourn/go-access-bot/internal/render"
)

// InteractionResponse carries the semantic render request and, when
// something is shown, its rendered message.
type InteractionResponse struct {
	Render  render.Request     `json:"render"`
	Message *presenter.Message `json:"message,omitempty"`
}

// PostInteraction godoc
// @ID          postInteraction
// @Summary     Dispatch a normalized interaction
// @Description Runs one interaction (free text or console action) through the bot and returns what would be shown.
// @Tags        Interactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  domain.Interaction  true  "Interaction"
//
// @Success     200  {object}  handlers.InteractionResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Disabled"
// @Failure     503  {object}  handlers.ErrorResponse  "Dispatcher unavailable"
// @Router      /interactions [post]
func (h *Handlers) PostInteraction(c *gin.Context) {
	var in domain.Interaction
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid interaction")
		return
	}
	if in.Action != domain.ActionNone && !in.Action.Valid() {
		fail(c, http.StatusBadRequest, ErrCodeUnsupportedAction, "unknown action "+string(in.Action))
		return
	}

	r, err := h.dispatch.Submit(c.Request.Context(), in)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeDispatcherStopped, err.Error())
		return
	}

	resp := InteractionResponse{Render: r}
	if msg, visible := h.render.Render(r); visible {
		resp.Message = &msg
	}
	ok(c, http.StatusOK, resp)
}
