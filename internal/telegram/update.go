// Package telegram adapts the Telegram Bot API to the access-control core:
// inbound updates become domain.Interactions, rendered presenter.Messages
// become webhook reply methods, and Mini App initData is verified here.
package telegram

import (
	"strings"

	"github.com/tbourn/go-access-bot/internal/domain"
)

// Update is the subset of a Bot API update the bot consumes.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// User is a Telegram user.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Chat is the chat a message belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

// Message is an incoming chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// CallbackQuery is an inline keyboard button press.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

var callbackActions = map[string]domain.Action{
	"admin_add":    domain.ActionOpenAdd,
	"admin_remove": domain.ActionOpenRemove,
	"admin_list":   domain.ActionList,
	"admin_stats":  domain.ActionStats,
	"admin_back":   domain.ActionBack,
	"admin_close":  domain.ActionClose,
}

// CallbackData returns the callback payload for a console action.
func CallbackData(a domain.Action) string {
	for k, v := range callbackActions {
		if v == a {
			return k
		}
	}
	return ""
}

// ActionFor maps callback data to a console action.
func ActionFor(data string) (domain.Action, bool) {
	a, ok := callbackActions[data]
	return a, ok
}

// Normalize extracts the interaction carried by u. It reports false for
// updates the bot does not handle: bots, non-text messages, unknown buttons.
func Normalize(u Update) (domain.Interaction, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		a, ok := ActionFor(cq.Data)
		if !ok || cq.From.IsBot {
			return domain.Interaction{}, false
		}
		in := fromUser(cq.From)
		in.Action = a
		return in, true

	case u.Message != nil:
		m := u.Message
		if m.From == nil || m.From.IsBot || strings.TrimSpace(m.Text) == "" {
			return domain.Interaction{}, false
		}
		in := fromUser(*m.From)
		in.Text = m.Text
		return in, true
	}
	return domain.Interaction{}, false
}

func fromUser(u User) domain.Interaction {
	in := domain.Interaction{PrincipalID: u.ID, LanguageCode: u.LanguageCode}
	if u.Username != "" {
		h := u.Username
		in.Handle = &h
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		in.DisplayName = &name
	}
	return in
}
