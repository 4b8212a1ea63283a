package telegram

import (
	"github.com/tbourn/go-access-bot/internal/presenter"
)

// Reply is a Bot API method answered inline in the webhook response body.
// Only the fields of the chosen Method are set.
type Reply struct {
	Method          string                `json:"method"`
	ChatID          int64                 `json:"chat_id,omitempty"`
	MessageID       int64                 `json:"message_id,omitempty"`
	Text            string                `json:"text,omitempty"`
	ParseMode       string                `json:"parse_mode,omitempty"`
	ReplyMarkup     *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	CallbackQueryID string                `json:"callback_query_id,omitempty"`
	ShowAlert       bool                  `json:"show_alert,omitempty"`
}

// InlineKeyboardMarkup is an inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is one button; exactly one of the optional fields is set.
type InlineKeyboardButton struct {
	Text         string      `json:"text"`
	CallbackData string      `json:"callback_data,omitempty"`
	URL          string      `json:"url,omitempty"`
	WebApp       *WebAppInfo `json:"web_app,omitempty"`
}

// WebAppInfo opens a Mini App.
type WebAppInfo struct {
	URL string `json:"url"`
}

// BuildReply chooses the reply method for m in response to u. Messages get
// sendMessage; button presses edit the console message in place, delete it
// on close, or raise an alert. It reports false when nothing should be sent.
func BuildReply(u Update, m presenter.Message) (Reply, bool) {
	if cq := u.CallbackQuery; cq != nil {
		switch {
		case m.Alert:
			return Reply{
				Method:          "answerCallbackQuery",
				CallbackQueryID: cq.ID,
				Text:            m.Text,
				ShowAlert:       true,
			}, true
		case cq.Message == nil:
			return Reply{}, false
		case m.Delete:
			return Reply{
				Method:    "deleteMessage",
				ChatID:    cq.Message.Chat.ID,
				MessageID: cq.Message.MessageID,
			}, true
		default:
			return Reply{
				Method:      "editMessageText",
				ChatID:      cq.Message.Chat.ID,
				MessageID:   cq.Message.MessageID,
				Text:        m.Text,
				ParseMode:   "HTML",
				ReplyMarkup: keyboard(m.Buttons),
			}, true
		}
	}
	if u.Message == nil || m.Delete || m.Text == "" {
		return Reply{}, false
	}
	return Reply{
		Method:      "sendMessage",
		ChatID:      u.Message.Chat.ID,
		Text:        m.Text,
		ParseMode:   "HTML",
		ReplyMarkup: keyboard(m.Buttons),
	}, true
}

func keyboard(rows [][]presenter.Button) *InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := &InlineKeyboardMarkup{InlineKeyboard: make([][]InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		out := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btn := InlineKeyboardButton{Text: b.Text}
			switch {
			case b.WebAppURL != "":
				btn.WebApp = &WebAppInfo{URL: b.WebAppURL}
			case b.URL != "":
				btn.URL = b.URL
			default:
				btn.CallbackData = CallbackData(b.Action)
			}
			out = append(out, btn)
		}
		kb.InlineKeyboard = append(kb.InlineKeyboard, out)
	}
	return kb
}
