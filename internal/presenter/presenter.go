// Package presenter maps render requests from the access-control core onto
// Telegram-ready content: HTML text in the principal's language plus an
// inline keyboard. It holds no state beyond its immutable catalog.
package presenter

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/render"
)

// Button is one inline keyboard button. Exactly one of Action, URL or
// WebAppURL is set.
type Button struct {
	Text      string        `json:"text"`
	Action    domain.Action `json:"action,omitempty"`
	URL       string        `json:"url,omitempty"`
	WebAppURL string        `json:"web_app_url,omitempty"`
}

// Message is a rendered reply.
type Message struct {
	Text    string     `json:"text,omitempty"`
	Buttons [][]Button `json:"buttons,omitempty"`
	// Delete asks the transport to remove the message the interaction came from.
	Delete bool `json:"delete,omitempty"`
	// Alert asks the transport to show Text as a popup where it can.
	Alert bool `json:"alert,omitempty"`
}

// Presenter renders requests in one of the Supported locales.
type Presenter struct {
	SupportURL string

	cat     catalog.Catalog
	tags    []language.Tag
	matcher language.Matcher
}

// New builds a Presenter falling back to defaultLocale when a principal's
// language is unknown or unsupported.
func New(defaultLocale, supportURL string) (*Presenter, error) {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("default locale %q: %w", defaultLocale, err)
	}
	tags := Supported()
	base, _ := def.Base()
	for i, t := range tags {
		if b, _ := t.Base(); b == base {
			tags[0], tags[i] = tags[i], tags[0]
			break
		}
	}
	cat, err := newCatalog(tags[0])
	if err != nil {
		return nil, err
	}
	return &Presenter{
		SupportURL: supportURL,
		cat:        cat,
		tags:       tags,
		matcher:    language.NewMatcher(tags),
	}, nil
}

// Locale returns the supported tag chosen for a principal's language code.
func (p *Presenter) Locale(code string) language.Tag {
	if strings.TrimSpace(code) == "" {
		return p.tags[0]
	}
	_, idx, conf := p.matcher.Match(language.Make(code))
	if conf == language.No {
		return p.tags[0]
	}
	return p.tags[idx]
}

// Render returns the message for r and false when nothing should be sent.
func (p *Presenter) Render(r render.Request) (Message, bool) {
	pr := message.NewPrinter(p.Locale(r.Locale), message.Catalog(p.cat))

	switch r.Kind {
	case render.KindAuthorizedHome:
		var rows [][]Button
		if r.Home != nil && r.Home.AppURL != "" {
			rows = append(rows, []Button{{Text: pr.Sprintf(btnOpenApp), WebAppURL: r.Home.AppURL}})
		}
		rows = append(rows, p.supportRow(pr, btnSupport)...)
		return Message{Text: pr.Sprintf(keyWelcome), Buttons: rows}, true

	case render.KindDenied:
		return Message{Text: pr.Sprintf(keyDenied), Buttons: p.supportRow(pr, btnApply)}, true

	case render.KindHelp:
		return Message{Text: pr.Sprintf(keyHelp)}, true

	case render.KindAdminHome:
		s := statsOf(r)
		text := pr.Sprintf(keyAdminHome, s.Authorized, s.Total)
		if s.Unavailable {
			text += "\n\n" + pr.Sprintf(keyStatsUnavailable)
		}
		return Message{Text: text, Buttons: adminKeyboard(pr)}, true

	case render.KindStats:
		s := statsOf(r)
		if s.Unavailable {
			return Message{Text: pr.Sprintf(keyStatsUnavailable), Buttons: backKeyboard(pr)}, true
		}
		return Message{
			Text:    pr.Sprintf(keyStats, s.Total, s.Authorized, s.Unauthorized),
			Buttons: backKeyboard(pr),
		}, true

	case render.KindList:
		return Message{Text: listText(pr, r.List), Buttons: adminKeyboard(pr)}, true

	case render.KindPrompt:
		key := keyPromptAdd
		if r.Prompt != nil && r.Prompt.Op == render.OpRemove {
			key = keyPromptRemove
		}
		return Message{Text: pr.Sprintf(key), Buttons: backKeyboard(pr)}, true

	case render.KindResult:
		return Message{Text: resultText(pr, r.Result), Buttons: adminKeyboard(pr)}, true

	case render.KindAdminDenied:
		return Message{Text: pr.Sprintf(keyAdminDenied), Alert: true}, true

	case render.KindClosed:
		return Message{Delete: true}, true

	default:
		return Message{}, false
	}
}

func (p *Presenter) supportRow(pr *message.Printer, key string) [][]Button {
	if p.SupportURL == "" {
		return nil
	}
	return [][]Button{{{Text: pr.Sprintf(key), URL: p.SupportURL}}}
}

func adminKeyboard(pr *message.Printer) [][]Button {
	return [][]Button{
		{
			{Text: pr.Sprintf(btnAdd), Action: domain.ActionOpenAdd},
			{Text: pr.Sprintf(btnRemove), Action: domain.ActionOpenRemove},
		},
		{
			{Text: pr.Sprintf(btnList), Action: domain.ActionList},
			{Text: pr.Sprintf(btnStats), Action: domain.ActionStats},
		},
		{
			{Text: pr.Sprintf(btnClose), Action: domain.ActionClose},
		},
	}
}

func backKeyboard(pr *message.Printer) [][]Button {
	return [][]Button{{{Text: pr.Sprintf(btnBack), Action: domain.ActionBack}}}
}

func statsOf(r render.Request) render.Stats {
	if r.Stats == nil {
		return render.Stats{Unavailable: true}
	}
	return *r.Stats
}

func listText(pr *message.Printer, l *render.List) string {
	if l != nil && l.Unavailable {
		return pr.Sprintf(keyListUnavailable)
	}
	if l == nil || len(l.Entries) == 0 {
		return pr.Sprintf(keyListEmpty)
	}
	var b strings.Builder
	b.WriteString(pr.Sprintf(keyListTitle))
	b.WriteString("\n")
	for i, e := range l.Entries {
		label := fmt.Sprintf("ID: %d", e.Identifier)
		if e.Handle != "" {
			label = "@" + e.Handle
		}
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, html.EscapeString(label)))
		if e.DisplayName != "" {
			b.WriteString(" " + html.EscapeString(e.DisplayName))
		}
	}
	if l.Overflow > 0 {
		b.WriteString("\n\n")
		b.WriteString(pr.Sprintf(keyListMore, l.Overflow))
	}
	return b.String()
}

func resultText(pr *message.Printer, res *render.Result) string {
	if res == nil {
		return pr.Sprintf(keyStoreFailure)
	}
	if res.Success {
		key := keyAdded
		if res.Op == render.OpRemove {
			key = keyRemoved
		}
		return pr.Sprintf(key, "<b>"+html.EscapeString(res.Label)+"</b>")
	}
	switch res.Reason {
	case render.ReasonNotFound:
		return pr.Sprintf(keyNotFound)
	case render.ReasonInvalidInput:
		return pr.Sprintf(keyInvalidInput)
	default:
		return pr.Sprintf(keyStoreFailure)
	}
}
