package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/presenter"
	"github.com/tbourn/go-access-bot/internal/render"
)

// Dispatcher runs one interaction through the access-control core.
// *bot.Serial satisfies it.
type Dispatcher interface {
	Submit(ctx context.Context, in domain.Interaction) (render.Request, error)
}

// Renderer turns a render request into user-facing text and buttons.
type Renderer interface {
	Render(r render.Request) (presenter.Message, bool)
}

// UpdateLog records processed Telegram update ids so retries are not
// dispatched twice.
type UpdateLog interface {
	MarkUpdateProcessed(ctx context.Context, updateID int64, ttl time.Duration) error
}

// AccessChecker answers whether a principal is allow-listed.
type AccessChecker interface {
	Check(ctx context.Context, id int64) bool
}

// Options holds transport settings for the handlers.
type Options struct {
	// BotToken verifies Mini App initData; empty disables /webapp/auth.
	BotToken string
	// InitDataMaxAge bounds the age of initData auth_date; 0 disables.
	InitDataMaxAge time.Duration
	// UpdateTTL is how long processed update ids are remembered.
	UpdateTTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handlers groups the bot's HTTP endpoints.
type Handlers struct {
	dispatch Dispatcher
	render   Renderer
	updates  UpdateLog
	access   AccessChecker
	opts     Options
}

// New constructs Handlers bound to the given collaborators.
func New(d Dispatcher, r Renderer, u UpdateLog, a AccessChecker, opts Options) *Handlers {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handlers{dispatch: d, render: r, updates: u, access: a, opts: opts}
}
