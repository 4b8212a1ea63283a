package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/render"
)

// DefaultPageSize caps the console list when Console.PageSize is unset.
const DefaultPageSize = 20

// Console is the admin mutation protocol. Each admin has an independent
// session (Idle, AwaitingAddTarget, AwaitingRemoveTarget) held in memory.
// Every entry point re-checks the admin set.
type Console struct {
	Admins   AdminSet
	Ledger   *Ledger
	PageSize int

	mu       sync.Mutex
	sessions map[int64]domain.PendingAction
}

// NewConsole returns a Console with all admins Idle.
func NewConsole(admins AdminSet, l *Ledger, pageSize int) *Console {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Console{
		Admins:   admins,
		Ledger:   l,
		PageSize: pageSize,
		sessions: make(map[int64]domain.PendingAction),
	}
}

// Pending returns the admin's current pending action.
func (c *Console) Pending(adminID int64) domain.PendingAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[adminID]
}

func (c *Console) set(adminID int64, p domain.PendingAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == domain.PendingNone {
		delete(c.sessions, adminID)
		return
	}
	c.sessions[adminID] = p
}

// take returns and clears the pending action.
func (c *Console) take(adminID int64) domain.PendingAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.sessions[adminID]
	delete(c.sessions, adminID)
	return p
}

// Open shows the console home screen.
func (c *Console) Open(ctx context.Context, id int64) render.Request {
	if !c.allowed(id, "open") {
		return render.AdminDenied()
	}
	c.set(id, domain.PendingNone)
	return c.home(ctx)
}

// Select applies a console button press.
func (c *Console) Select(ctx context.Context, id int64, a domain.Action) render.Request {
	if !c.allowed(id, string(a)) {
		return render.AdminDenied()
	}
	switch a {
	case domain.ActionOpenAdd:
		c.set(id, domain.PendingAdd)
		return render.PromptFor(render.OpAdd)
	case domain.ActionOpenRemove:
		c.set(id, domain.PendingRemove)
		return render.PromptFor(render.OpRemove)
	}

	c.set(id, domain.PendingNone)
	switch a {
	case domain.ActionList:
		items, overflow, err := c.Ledger.ListAuthorized(ctx, c.PageSize)
		if err != nil {
			return render.ListUnavailable()
		}
		return render.ListView(items, overflow)
	case domain.ActionStats:
		st, err := c.Ledger.Stats(ctx)
		return render.StatsView(st, err == nil)
	case domain.ActionClose:
		return render.Closed()
	default:
		return c.home(ctx)
	}
}

// Reply consumes the admin's pending action with text. It reports false when
// no action was pending, leaving the text for other handlers.
func (c *Console) Reply(ctx context.Context, id int64, text string) (render.Request, bool) {
	pending := c.take(id)
	if pending == domain.PendingNone {
		return render.None(), false
	}
	if !c.allowed(id, "reply") {
		return render.AdminDenied(), true
	}

	var (
		p   *domain.Principal
		err error
		op  render.Op
	)
	switch pending {
	case domain.PendingAdd:
		op = render.OpAdd
		p, err = c.Ledger.Grant(ctx, text, id)
	default:
		op = render.OpRemove
		p, err = c.Ledger.Revoke(ctx, text)
	}
	if err != nil {
		log.Info().Err(err).
			Int64("admin_id", id).
			Str("op", string(op)).
			Msg("allow-list mutation failed")
		return render.Failure(op, reasonOf(err)), true
	}
	log.Info().
		Int64("admin_id", id).
		Str("op", string(op)).
		Int64("principal_id", p.ID).
		Msg("allow-list updated")
	return render.Success(op, p.Label()), true
}

func (c *Console) home(ctx context.Context) render.Request {
	st, err := c.Ledger.Stats(ctx)
	return render.AdminHome(st, err == nil)
}

// allowed is the privilege check for one console entry point.
func (c *Console) allowed(id int64, entry string) bool {
	if c.Admins.IsAdmin(id) {
		return true
	}
	if entry == "" {
		entry = "unknown"
	}
	privilegeDenials.WithLabelValues(entry).Inc()
	log.Warn().
		Str("event", "privilege_denied").
		Int64("principal_id", id).
		Str("entry", entry).
		Msg("non-admin attempted admin action")
	return false
}

func reasonOf(err error) render.Reason {
	switch {
	case errors.Is(err, ErrNotFound):
		return render.ReasonNotFound
	case errors.Is(err, ErrInvalidInput):
		return render.ReasonInvalidInput
	default:
		return render.ReasonStoreUnavailable
	}
}
