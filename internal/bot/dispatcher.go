// Package bot routes normalized interactions through the access-control core:
// identity bookkeeping first, then either the Authorization Gate (end-user
// commands) or the admin console (buttons, /admin, pending replies).
package bot

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/render"
	"github.com/tbourn/go-access-bot/internal/services"
)

// Dispatcher turns one Interaction into one render.Request. It never returns
// an error: every failure is already a failure render.
type Dispatcher struct {
	Identity *services.IdentityStore
	Gate     *services.Gate
	Console  *services.Console
	AppURL   string
}

// Handle processes in and returns what to show the principal.
func (d *Dispatcher) Handle(ctx context.Context, in domain.Interaction) render.Request {
	tr := otel.Tracer("bot/Dispatcher")
	ctx, span := tr.Start(ctx, "Handle", trace.WithAttributes(
		attribute.Int64("principal.id", in.PrincipalID),
		attribute.String("action", string(in.Action)),
	))
	defer span.End()

	if in.PrincipalID <= 0 {
		return render.None()
	}
	d.Identity.Upsert(ctx, in.PrincipalID, in.Handle, in.DisplayName)

	out := d.route(ctx, in)
	span.SetAttributes(attribute.String("render.kind", string(out.Kind)))
	log.Debug().
		Int64("principal_id", in.PrincipalID).
		Str("action", string(in.Action)).
		Str("kind", string(out.Kind)).
		Msg("interaction handled")
	return out.WithLocale(in.LanguageCode)
}

func (d *Dispatcher) route(ctx context.Context, in domain.Interaction) render.Request {
	if in.Action != domain.ActionNone {
		if !in.Action.Valid() {
			return render.None()
		}
		return d.Console.Select(ctx, in.PrincipalID, in.Action)
	}

	// Commands never consume a pending console session.
	switch in.Command() {
	case "start":
		if d.Gate.Check(ctx, in.PrincipalID) {
			return render.AuthorizedHome(d.AppURL)
		}
		return render.Denied()
	case "help":
		return render.Help()
	case "admin":
		return d.Console.Open(ctx, in.PrincipalID)
	case "":
		if strings.HasPrefix(strings.TrimSpace(in.Text), "/") {
			return render.None()
		}
	default:
		return render.None()
	}

	if r, ok := d.Console.Reply(ctx, in.PrincipalID, in.Text); ok {
		return r
	}
	return render.None()
}
