package bot

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-access-bot/internal/domain"
	"github.com/tbourn/go-access-bot/internal/render"
)

// ErrStopped is returned by Submit once Run has exited.
var ErrStopped = errors.New("dispatcher stopped")

// Handler is satisfied by *Dispatcher.
type Handler interface {
	Handle(ctx context.Context, in domain.Interaction) render.Request
}

type job struct {
	ctx   context.Context
	in    domain.Interaction
	reply chan render.Request
}

// Serial handles interactions one at a time in submission order. Callers on
// any goroutine Submit; a single Run loop executes them.
type Serial struct {
	h    Handler
	jobs chan job
	done chan struct{}
}

// NewSerial returns a queue in front of h holding up to backlog waiting
// interactions before Submit blocks.
func NewSerial(h Handler, backlog int) *Serial {
	if backlog < 0 {
		backlog = 0
	}
	return &Serial{h: h, jobs: make(chan job, backlog), done: make(chan struct{})}
}

// Run executes queued interactions until ctx is cancelled.
func (s *Serial) Run(ctx context.Context) error {
	defer close(s.done)
	log.Info().Msg("dispatcher started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("dispatcher stopped")
			return nil
		case j := <-s.jobs:
			if j.ctx.Err() != nil {
				continue
			}
			j.reply <- s.handle(j)
		}
	}
}

// handle runs one job. A panicking handler yields render.None so the loop
// keeps serving later interactions.
func (s *Serial) handle(j job) (r render.Request) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().
				Str("event", "dispatch_panic").
				Int64("principal_id", j.in.PrincipalID).
				Interface("panic", p).
				Msg("interaction handler panicked")
			r = render.None()
		}
	}()
	return s.h.Handle(j.ctx, j.in)
}

// Submit queues in and waits for its render request.
func (s *Serial) Submit(ctx context.Context, in domain.Interaction) (render.Request, error) {
	j := job{ctx: ctx, in: in, reply: make(chan render.Request, 1)}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return render.None(), ctx.Err()
	case <-s.done:
		return render.None(), ErrStopped
	}
	select {
	case r := <-j.reply:
		return r, nil
	case <-ctx.Done():
		return render.None(), ctx.Err()
	case <-s.done:
		select {
		case r := <-j.reply:
			return r, nil
		default:
			return render.None(), ErrStopped
		}
	}
}
