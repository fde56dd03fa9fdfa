package portal

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/pkg/metrics"
)

// Prompt is the yes/no question currently shown to the user.
type Prompt struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AnswerFunc receives the outcome of a prompt exactly once.
type AnswerFunc func(ctx context.Context, confirmed bool)

type pendingPrompt struct {
	Prompt
	onAnswer AnswerFunc
}

// Prompter is the single reusable confirmation dialog of a session. Each
// question carries its own one-shot handler, which is detached as soon as
// the question is answered, cancelled or replaced.
type Prompter struct {
	mu      sync.Mutex
	pending *pendingPrompt
}

func NewPrompter() *Prompter {
	return &Prompter{}
}

// Ask shows message and returns the prompt id. A question still pending is
// resolved as not confirmed first.
func (p *Prompter) Ask(ctx context.Context, message string, onAnswer AnswerFunc) string {
	next := &pendingPrompt{
		Prompt:   Prompt{ID: uuid.NewString(), Message: message},
		onAnswer: onAnswer,
	}

	p.mu.Lock()
	prev := p.pending
	p.pending = next
	p.mu.Unlock()

	if prev != nil {
		metrics.PromptsTotal.WithLabelValues("superseded").Inc()
		prev.onAnswer(ctx, false)
	}
	return next.ID
}

// Resolve answers the prompt with the given id and runs its handler on the
// calling goroutine. A prompt that is no longer pending yields
// domain.ErrPromptClosed.
func (p *Prompter) Resolve(ctx context.Context, id string, confirmed bool) error {
	pp := p.take(id)
	if pp == nil {
		return domain.ErrPromptClosed
	}

	answer := "cancelled"
	if confirmed {
		answer = "confirmed"
	}
	metrics.PromptsTotal.WithLabelValues(answer).Inc()
	pp.onAnswer(ctx, confirmed)
	return nil
}

// Cancel resolves whatever is pending as not confirmed.
func (p *Prompter) Cancel(ctx context.Context) {
	p.mu.Lock()
	pp := p.pending
	p.pending = nil
	p.mu.Unlock()

	if pp != nil {
		metrics.PromptsTotal.WithLabelValues("cancelled").Inc()
		pp.onAnswer(ctx, false)
	}
}

// Pending returns the question on screen, if any.
func (p *Prompter) Pending() *Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return nil
	}
	out := p.pending.Prompt
	return &out
}

// confirm asks message and blocks until it is answered or ctx ends. On
// ctx end the prompt is withdrawn and false is returned with ctx's error.
func (p *Prompter) confirm(ctx context.Context, message string) (bool, error) {
	answer := make(chan bool, 1)
	id := p.Ask(ctx, message, func(_ context.Context, ok bool) { answer <- ok })

	select {
	case ok := <-answer:
		return ok, nil
	case <-ctx.Done():
		_ = p.Resolve(context.WithoutCancel(ctx), id, false)
		return false, ctx.Err()
	}
}

func (p *Prompter) take(id string) *pendingPrompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil || p.pending.ID != id {
		return nil
	}
	pp := p.pending
	p.pending = nil
	return pp
}
