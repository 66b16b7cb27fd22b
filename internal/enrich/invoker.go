package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/adamwrona/verdict/internal/llm"
	"github.com/adamwrona/verdict/internal/prompt"
	"github.com/adamwrona/verdict/internal/validate"
	"github.com/adamwrona/verdict/pkg/models"
)

// ErrAllModelsExhausted indicates every model in the priority list failed
// for one candidate.
var ErrAllModelsExhausted = errors.New("all models exhausted")

// Invoker drives a ranked list of models against one candidate at a time,
// stopping at the first success.
type Invoker struct {
	clients []llm.Client
	timeout time.Duration
	retries int
	limiter *rate.Limiter
	emitter Emitter
}

// InvokerOptions configure model attempts.
type InvokerOptions struct {
	Timeout  time.Duration
	Cooldown time.Duration
	Retries  int
	Emitter  Emitter
}

// NewInvoker builds an invoker over a priority-ordered client list. The
// inter-model cooldown is enforced by a burst-1 rate limiter, so the first
// attempt never waits.
func NewInvoker(clients []llm.Client, opts InvokerOptions) *Invoker {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	limit := rate.Inf
	if opts.Cooldown > 0 {
		limit = rate.Every(opts.Cooldown)
	}
	var em Emitter = opts.Emitter
	if em == nil {
		em = nopEmitter{}
	}
	return &Invoker{
		clients: clients,
		timeout: opts.Timeout,
		retries: opts.Retries,
		limiter: rate.NewLimiter(limit, 1),
		emitter: em,
	}
}

// Invoke attempts each model in order for one candidate test. Any failure
// (transport, timeout, empty content, or validation rejection) advances to
// the next model. The returned insight is stamped with the model that
// produced it.
func (inv *Invoker) Invoke(ctx context.Context, t *models.Test) (*models.Insight, error) {
	doc := prompt.Build(t)

	for _, client := range inv.clients {
		if err := inv.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		text, err := inv.complete(ctx, client, doc)
		if err != nil {
			inv.emitter.Emit(Event{Type: "warn", Message: fmt.Sprintf("model %s: %v", client.Model(), err)})
			continue
		}

		ins, err := validate.Parse(text, t)
		if err != nil {
			inv.emitter.Emit(Event{Type: "warn", Message: fmt.Sprintf("model %s: %v", client.Model(), err)})
			continue
		}

		ins.ModelUsed = client.Model()
		return ins, nil
	}

	return nil, fmt.Errorf("%w for test %q", ErrAllModelsExhausted, t.Title)
}

// complete issues one bounded request, retrying once per the retry budget on
// provider failures. Validation failures are not retried; a malformed answer
// at low temperature is unlikely to heal on resend.
func (inv *Invoker) complete(ctx context.Context, client llm.Client, doc string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= inv.retries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, inv.timeout)
		text, err := client.Complete(callCtx, doc)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}
