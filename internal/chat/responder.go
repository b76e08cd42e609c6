package chat

import (
	"context"
	"math/rand/v2"
	"sync"

	"adspark/internal/models"
)

// RandomResponder answers with a canned response chosen uniformly at
// random, ignoring the input.
type RandomResponder struct {
	mu        sync.Mutex
	responses []string
	rnd       *rand.Rand
}

// NewRandomResponder uses rnd when non-nil, otherwise a randomly seeded
// source.
func NewRandomResponder(responses []string, rnd *rand.Rand) *RandomResponder {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if len(responses) == 0 {
		responses = DefaultScript().Responses
	}
	return &RandomResponder{
		responses: append([]string(nil), responses...),
		rnd:       rnd,
	}
}

func (r *RandomResponder) Respond(ctx context.Context, input string, campaign *models.Campaign) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.responses[r.rnd.IntN(len(r.responses))], nil
}
