package service

import (
	"math/rand"
	"sync"

	projdomain "github.com/playautopublish/console-backend/internal/projects/domain"
	projservice "github.com/playautopublish/console-backend/internal/projects/service"
)

// PolicyFailureMessage is the message attached to the Policy Validation
// step when the failure branch fires.
const PolicyFailureMessage = "Privacy policy URL is missing"

// FailureDecider decides, after the Policy Validation step has completed,
// whether to retroactively fail it. Injectable so tests force both
// outcomes deterministically.
type FailureDecider interface {
	ShouldFail(p projdomain.Project) bool
}

// RandomDecider recreates the reference behavior: a fixed post-completion
// failure chance regardless of project contents.
type RandomDecider struct {
	Rate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomDecider(rate float64, seed int64) *RandomDecider {
	return &RandomDecider{Rate: rate, rng: rand.New(rand.NewSource(seed))}
}

func (d *RandomDecider) ShouldFail(projdomain.Project) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() < d.Rate
}

// PolicyDecider is the production-shaped check: fail exactly when the
// project's privacy policy URL does not satisfy the listing predicate.
type PolicyDecider struct{}

func (PolicyDecider) ShouldFail(p projdomain.Project) bool {
	return !projservice.ValidPrivacyPolicyURL(p.Metadata.PrivacyPolicyURL)
}

// FixedDecider always returns its value; test helper.
type FixedDecider bool

func (d FixedDecider) ShouldFail(projdomain.Project) bool {
	return bool(d)
}
