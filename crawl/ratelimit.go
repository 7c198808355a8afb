package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/askdoc"
	"golang.org/x/time/rate"
)

// Compile-time interface verification.
var _ askdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces requests per domain with token buckets, so a
// multi-domain crawl stays polite to each host while domains proceed
// in parallel. Burst is fixed at 1: the crawl never front-loads a
// host with a spike of requests.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second to each domain.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the domain's bucket allows a request, or the
// context is cancelled.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiterFor(domain).Wait(ctx)
}

func (d *DomainLimiter) limiterFor(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	return limiter
}
