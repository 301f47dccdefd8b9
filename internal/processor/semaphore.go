package processor

import "context"

// acquire takes an admission slot, blocking while max_concurrent pipelines
// are running. Without a configured limit it never blocks.
func (p *implProcessor) acquire(ctx context.Context) (release func(), err error) {
	if p.sem == nil {
		return func() {}, nil
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { p.sem.Release(1) }, nil
}
