package narrate

import (
	"context"
)

// Pending is the result slot of one narration request.
//
// One goroutine writes the result once; the UI loop reads it with Poll.
// The buffered channel lets the writer finish even if nobody polls again.
type Pending struct {
	ch     chan []string
	cancel context.CancelFunc
	result []string
	done   bool
}

// Start issues the request in the background and returns immediately.
func Start(ctx context.Context, f Fetcher, lines []Line) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{
		ch:     make(chan []string, 1),
		cancel: cancel,
	}
	go func() {
		defer cancel()
		p.ch <- Explain(ctx, f, lines)
	}()
	return p
}

// Resolved returns a slot that already holds result.
func Resolved(result []string) *Pending {
	return &Pending{result: result, done: true, cancel: func() {}}
}

// Poll reports the result if it has arrived. It never blocks.
func (p *Pending) Poll() ([]string, bool) {
	if p.done {
		return p.result, true
	}
	select {
	case r := <-p.ch:
		p.result = r
		p.done = true
		return r, true
	default:
		return nil, false
	}
}

// Wait blocks until the result arrives or ctx ends. Headless callers use it.
func (p *Pending) Wait(ctx context.Context) ([]string, bool) {
	if p.done {
		return p.result, true
	}
	select {
	case r := <-p.ch:
		p.result = r
		p.done = true
		return r, true
	case <-ctx.Done():
		return nil, false
	}
}

// Cancel abandons the request. A later Poll may still see an error entry.
func (p *Pending) Cancel() {
	p.cancel()
}
