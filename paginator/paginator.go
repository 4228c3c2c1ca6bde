// Package paginator turns a cursor based list endpoint into incremental
// "load more" state.
package paginator

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

type State int

const (
	Idle State = iota
	Loading
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// FetchFunc loads the page that follows cursor.
type FetchFunc[T any] func(ctx context.Context, cursor int64) (Page[T], error)

// Paginator holds an append-only list and the cursor of the next page.
type Paginator[T any] struct {
	fetch FetchFunc[T]

	mu     sync.Mutex
	items  []T
	cursor *int64
	state  State
	gen    uint64 // bumped by Reset and Close; results of older fetches are dropped
	closed bool
}

// New starts from the first page, usually rendered on the server.
func New[T any](initial []T, cursor *int64, fetch FetchFunc[T]) *Paginator[T] {
	p := &Paginator[T]{fetch: fetch}
	p.resetLocked(initial, cursor)
	return p
}

// FromPage is New for a Page.
func FromPage[T any](first Page[T], fetch FetchFunc[T]) *Paginator[T] {
	return New(first.Items, first.Cursor, fetch)
}

// LoadMore fetches the next page and appends it. It does nothing while a load
// is running or once the list is exhausted. A failed fetch leaves items and
// cursor untouched and returns the error.
func (p *Paginator[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.closed || p.state != Idle || p.cursor == nil {
		p.mu.Unlock()
		return nil
	}
	p.state = Loading
	cursor := *p.cursor
	gen := p.gen
	p.mu.Unlock()

	page, err := p.fetch(ctx, cursor)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Int64("cursor", cursor).Msg("Error loading more data")
		p.state = Idle
		return err
	}

	p.items = append(p.items, page.Items...)
	p.cursor = page.Cursor
	if p.cursor == nil {
		p.state = Exhausted
	} else {
		p.state = Idle
	}
	return nil
}

// Reset replaces the whole state, for example after the first page was
// fetched again. A load in progress is forgotten.
func (p *Paginator[T]) Reset(initial []T, cursor *int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.resetLocked(initial, cursor)
}

// Close marks the consumer as gone. Later results are discarded.
func (p *Paginator[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.closed = true
}

func (p *Paginator[T]) resetLocked(initial []T, cursor *int64) {
	p.items = slices.Clone(initial)
	if cursor != nil {
		c := *cursor
		p.cursor = &c
		p.state = Idle
	} else {
		p.cursor = nil
		p.state = Exhausted
	}
}

// Items returns a copy of the loaded items in backend order.
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

func (p *Paginator[T]) Cursor() *int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor == nil {
		return nil
	}
	c := *p.cursor
	return &c
}

func (p *Paginator[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Paginator[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor != nil
}
