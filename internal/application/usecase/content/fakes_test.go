package content

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	sets    map[string]int
	failSet error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, sets: map[string]int{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet != nil {
		return f.failSet
	}
	f.data[key] = value
	f.sets[key]++
	return nil
}

func (f *fakeKV) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeKV) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key]
}

type fakeFetcher struct {
	doc   *content.Document
	err   error
	gate  chan struct{}
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*content.Document, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.doc.Clone(), nil
}

var errOffline = errors.New("offline")

type fakeRenderer struct {
	mu     sync.Mutex
	calls  int
	last   *content.Document
	states []service.RenderState
}

func (r *fakeRenderer) Render(_ context.Context, doc *content.Document, state service.RenderState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = doc
	r.states = append(r.states, state)
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []content.Event
}

func (p *fakePublisher) PublishContentEvent(_ context.Context, evt content.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	kv        *fakeKV
	fetcher   *fakeFetcher
	renderer  *fakeRenderer
	publisher *fakePublisher
	clock     *fakeClock
	rec       *Reconciler
	store     *Store
}

func newHarness(fetcher *fakeFetcher) *harness {
	h := &harness{
		kv:        newFakeKV(),
		fetcher:   fetcher,
		renderer:  &fakeRenderer{},
		publisher: &fakePublisher{},
		clock:     &fakeClock{t: time.UnixMilli(1_700_000_000_000)},
	}
	h.rec = NewReconciler(h.kv, ReconcilerConfig{}, h.clock.Now, logger.NewNop())
	h.store = h.newStore()
	return h
}

// newStore builds a second store over the same storage, like a page reload.
func (h *harness) newStore() *Store {
	return NewStore(h.fetcher, h.rec, logger.NewNop(),
		WithRenderer(h.renderer),
		WithPublisher(h.publisher),
		WithClock(h.clock.Now),
	)
}

func remoteDoc() *content.Document {
	return &content.Document{
		Site: &content.Site{Title: "Remote"},
		Hero: &content.Hero{Title: "Remote hero", Buttons: []content.Button{}},
		Projects: &content.Projects{Items: []content.Item{
			{ID: "project_1", Title: "One", Description: "first", IsActive: true, Technologies: []string{"Go"}},
		}},
		Certifications: &content.Certifications{Stats: []content.Stat{}, Items: []content.Item{}},
	}
}
