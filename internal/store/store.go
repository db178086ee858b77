// Package store keeps one client-side collection per backend resource.
// Every mutation is a round trip: local items change only after the
// server has answered with its canonical record.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/transport"
)

// ErrEmptyReply means a write succeeded but the server returned no record
// to apply locally.
var ErrEmptyReply = errors.New("server returned no record")

// ErrNotFound means a read for a single record came back empty.
var ErrNotFound = errors.New("record not found")

// MutateFunc is called after a successful create, update or remove.
type MutateFunc func(ctx context.Context, r Resource)

type options struct {
	notifier Notifier
}

// Option configures a Store.
type Option func(*options)

// WithNotifier sets the failure notifier (default: NoopNotifier).
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// Store is the client-side collection of one resource.
type Store[T domain.Entity] struct {
	res      Resource
	req      transport.Requester
	notifier Notifier
	parentID domain.ID

	mu       sync.RWMutex
	items    []T
	loading  int
	version  uint64
	subs     map[int]func()
	nextSub  int
	onMutate []MutateFunc
}

// New creates an empty store for res.
func New[T domain.Entity](req transport.Requester, res Resource, opts ...Option) *Store[T] {
	o := options{notifier: NoopNotifier{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		res:      res,
		req:      req,
		notifier: o.notifier,
		items:    []T{},
		subs:     make(map[int]func()),
	}
}

// ForParent returns a new, empty store whose reads are filtered to the
// children of parentID. Mutation hooks are shared; subscribers are not.
func (s *Store[T]) ForParent(parentID domain.ID) *Store[T] {
	s.mu.RLock()
	hooks := slices.Clone(s.onMutate)
	s.mu.RUnlock()
	return &Store[T]{
		res:      s.res,
		req:      s.req,
		notifier: s.notifier,
		parentID: parentID,
		items:    []T{},
		subs:     make(map[int]func()),
		onMutate: hooks,
	}
}

func (s *Store[T]) Resource() Resource { return s.res }

// ParentID returns the parent filter, or "" for an unscoped store.
func (s *Store[T]) ParentID() domain.ID { return s.parentID }

// Items returns a snapshot of the collection.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Loading reports whether a refresh is in progress.
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// Version increases on every change to the collection.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Find returns the item with id.
func (s *Store[T]) Find(id domain.ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Subscribe registers fn to run after every change. The returned func
// removes it.
func (s *Store[T]) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// OnMutate registers a hook run after each successful write.
func (s *Store[T]) OnMutate(fn MutateFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutate = append(s.onMutate, fn)
}

// Refresh replaces the items wholesale with the server's collection. On
// failure the items are reset to empty and the error is reported once.
// Records that do not decode are dropped and reported once; the rest of
// the collection is kept and Refresh succeeds.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	items, err := transport.List[T](ctx, s.req, s.res.collection(s.parentID))
	var skipped *transport.SkippedRecordsError
	if errors.As(err, &skipped) {
		s.notifier.Notify(ctx, Failure{Resource: s.res.Path, Op: OpDecode, Err: skipped})
		err = nil
	}

	s.mu.Lock()
	s.loading--
	if err != nil {
		s.items = []T{}
	} else {
		s.items = items
	}
	s.version++
	s.mu.Unlock()

	s.changed()
	if err != nil {
		return s.fail(ctx, "refresh", err)
	}
	return nil
}

// Fetch reads one record and replaces the local copy, appending it when
// it is not held yet. It is a read: mutation hooks do not run.
func (s *Store[T]) Fetch(ctx context.Context, id domain.ID) (T, error) {
	var zero T
	rec, err := transport.Get[T](ctx, s.req, s.res.item(id))
	if err == nil && rec == nil {
		err = fmt.Errorf("%s %s: %w", s.res.Path, id, ErrNotFound)
	}
	if err != nil {
		return zero, s.fail(ctx, "fetch", err)
	}
	s.upsert(id, *rec)
	s.changed()
	return *rec, nil
}

// Create posts input and prepends the server's record.
func (s *Store[T]) Create(ctx context.Context, input any) (T, error) {
	var zero T
	rec, err := transport.Send[T](ctx, s.req, s.res.collection(""), http.MethodPost, input)
	if err == nil && rec == nil {
		err = ErrEmptyReply
	}
	if err != nil {
		return zero, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	s.items = append([]T{*rec}, s.items...)
	s.version++
	s.mu.Unlock()

	s.mutated(ctx)
	return *rec, nil
}

// Update patches id with partial and splices the server's record in
// place. A record no longer held locally is appended.
func (s *Store[T]) Update(ctx context.Context, id domain.ID, partial any) (T, error) {
	var zero T
	rec, err := transport.Send[T](ctx, s.req, s.res.item(id), http.MethodPatch, partial)
	if err == nil && rec == nil {
		err = ErrEmptyReply
	}
	if err != nil {
		return zero, s.fail(ctx, "update", err)
	}

	s.upsert(id, *rec)
	s.mutated(ctx)
	return *rec, nil
}

func (s *Store[T]) upsert(id domain.ID, rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.items, func(it T) bool { return it.EntityID() == id })
	if idx >= 0 {
		s.items = slices.Clone(s.items)
		s.items[idx] = rec
	} else {
		s.items = append(s.items, rec)
	}
	s.version++
}

// Remove deletes id on the server, then drops it locally.
func (s *Store[T]) Remove(ctx context.Context, id domain.ID) error {
	if _, err := s.req.Request(ctx, s.res.item(id), http.MethodDelete, nil); err != nil {
		return s.fail(ctx, "remove", err)
	}

	s.mu.Lock()
	s.items = slices.DeleteFunc(slices.Clone(s.items), func(it T) bool { return it.EntityID() == id })
	s.version++
	s.mu.Unlock()

	s.mutated(ctx)
	return nil
}

func (s *Store[T]) fail(ctx context.Context, op string, err error) error {
	s.notifier.Notify(ctx, Failure{Resource: s.res.Path, Op: op, Err: err})
	return fmt.Errorf("%s %s: %w", op, s.res.Path, err)
}

func (s *Store[T]) mutated(ctx context.Context) {
	s.changed()
	s.mu.RLock()
	hooks := slices.Clone(s.onMutate)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(ctx, s.res)
	}
}

func (s *Store[T]) changed() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
