// Package async implements the promise-returning facades the process
// model is allowed to suspend on: timers, HTTP GET, and the flat virtual
// filesystem. Every call here starts a goroutine that does the actual
// waiting and, on completion, enqueues a closure onto a Queue; the
// cooperative core only ever runs code when it drains that queue on its
// own turn, which is how single-threaded semantics are preserved without
// an OS-level event loop.
package async

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"webshell/pkg/store"
)

// Queue is the single-slot-at-a-time completion relay every async call
// resolves through, built on the relay-goroutine-plus-channel idiom
// used elsewhere in this module for signal delivery.
type Queue struct {
	ch chan func()
}

// NewQueue creates a Queue with reasonable buffering for a handful of
// concurrently in-flight async calls.
func NewQueue() *Queue {
	return &Queue{ch: make(chan func(), 64)}
}

func (q *Queue) push(fn func()) {
	q.ch <- fn
}

// Drain runs every completion currently queued, without blocking. It is
// called once per event-loop tick by the terminal/shell driver.
func (q *Queue) Drain() {
	for {
		select {
		case fn := <-q.ch:
			fn()
		default:
			return
		}
	}
}

// Wait blocks until either a completion arrives (then drains all
// available ones and returns true) or timeout elapses (returns false).
func (q *Queue) Wait(timeout time.Duration) bool {
	select {
	case fn := <-q.ch:
		fn()
		q.Drain()
		return true
	case <-time.After(timeout):
		return false
	}
}

// Handle is an in-flight cancelable operation. Abort is idempotent.
type Handle struct {
	cancel context.CancelFunc
}

// Abort cancels the in-flight operation. No further resolution occurs
// after Abort, even if the underlying work was already near completion.
func (h *Handle) Abort() {
	if h != nil && h.cancel != nil {
		h.cancel()
	}
}

// StatusError reports a non-200 HTTP response.
type StatusError struct{ Status int }

func (e StatusError) Error() string { return fmt.Sprintf("%d", e.Status) }

// Services bundles the three async facades behind one owner so that
// pkg/builtin constructors only need a single dependency.
type Services struct {
	Queue *Queue
	Store *store.Store
}

// New constructs a Services backed by q and st.
func New(q *Queue, st *store.Store) *Services {
	return &Services{Queue: q, Store: st}
}

// Timeout resolves by calling resolve after d elapses, unless aborted
// first.
func (s *Services) Timeout(d time.Duration, resolve func()) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			s.Queue.push(func() {
				if ctx.Err() == nil {
					resolve()
				}
			})
		case <-ctx.Done():
		}
	}()
	return &Handle{cancel: cancel}
}

// Request issues an HTTP request and resolves with the body on a 200
// response, or with a StatusError otherwise.
func (s *Services) Request(method, url string, timeoutMs int, resolve func(body string, err error)) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	deliver := func(body string, err error) {
		s.Queue.push(func() {
			if ctx.Err() == nil {
				resolve(body, err)
			}
		})
	}
	go func() {
		reqCtx := ctx
		if timeoutMs > 0 {
			var tcancel context.CancelFunc
			reqCtx, tcancel = context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
			defer tcancel()
		}
		req, err := http.NewRequestWithContext(reqCtx, method, url, nil)
		if err != nil {
			deliver("", err)
			return
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return // aborted: no later resolution
			}
			deliver("", err)
			return
		}
		defer resp.Body.Close()
		body, readErr := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			deliver("", StatusError{Status: resp.StatusCode})
			return
		}
		deliver(string(body), readErr)
	}()
	return &Handle{cancel: cancel}
}

// Read, Write, Append, List, Move and Remove are the flat vfs facade.
// They are fire-and-forget and not cancelable: pkg/store has no
// cancellation path, so none is offered here either.

func (s *Services) Read(path string, resolve func(content string, err error)) {
	go func() {
		content, err := s.Store.Read(path)
		s.Queue.push(func() { resolve(content, err) })
	}()
}

func (s *Services) Write(path, content string, resolve func(err error)) {
	go func() {
		err := s.Store.Write(path, content)
		s.Queue.push(func() { resolve(err) })
	}()
}

func (s *Services) Append(path, content string, resolve func(err error)) {
	go func() {
		err := s.Store.Append(path, content)
		s.Queue.push(func() { resolve(err) })
	}()
}

func (s *Services) List(path string, resolve func(keys []string, err error)) {
	go func() {
		keys, err := s.Store.List(path)
		s.Queue.push(func() { resolve(keys, err) })
	}()
}

func (s *Services) Move(path, target string, resolve func(err error)) {
	go func() {
		err := s.Store.Move(path, target)
		s.Queue.push(func() { resolve(err) })
	}()
}

func (s *Services) Remove(path string, resolve func(err error)) {
	go func() {
		err := s.Store.Remove(path)
		s.Queue.push(func() { resolve(err) })
	}()
}
