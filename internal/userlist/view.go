// Package userlist holds the state of the user list view: one fetch per
// mount, committed through explicit transitions.
package userlist

import (
	"context"
	"strings"
	"sync"

	"github.com/tullo/userlist/internal/user"
)

// FallbackMessage is shown for failures that carry no message.
const FallbackMessage = "an error occurred"

// Phase is the lifecycle position of a view.
type Phase int

// Phases of a view.
const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Fetcher retrieves the users to display.
type Fetcher interface {
	List(ctx context.Context) ([]user.User, error)
}

// State is what the view renders from. When Phase is Failed only Err is
// rendered, whatever Users holds.
type State struct {
	Phase Phase
	Users []user.User
	Err   string
}

// View owns the state of one mounted user list. A View is mounted at
// most once; a remount is a new View.
type View struct {
	fetcher Fetcher
	done    chan struct{}

	mu      sync.Mutex
	state   State
	started bool
	mounted bool
	cancel  context.CancelFunc
}

// New returns an idle view reading from f.
func New(f Fetcher) *View {
	return &View{
		fetcher: f,
		done:    make(chan struct{}),
		state:   State{Users: []user.User{}},
	}
}

// Mount starts the one-shot fetch. Calls after the first are no-ops.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return
	}
	v.started = true
	v.mounted = true
	ctx, v.cancel = context.WithCancel(ctx)
	v.state.Phase = Loading
	v.mu.Unlock()

	go v.fetch(ctx)
}

// Unmount drops any result still in flight and cancels the fetch.
// It is safe to call more than once and before Mount.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.mounted = false
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Wait blocks until the fetch has completed or ctx is done.
func (v *View) Wait(ctx context.Context) error {
	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.Users = append([]user.User(nil), v.state.Users...)
	return s
}

func (v *View) fetch(ctx context.Context) {
	defer close(v.done)

	users, err := v.fetcher.List(ctx)
	if err != nil {
		v.onFetchFailure(Message(err))
		return
	}
	v.onFetchSuccess(users)
}

func (v *View) onFetchSuccess(users []user.User) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted || v.state.Phase == Failed {
		return
	}
	v.state.Users = append([]user.User{}, users...)
	v.state.Phase = Loaded
}

func (v *View) onFetchFailure(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted {
		return
	}
	v.state.Err = msg
	v.state.Phase = Failed
}

// Message turns a fetch failure into the text shown to the viewer.
func Message(err error) string {
	if err == nil {
		return FallbackMessage
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return FallbackMessage
}
