// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress holds the shared 0-100 conversion progress value and
// fans changes out to subscribers such as the decorative visualization.
package progress

import "sync"

const (
	Min = 0
	Max = 100
)

// Visualizer is a component that reacts to progress, for example the
// ambient particle field. It only ever receives the numeric value.
type Visualizer interface {
	SetProgress(percent int)
}

// Signal is an observable progress value. The zero value is ready to use.
type Signal struct {
	mu     sync.Mutex
	value  int
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(int)
}

// Set stores v clamped to [Min, Max] and notifies every subscriber in
// subscription order. Subscribers run on the caller's goroutine after the
// lock is released, so they may read the signal.
func (s *Signal) Set(v int) {
	v = clamp(v)

	s.mu.Lock()
	s.value = v
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Value returns the current progress.
func (s *Signal) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe registers fn for future changes and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (s *Signal) Subscribe(fn func(int)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Attach forwards every change of sig to v, starting with the current value.
func Attach(sig *Signal, v Visualizer) (detach func()) {
	v.SetProgress(sig.Value())
	return sig.Subscribe(v.SetProgress)
}

func clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}
