// Package presence reports which collaborators are looking at a notebook.
// RandomSource simulates them: on every tick each collaborator is online
// with a fixed probability and, when online, gets a random cursor.
package presence

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// ErrEmptyEmail is returned when inviting a blank address
var ErrEmptyEmail = errors.New("email must not be empty")

// Cursor is a position in percent of the notebook viewport
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Collaborator is one person sharing the notebook
type Collaborator struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Online   bool    `json:"isOnline"`
	Cursor   *Cursor `json:"cursor,omitempty"`
	LastSeen string  `json:"lastSeen"`
}

// Initials returns the first letter of each name part
func (c Collaborator) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(c.Name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(r)
	}
	return b.String()
}

// Source is a presence feed
type Source interface {
	// Subscribe streams a snapshot after every update until ctx ends, then
	// closes the channel.
	Subscribe(ctx context.Context) <-chan []Collaborator
	Invite(email string) error
	Snapshot() []Collaborator
}

// DefaultCollaborators is the initial roster of the simulation
func DefaultCollaborators() []Collaborator {
	return []Collaborator{
		{ID: "1", Name: "Alice Johnson", Email: "alice@example.com", Online: true, LastSeen: "now"},
		{ID: "2", Name: "Bob Smith", Email: "bob@example.com", Online: false, LastSeen: "5 minutes ago"},
		{ID: "3", Name: "Carol Davis", Email: "carol@example.com", Online: true, LastSeen: "now"},
	}
}

const (
	// DefaultInterval is the time between simulated updates
	DefaultInterval = 5 * time.Second
	// OnlineProbability is the chance a collaborator is online after a tick
	OnlineProbability = 0.7
)

// RandomSource simulates collaborator presence
type RandomSource struct {
	mu            sync.Mutex
	rng           *rand.Rand
	interval      time.Duration
	collaborators []Collaborator
	invitations   []string
}

// Option configures a RandomSource
type Option func(*RandomSource)

// WithRand sets the random generator, for reproducible runs
func WithRand(rng *rand.Rand) Option {
	return func(s *RandomSource) {
		s.rng = rng
	}
}

// WithInterval sets the tick interval
func WithInterval(d time.Duration) Option {
	return func(s *RandomSource) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithCollaborators replaces the initial roster
func WithCollaborators(c []Collaborator) Option {
	return func(s *RandomSource) {
		s.collaborators = clone(c)
	}
}

// NewRandomSource creates a simulated presence source
func NewRandomSource(opts ...Option) *RandomSource {
	s := &RandomSource{
		interval:      DefaultInterval,
		collaborators: DefaultCollaborators(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Interval returns the tick interval
func (s *RandomSource) Interval() time.Duration {
	return s.interval
}

// Tick advances the simulation one step and returns the new snapshot
func (s *RandomSource) Tick() []Collaborator {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.collaborators {
		c := &s.collaborators[i]
		c.Online = s.rng.Float64() < OnlineProbability
		if c.Online {
			c.Cursor = &Cursor{X: s.rng.Float64() * 100, Y: s.rng.Float64() * 100}
			c.LastSeen = "now"
		} else {
			c.Cursor = nil
		}
	}
	return clone(s.collaborators)
}

// Snapshot implements Source
func (s *RandomSource) Snapshot() []Collaborator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.collaborators)
}

// Invite implements Source. The simulation only records the address.
func (s *RandomSource) Invite(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations = append(s.invitations, email)
	return nil
}

// Invitations returns the addresses invited so far
func (s *RandomSource) Invitations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.invitations...)
}

// Subscribe implements Source
func (s *RandomSource) Subscribe(ctx context.Context) <-chan []Collaborator {
	ch := make(chan []Collaborator)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snapshot := s.Tick()
				select {
				case ch <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}

// Online filters the collaborators that are online
func Online(collaborators []Collaborator) []Collaborator {
	var out []Collaborator
	for _, c := range collaborators {
		if c.Online {
			out = append(out, c)
		}
	}
	return out
}

func clone(in []Collaborator) []Collaborator {
	out := make([]Collaborator, len(in))
	for i, c := range in {
		if c.Cursor != nil {
			cur := *c.Cursor
			c.Cursor = &cur
		}
		out[i] = c
	}
	return out
}
var _ Source = (*RandomSource)(nil)
