package presence

import (
	"context"
	"math/rand"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDefaultRoster(t *testing.T) {
	s := NewRandomSource(WithRand(rand.New(rand.NewSource(1))))
	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "Alice Johnson", snap[0].Name)
	assert.Equal(t, "AJ", snap[0].Initials())
	assert.False(t, snap[1].Online)
	assert.Equal(t, "5 minutes ago", snap[1].LastSeen)
	assert.Len(t, Online(snap), 2)
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Alice Johnson", "AJ"},
		{"Émile Ørsted", "ÉØ"},
		{"  李 小龙 ", "李小"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collaborator{Name: tt.name}.Initials()
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTickCursorsAndOnlineRatio(t *testing.T) {
	s := NewRandomSource(WithRand(rand.New(rand.NewSource(42))))

	online := 0
	total := 0
	for i := 0; i < 200; i++ {
		for _, c := range s.Tick() {
			total++
			if !c.Online {
				assert.Nil(t, c.Cursor)
				continue
			}
			online++
			require.NotNil(t, c.Cursor)
			assert.GreaterOrEqual(t, c.Cursor.X, 0.0)
			assert.Less(t, c.Cursor.X, 100.0)
			assert.GreaterOrEqual(t, c.Cursor.Y, 0.0)
			assert.Less(t, c.Cursor.Y, 100.0)
		}
	}
	ratio := float64(online) / float64(total)
	assert.InDelta(t, OnlineProbability, ratio, 0.1)
}

func TestTickReproducible(t *testing.T) {
	a := NewRandomSource(WithRand(rand.New(rand.NewSource(7))))
	b := NewRandomSource(WithRand(rand.New(rand.NewSource(7))))
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Tick(), b.Tick())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewRandomSource(WithRand(rand.New(rand.NewSource(3))))
	snap := s.Snapshot()
	snap[0].Name = "changed"
	assert.Equal(t, "Alice Johnson", s.Snapshot()[0].Name)
}

func TestInvite(t *testing.T) {
	s := NewRandomSource()
	assert.ErrorIs(t, s.Invite("   "), ErrEmptyEmail)
	require.NoError(t, s.Invite(" dana@example.com "))
	assert.Equal(t, []string{"dana@example.com"}, s.Invitations())
}

func TestSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewRandomSource(
		WithRand(rand.New(rand.NewSource(9))),
		WithInterval(5*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)

	for i := 0; i < 3; i++ {
		select {
		case snap := <-ch:
			assert.Len(t, snap, 3)
		case <-time.After(time.Second):
			t.Fatal("no presence update")
		}
	}

	cancel()
	for range ch {
	}
}
