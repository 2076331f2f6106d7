package events

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
)

func TestNewShortCode(t *testing.T) {
	code, err := NewShortCode(bytes.NewReader([]byte{0, 1, 2, 31, 32, 33, 255, 8, 24}))
	require.NoError(t, err)
	assert.Equal(t, "ABC-9AB-9J2", code)
	assert.True(t, IsShortCode(code))

	for range 50 {
		code, err := NewShortCode(nil)
		require.NoError(t, err)
		assert.True(t, IsShortCode(code), code)
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "1")
	}

	_, err = NewShortCode(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestIsShortCode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ABC-DEF-GH2", true},
		{"abc-def-gh2", true},
		{"ABC-DEF-GH0", false},
		{"ABCDEFGH2", false},
		{"ABC-DEF-GH", false},
		{"ABC_DEF_GH2", false},
		{"ABC-DEF-GHI", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsShortCode(tt.in), tt.in)
	}
}

// takenStore reports every code as taken.
type takenStore struct{ *memStore }

func (takenStore) ShortCodeTaken(context.Context, string) (bool, error) { return true, nil }

func TestCreateEventGivesUpOnShortCodeCollisions(t *testing.T) {
	mem := newMemStore()
	svc := NewService(takenStore{mem}, mem, Config{})
	_, err := svc.CreateEvent(context.Background(), owner, testRoom, NewEvent{Name: "x"})
	requireCode(t, err, apperrors.CodeInternal)
	assert.Empty(t, mem.events)
}
