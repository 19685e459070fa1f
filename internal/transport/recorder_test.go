package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	id1, err := r.SendText(ctx, 5, "one", nil)
	require.NoError(t, err)
	id2, err := r.SendDice(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, id1)
	assert.Equal(t, 101, id2)

	require.NoError(t, r.SendTyping(ctx, 5))
	r.DeleteErr = errors.New("gone")
	assert.Error(t, r.DeleteMessage(ctx, 5, id1))

	kinds := []string{}
	for _, e := range r.Events() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{EventText, EventDice, EventTyping, EventDelete}, kinds)
	assert.Equal(t, []string{"one"}, r.Texts())

	r.Reset()
	assert.Empty(t, r.Events())
	id3, _ := r.SendText(ctx, 5, "two", nil)
	assert.Equal(t, 102, id3)

	last, ok := r.LastText()
	require.True(t, ok)
	assert.Equal(t, "two", last.Text)
}
