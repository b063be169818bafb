package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListeners_EmitInRegistrationOrder(t *testing.T) {
	var l Listeners[string]
	var got []string

	l.Subscribe(func(s string) { got = append(got, "first:"+s) })
	l.Subscribe(func(s string) { got = append(got, "second:"+s) })

	l.Emit("x")

	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestListeners_SubscribeReturnsDistinctIDs(t *testing.T) {
	var l Listeners[int]

	a := l.Subscribe(func(int) {})
	b := l.Subscribe(func(int) {})

	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, l.Len())
}

func TestListeners_SubscribeNil(t *testing.T) {
	var l Listeners[int]

	id := l.Subscribe(nil)

	assert.Zero(t, id)
	assert.Equal(t, 0, l.Len())
}

func TestListeners_Unsubscribe(t *testing.T) {
	var l Listeners[int]
	calls := 0

	id := l.Subscribe(func(int) { calls++ })
	require.True(t, l.Unsubscribe(id))
	assert.False(t, l.Unsubscribe(id))

	l.Emit(1)

	assert.Equal(t, 0, calls)
}

func TestListeners_UnsubscribeDuringEmit(t *testing.T) {
	var l Listeners[int]
	calls := 0

	var id ID
	id = l.Subscribe(func(int) {
		calls++
		l.Unsubscribe(id)
	})

	l.Emit(1)
	l.Emit(2)

	assert.Equal(t, 1, calls)
}

func TestListeners_PanickingListenerDoesNotBlockOthers(t *testing.T) {
	var l Listeners[int]
	reached := false

	l.Subscribe(func(int) { panic("boom") })
	l.Subscribe(func(int) { reached = true })

	assert.NotPanics(t, func() { l.Emit(1) })
	assert.True(t, reached)
}
