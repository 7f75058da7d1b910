package notifier_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transit/pkg/notifier"
)

func TestEmitter_On(t *testing.T) {
	t.Parallel()

	t.Run("listeners run in registration order", func(t *testing.T) {
		t.Parallel()
		e := notifier.New[int]()

		var order []string
		e.On("tick", func(name string, v int) { order = append(order, "first") })
		e.On("tick", func(name string, v int) { order = append(order, "second") })
		e.On("other", func(name string, v int) { order = append(order, "other") })

		e.Emit("tick", 1)
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("listener receives name and payload", func(t *testing.T) {
		t.Parallel()
		e := notifier.New[string]()

		var gotName, gotPayload string
		e.On("greet", func(name, payload string) {
			gotName, gotPayload = name, payload
		})

		e.Emit("greet", "hello")
		assert.Equal(t, "greet", gotName)
		assert.Equal(t, "hello", gotPayload)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		t.Parallel()
		e := notifier.New[int]()

		calls := 0
		off := e.On("tick", func(string, int) { calls++ })
		e.Emit("tick", 1)
		off()
		e.Emit("tick", 2)

		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, e.ListenerCount("tick"))
	})

	t.Run("nil listener is ignored", func(t *testing.T) {
		t.Parallel()
		e := notifier.New[int]()
		off := e.On("tick", nil)
		require.NotNil(t, off)
		off()
		assert.Equal(t, 0, e.ListenerCount("tick"))
		assert.NotPanics(t, func() { e.Emit("tick", 1) })
	})
}

func TestEmitter_Once(t *testing.T) {
	t.Parallel()
	e := notifier.New[int]()

	calls := 0
	e.Once("tick", func(string, int) { calls++ })
	e.Emit("tick", 1)
	e.Emit("tick", 2)

	assert.Equal(t, 1, calls)
}

func TestEmitter_OnAny(t *testing.T) {
	t.Parallel()
	e := notifier.New[int]()

	var names []string
	off := e.OnAny(func(name string, _ int) { names = append(names, name) })
	e.Emit("a", 1)
	e.Emit("b", 2)
	off()
	e.Emit("c", 3)

	assert.Equal(t, []string{"a", "b"}, names)
}

func TestEmitter_Reentrancy(t *testing.T) {
	t.Parallel()

	t.Run("listener may emit", func(t *testing.T) {
		t.Parallel()
		e := notifier.New[int]()

		var seen []int
		e.On("count", func(name string, v int) {
			seen = append(seen, v)
			if v < 3 {
				e.Emit("count", v+1)
			}
		})

		e.Emit("count", 1)
		assert.Equal(t, []int{1, 2, 3}, seen)
	})

	t.Run("listener added during dispatch runs on next emit", func(t *testing.T) {
		t.Parallel()
		e := notifier.New[int]()

		late := 0
		e.Once("tick", func(string, int) {
			e.On("tick", func(string, int) { late++ })
		})

		e.Emit("tick", 1)
		assert.Equal(t, 0, late)
		e.Emit("tick", 2)
		assert.Equal(t, 1, late)
	})
}

func TestEmitter_ListenerPanic(t *testing.T) {
	t.Parallel()

	var reported error
	e := notifier.New[int](notifier.WithErrorHandler(func(err error) { reported = err }))

	after := false
	e.On("tick", func(string, int) { panic("bad listener") })
	e.On("tick", func(string, int) { after = true })

	assert.NotPanics(t, func() { e.Emit("tick", 1) })
	assert.True(t, after, "dispatch continues after a panicking listener")

	var perr *notifier.ListenerPanicError
	require.ErrorAs(t, reported, &perr)
	assert.Equal(t, "tick", perr.Event)
	assert.Equal(t, "bad listener", perr.Value)
}

func TestEmitter_Clear(t *testing.T) {
	t.Parallel()
	e := notifier.New[int]()

	calls := 0
	e.On("tick", func(string, int) { calls++ })
	e.OnAny(func(string, int) { calls++ })
	e.Clear()
	e.Emit("tick", 1)

	assert.Equal(t, 0, calls)
}

func TestEmitter_Concurrent(t *testing.T) {
	t.Parallel()
	e := notifier.New[int]()

	var mu sync.Mutex
	total := 0
	e.On("add", func(_ string, v int) {
		mu.Lock()
		total += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Emit("add", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, total)
}
