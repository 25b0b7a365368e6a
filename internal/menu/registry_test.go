package menu

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_InvokeBeforeRegisterIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Registered())
	assert.NotPanics(t, r.Invoke)

	var nilReg *Registry
	assert.NotPanics(t, nilReg.Invoke)
	assert.NotPanics(t, nilReg.Clear)
	assert.False(t, nilReg.Registered())
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := NewRegistry()
	var first, second int

	r.Register(func() { first++ })
	r.Register(func() { second++ })
	r.Invoke()

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.True(t, r.Registered())
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register(func() { calls++ })
	r.Clear()
	r.Invoke()

	assert.Equal(t, 0, calls)
	assert.False(t, r.Registered())
}

func TestRegistry_CallbackMayReRegister(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register(func() {
		calls++
		r.Register(func() { calls += 10 })
	})

	r.Invoke()
	r.Invoke()
	assert.Equal(t, 11, calls)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var n atomic.Int64
	r.Register(func() { n.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Invoke()
		}()
		go func() {
			defer wg.Done()
			r.Register(func() { n.Add(1) })
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), n.Load())
}
