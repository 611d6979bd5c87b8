package common

import (
	"sync"
	"time"
)

// Nonce hands out strictly increasing values for one set of credentials. It
// is seeded from the clock once and then only incremented, so two calls in
// the same clock tick can never collide.
type Nonce struct {
	mut   sync.Mutex
	value int64
	clock func() int64
}

func NewNonce(seed int64) *Nonce {
	return &Nonce{value: seed}
}

// NewClockNonce seeds the counter from clock, which Resync reads again later.
func NewClockNonce(clock func() int64) *Nonce {
	return &Nonce{value: clock(), clock: clock}
}

func NewMilliNonce() *Nonce {
	return NewClockNonce(func() int64 { return time.Now().UnixMilli() })
}

func NewMicroNonce() *Nonce {
	return NewClockNonce(func() int64 { return time.Now().UnixMicro() })
}

func NewSecondNonce() *Nonce {
	return NewClockNonce(func() int64 { return time.Now().Unix() })
}

func (n *Nonce) Next() int64 {
	n.mut.Lock()
	defer n.mut.Unlock()

	n.value++
	return n.value
}

// Reset moves the counter forward to seed. It never moves it backwards.
func (n *Nonce) Reset(seed int64) {
	n.mut.Lock()
	if seed > n.value {
		n.value = seed
	}
	n.mut.Unlock()
}

// Resync moves the counter up to the current clock reading, if it has one.
func (n *Nonce) Resync() {
	if n.clock == nil {
		return
	}
	n.Reset(n.clock())
}
