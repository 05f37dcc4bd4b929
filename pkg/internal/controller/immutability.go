package controller

import (
	"sync/atomic"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// requireNotStarted panics if a session is already running.
func (c *Controller) requireNotStarted(action string) {
	if atomic.LoadInt32(&c.running) == 1 {
		panic("controller: " + action + " called while running")
	}
}

// SetSink swaps the output device between sessions.
func (c *Controller) SetSink(sink types.Sink) {
	c.requireNotStarted("SetSink")
	c.mu.Lock()
	c.sink = sink
	c.mu.Unlock()
}

// SetSynthesizer swaps the synthesizer between sessions. The armed buffer is kept until the
// next Create. A nil synthesizer is ignored.
func (c *Controller) SetSynthesizer(s types.Synthesizer) {
	c.requireNotStarted("SetSynthesizer")
	if s == nil {
		return
	}
	c.mu.Lock()
	c.synth = s
	c.mu.Unlock()
}

// SetTrigger changes the start trigger line and edge for the next session.
func (c *Controller) SetTrigger(source string, edge types.Edge) {
	c.requireNotStarted("SetTrigger")
	c.mu.Lock()
	c.triggerSource = source
	c.triggerEdge = edge
	c.mu.Unlock()
}

func (c *Controller) SetPollInterval(d time.Duration) {
	c.requireNotStarted("SetPollInterval")
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.pollInterval = d
	c.mu.Unlock()
}

func (c *Controller) SetCommandBuffer(n int) {
	c.requireNotStarted("SetCommandBuffer")
	if n <= 0 {
		return
	}
	c.mu.Lock()
	c.commandBuffer = n
	c.mu.Unlock()
}
