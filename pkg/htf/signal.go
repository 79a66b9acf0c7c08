package htf

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
)

var defaultSignalPort = &osSignalPort{}

// osSignalPort forwards os.Interrupt to the most recently registered handler.
type osSignalPort struct {
	mu      sync.Mutex
	handler func()
	ch      chan os.Signal
}

// Notify implements SignalPort.
func (p *osSignalPort) Notify(handler func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handler = handler

	if p.ch == nil {
		p.ch = make(chan os.Signal, 1)
		signal.Notify(p.ch, os.Interrupt)

		go p.loop(p.ch)
	}
}

func (p *osSignalPort) loop(ch chan os.Signal) {
	for range ch {
		p.mu.Lock()
		handler := p.handler
		p.mu.Unlock()

		if handler != nil {
			handler()
		}
	}
}

// Reraise implements SignalPort. The handler stays registered for the next
// Notify.
func (p *osSignalPort) Reraise() {
	p.mu.Lock()

	if p.ch != nil {
		signal.Stop(p.ch)
		close(p.ch)
		p.ch = nil
	}

	p.mu.Unlock()

	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		slog.Error("Failed to re-raise interrupt", "error", err)
		return
	}

	if err := proc.Signal(os.Interrupt); err != nil {
		slog.Error("Failed to re-raise interrupt", "error", err)
	}
}
