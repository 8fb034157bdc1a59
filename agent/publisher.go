package agent

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// SourcesTopic tags retrieved-source notifications on the side channel.
const SourcesTopic = "rag_sources"

// PublishFunc delivers one topic-tagged payload to session observers.
// Implementations wrap whatever transport the session runs on.
type PublishFunc func(topic string, payload []byte) error

// SourcesPublisher broadcasts retrieved sources to observers on a bounded
// queue drained by a single consumer goroutine. Publishing is best-effort:
// a full queue drops the payload and a failed delivery is logged and
// discarded, so the turn's main path never blocks on an observer.
type SourcesPublisher struct {
	publish PublishFunc
	queue   chan []byte

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewSourcesPublisher starts the consumer goroutine. buffer bounds the
// number of undelivered payloads held in memory.
func NewSourcesPublisher(publish PublishFunc, buffer int) *SourcesPublisher {
	if buffer <= 0 {
		buffer = 16
	}
	p := &SourcesPublisher{
		publish: publish,
		queue:   make(chan []byte, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *SourcesPublisher) run() {
	defer close(p.done)
	for payload := range p.queue {
		if err := p.publish(SourcesTopic, payload); err != nil {
			logrus.Warnf("AGENT: Sources publish error: %v", err)
		}
	}
}

// Enqueue hands a payload to the consumer without blocking. When the queue
// is full, or the publisher is already closed, the payload is dropped.
func (p *SourcesPublisher) Enqueue(payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		logrus.Warn("AGENT: Sources publisher closed, dropping payload")
		return
	}
	select {
	case p.queue <- payload:
	default:
		logrus.Warn("AGENT: Sources queue full, dropping payload")
	}
}

// Close stops accepting payloads and waits for the consumer to drain the
// queue, making shutdown deterministic.
func (p *SourcesPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}
