package eventbus

import (
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// WithBrokers produces to topic on brokers through a kafka-go Writer keyed by run id.
func WithBrokers(brokers []string, topic string) types.Option[*Publisher] {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
		p.producer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        p.topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			Compression:  kafka.Snappy,
		}
	}
}

// WithProducer injects a producer, e.g. a preconfigured *kafka.Writer.
func WithProducer(producer Producer, topic string) types.Option[*Publisher] {
	return func(p *Publisher) {
		p.producer = producer
		if topic != "" {
			p.topic = topic
		}
	}
}

// WithSubject stamps every record with the subject and session IDs.
func WithSubject(subject, session string) types.Option[*Publisher] {
	return func(p *Publisher) {
		p.subject = subject
		p.session = session
	}
}

// WithRunID sets the run id source used by Attach.
func WithRunID(runID func() string) types.Option[*Publisher] {
	return func(p *Publisher) {
		p.runID = runID
	}
}

// WithBatch bounds a batch by record count and age.
func WithBatch(maxCount int, maxAge time.Duration) types.Option[*Publisher] {
	return func(p *Publisher) {
		if maxCount > 0 {
			p.batchMax = maxCount
		}
		if maxAge > 0 {
			p.batchAge = maxAge
		}
	}
}

// WithQueueSize sets how many records may wait for the writer before new ones are dropped.
func WithQueueSize(n int) types.Option[*Publisher] {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan Record, n)
		}
	}
}

func WithLogger(l ...types.Logger) types.Option[*Publisher] {
	return func(p *Publisher) {
		p.ConnectLogger(l...)
	}
}
