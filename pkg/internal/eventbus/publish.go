package eventbus

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// Start launches the writer loop. It is a no-op after the first call.
func (p *Publisher) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		ctx, p.cancel = context.WithCancel(ctx)
		go p.serve(ctx)
		p.NotifyLoggers(types.InfoLevel, "Event bus started",
			"component", p.componentMetadata,
			"event", "Start",
			"result", "SUCCESS",
			"topic", p.topic,
		)
	})
}

// Stop flushes queued records, closes the producer and waits for the writer loop.
func (p *Publisher) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		if p.cancel == nil {
			return
		}
		p.cancel()
		<-p.done
		if p.producer != nil {
			err = p.producer.Close()
		}
	})
	return err
}

// Publish queues rec without blocking. A full queue drops the record.
func (p *Publisher) Publish(rec Record) {
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	if rec.Subject == "" {
		rec.Subject = p.subject
	}
	if rec.Session == "" {
		rec.Session = p.session
	}
	select {
	case p.queue <- rec:
	default:
		p.statsLock.Lock()
		p.dropped++
		p.statsLock.Unlock()
		p.NotifyLoggers(types.WarnLevel, "Event dropped",
			"component", p.componentMetadata,
			"event", "Publish",
			"result", "FAILURE",
			"record", rec.Event,
		)
	}
}

func (p *Publisher) serve(ctx context.Context) {
	defer close(p.done)

	batch := make([]Record, 0, p.batchMax)
	tick := time.NewTicker(p.batchAge)
	defer tick.Stop()

	for {
		select {
		case rec := <-p.queue:
			batch = append(batch, rec)
			if len(batch) >= p.batchMax {
				batch = p.flush(batch)
			}
		case <-tick.C:
			batch = p.flush(batch)
		case <-ctx.Done():
			for {
				select {
				case rec := <-p.queue:
					batch = append(batch, rec)
				default:
					p.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes batch and returns it emptied. Failures are counted and logged; records are
// not retried.
func (p *Publisher) flush(batch []Record) []Record {
	if len(batch) == 0 {
		return batch
	}
	msgs, err := p.messages(batch)
	if err == nil {
		err = p.write(msgs)
	}

	p.statsLock.Lock()
	if err != nil {
		p.failed += len(batch)
	} else {
		p.published += len(batch)
	}
	p.statsLock.Unlock()

	if err != nil {
		p.NotifyLoggers(types.ErrorLevel, "Kafka produce failed",
			"component", p.componentMetadata,
			"event", "Produce",
			"result", "FAILURE",
			"topic", p.topic,
			"records", len(batch),
			"error", err,
		)
	} else {
		p.NotifyLoggers(types.DebugLevel, "Kafka batch flush",
			"component", p.componentMetadata,
			"event", "BatchFlush",
			"result", "SUCCESS",
			"topic", p.topic,
			"records", len(batch),
		)
	}
	return batch[:0]
}

func (p *Publisher) messages(batch []Record) ([]kafka.Message, error) {
	enc := codec.NewJSONEncoder[Record]()
	msgs := make([]kafka.Message, 0, len(batch))
	for _, rec := range batch {
		var b bytes.Buffer
		if err := enc.Encode(&b, rec); err != nil {
			return nil, fmt.Errorf("eventbus: encode %s: %w", rec.Event, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(rec.RunID),
			Value: b.Bytes(),
			Time:  rec.Time,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(rec.Event)},
				{Key: "subject", Value: []byte(rec.Subject)},
				{Key: "content-type", Value: []byte("application/x-ndjson")},
			},
		})
	}
	return msgs, nil
}

func (p *Publisher) write(msgs []kafka.Message) error {
	if p.producer == nil {
		return fmt.Errorf("eventbus: no producer configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.producer.WriteMessages(ctx, msgs...)
}
