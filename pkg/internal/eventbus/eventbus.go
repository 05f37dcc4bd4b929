// Package eventbus publishes session events to a Kafka topic as NDJSON records so a lab-wide
// dashboard can follow every running stimulator.
package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

const (
	DefaultQueueSize     = 1024
	DefaultBatchMaxCount = 64
	DefaultBatchMaxAge   = 250 * time.Millisecond
)

// Producer is the subset of *kafka.Writer the publisher uses.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Record is one published session event.
type Record struct {
	Time       time.Time         `json:"time"`
	RunID      string            `json:"run_id,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Session    string            `json:"session,omitempty"`
	Component  string            `json:"component"`
	Event      string            `json:"event"`
	State      string            `json:"state,omitempty"`
	Protocol   string            `json:"protocol,omitempty"`
	Repetition int               `json:"repetition,omitempty"`
	Samples    int               `json:"samples,omitempty"`
	Params     *types.Parameters `json:"params,omitempty"`
	// ParamsHash fingerprints Params so consumers can group records by parameter set.
	ParamsHash string `json:"params_hash,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Publisher batches records and writes them to Kafka from a single goroutine.
type Publisher struct {
	componentMetadata types.ComponentMetadata
	producer          Producer
	topic             string
	subject           string
	session           string
	runID             func() string

	queue    chan Record
	batchMax int
	batchAge time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	statsLock sync.Mutex
	published int
	dropped   int
	failed    int

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// NewPublisher builds a publisher. Without WithBrokers or WithProducer every batch fails and
// is logged.
func NewPublisher(options ...types.Option[*Publisher]) *Publisher {
	p := &Publisher{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "EVENT_BUS",
		},
		topic:    "tistim.sessions",
		batchMax: DefaultBatchMaxCount,
		batchAge: DefaultBatchMaxAge,
		queue:    make(chan Record, DefaultQueueSize),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Stats reports published, dropped and failed record counts.
func (p *Publisher) Stats() (published, dropped, failed int) {
	p.statsLock.Lock()
	defer p.statsLock.Unlock()
	return p.published, p.dropped, p.failed
}

func (p *Publisher) GetComponentMetadata() types.ComponentMetadata {
	return p.componentMetadata
}
