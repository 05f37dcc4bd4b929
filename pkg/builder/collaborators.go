package builder

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hummel-lab/tistim/pkg/internal/archive"
	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/eventbus"
	"github.com/hummel-lab/tistim/pkg/internal/sessionlog"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// S3ClientConfig configures the archive object-store client.
type S3ClientConfig = archive.ClientConfig

// Uploader is the object-store surface the archive needs; *s3.Client satisfies it.
type Uploader = archive.Uploader

// Producer is the message surface the event publisher needs; *kafka.Writer satisfies it.
type Producer = eventbus.Producer

// NewSessionLog opens the per-subject parameter history under dir.
func NewSessionLog(dir, subject, session string, loggers ...types.Logger) *sessionlog.Log {
	return sessionlog.New(dir, subject, session, sessionlog.WithLogger(loggers...))
}

// NewEventPublisher creates a session event publisher.
func NewEventPublisher(options ...types.Option[*eventbus.Publisher]) *eventbus.Publisher {
	return eventbus.NewPublisher(options...)
}

// EventPublisherWithBrokers publishes to topic on a Kafka cluster.
func EventPublisherWithBrokers(brokers []string, topic string) types.Option[*eventbus.Publisher] {
	return eventbus.WithBrokers(brokers, topic)
}

// EventPublisherWithProducer publishes through a caller supplied producer.
func EventPublisherWithProducer(p Producer, topic string) types.Option[*eventbus.Publisher] {
	return eventbus.WithProducer(p, topic)
}

// EventPublisherWithSubject tags every record with the subject and session ids.
func EventPublisherWithSubject(subject, session string) types.Option[*eventbus.Publisher] {
	return eventbus.WithSubject(subject, session)
}

// EventPublisherWithRunID sets the function that supplies the current run id.
func EventPublisherWithRunID(runID func() string) types.Option[*eventbus.Publisher] {
	return eventbus.WithRunID(runID)
}

// EventPublisherWithLogger adds loggers to the publisher.
func EventPublisherWithLogger(l ...types.Logger) types.Option[*eventbus.Publisher] {
	return eventbus.WithLogger(l...)
}

// NewArchive creates a session archive.
func NewArchive(options ...types.Option[*archive.Archive]) *archive.Archive {
	return archive.New(options...)
}

// ArchiveWithUploader sets the object store and bucket.
func ArchiveWithUploader(u Uploader, bucket string) types.Option[*archive.Archive] {
	return archive.WithUploader(u, bucket)
}

// ArchiveWithPrefix sets the object key prefix.
func ArchiveWithPrefix(prefix string) types.Option[*archive.Archive] {
	return archive.WithPrefix(prefix)
}

// ArchiveWithCompression sets the codec applied to the archived waveform.
func ArchiveWithCompression(c codec.Compression) types.Option[*archive.Archive] {
	return archive.WithCompression(c)
}

// ArchiveWithSubject sets the subject and session used in object keys.
func ArchiveWithSubject(subject, session string) types.Option[*archive.Archive] {
	return archive.WithSubject(subject, session)
}

// ArchiveWithRunID sets the function that supplies the current run id.
func ArchiveWithRunID(runID func() string) types.Option[*archive.Archive] {
	return archive.WithRunID(runID)
}

// ArchiveWithLogger adds loggers to the archive.
func ArchiveWithLogger(l ...types.Logger) types.Option[*archive.Archive] {
	return archive.WithLogger(l...)
}

// NewS3Client builds an S3 client, assuming cfg.RoleARN through STS when set.
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	return archive.NewS3Client(ctx, cfg)
}
