package archive_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hummel-lab/tistim/pkg/internal/archive"
	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/sensor"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func (f *fakeUploader) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestArchive_FlushUploadsEventsAndWaveform(t *testing.T) {
	up := &fakeUploader{}
	a := archive.New(
		archive.WithUploader(up, "lab-bucket"),
		archive.WithPrefix("studies/ti"),
		archive.WithSubject("S01", "ses1"),
		archive.WithRunID(func() string { return "run-1" }),
		archive.WithCompression(codec.CompressLZ4),
		archive.WithClock(func() time.Time { return time.Unix(100, 0) }),
	)
	s := sensor.NewSensor()
	a.Attach(s)

	meta := types.ComponentMetadata{Type: "CONTROLLER"}
	params := types.DefaultParameters()
	params.AmplitudeRatio = 3
	s.InvokeOnRepetitionStart(meta, 1, types.KindCTBS, params)
	s.InvokeOnSamplesWritten(meta, 1000)
	s.InvokeOnStop(meta, 1, types.KindCTBS, params)
	s.InvokeOnComplete(meta, 1)

	buf := types.NewBuffer(1000, 100)
	buf.Ch1[10] = 1.5
	a.SetWaveform(codec.Frame{Kind: types.KindCTBS, Buffer: buf})

	keys, err := a.Flush(context.Background())
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := []string{"studies/ti/S01/ses1/run-1/events.parquet", "studies/ti/S01/ses1/run-1/waveform.tiwf.lz4"}
	if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("unexpected keys %v", keys)
	}

	rows, err := archive.DecodeRows(up.objects["lab-bucket/"+want[0]])
	if err != nil {
		t.Fatalf("DecodeRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Event != "repetition_start" || first.Protocol != "cTBS" || first.Amplitude2 != 3 ||
		first.RunID != "run-1" || first.Subject != "S01" || first.TimeUnixNano != 100*int64(time.Second) {
		t.Fatalf("unexpected first row %+v", first)
	}
	if rows[1].Samples != 1000 {
		t.Fatalf("expected samples row, got %+v", rows[1])
	}

	frame, err := codec.UnmarshalFrame(up.objects["lab-bucket/"+want[1]])
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}
	if frame.Buffer.Len() != 100 || frame.Buffer.Ch1[10] != 1.5 {
		t.Fatalf("waveform mismatch")
	}

	if len(a.Rows()) != 0 {
		t.Fatalf("expected rows cleared after flush")
	}
}

func TestArchive_FlushFailureKeepsRows(t *testing.T) {
	up := &fakeUploader{fail: errors.New("access denied")}
	a := archive.New(archive.WithUploader(up, "b"))
	s := sensor.NewSensor()
	a.Attach(s)
	s.InvokeOnError(types.ComponentMetadata{}, types.ErrHardware)

	if _, err := a.Flush(context.Background()); err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("expected upload error, got %v", err)
	}
	rows := a.Rows()
	if len(rows) != 1 || rows[0].Error != types.ErrHardware.Error() {
		t.Fatalf("expected fault row retained, got %+v", rows)
	}

	if _, err := archive.New().Flush(context.Background()); err == nil {
		t.Fatalf("expected error without a bucket")
	}
}
