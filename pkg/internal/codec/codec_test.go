package codec_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func testBuffer(n int) types.Buffer {
	b := types.NewBuffer(100000, n)
	for i := range b.Ch1 {
		b.Ch1[i] = 2 * math.Cos(2*math.Pi*2000*float64(i)/100000)
		b.Ch2[i] = -b.Ch1[i]
	}
	return b
}

func TestWaveFrame_AllCompressions(t *testing.T) {
	frame := codec.Frame{Kind: types.KindTI, MainOnset: 0.25, Buffer: testBuffer(5000)}

	for _, c := range []codec.Compression{
		codec.CompressNone, codec.CompressDeflate, codec.CompressSnappy,
		codec.CompressZstd, codec.CompressBrotli, codec.CompressLZ4,
	} {
		data, err := codec.MarshalFrame(frame, c)
		if err != nil {
			t.Fatalf("%s: MarshalFrame: %v", c, err)
		}
		got, err := codec.UnmarshalFrame(data)
		if err != nil {
			t.Fatalf("%s: UnmarshalFrame: %v", c, err)
		}
		if got.Kind != types.KindTI || got.MainOnset != 0.25 || got.Buffer.Rate != 100000 {
			t.Fatalf("%s: header mismatch %+v", c, got)
		}
		if got.Buffer.Len() != 5000 {
			t.Fatalf("%s: expected 5000 samples, got %d", c, got.Buffer.Len())
		}
		for i := range frame.Buffer.Ch1 {
			if got.Buffer.Ch1[i] != frame.Buffer.Ch1[i] || got.Buffer.Ch2[i] != frame.Buffer.Ch2[i] {
				t.Fatalf("%s: sample %d differs", c, i)
			}
		}
	}
}

func TestWaveFrame_CompressionShrinksPeriodicSignal(t *testing.T) {
	frame := codec.Frame{Kind: types.KindControl, Buffer: testBuffer(20000)}
	raw, err := codec.MarshalFrame(frame, codec.CompressNone)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}
	packed, err := codec.MarshalFrame(frame, codec.CompressZstd)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}
	if len(packed) >= len(raw) {
		t.Fatalf("expected zstd to shrink a periodic carrier: %d >= %d", len(packed), len(raw))
	}
}

func TestWaveFrame_Rejections(t *testing.T) {
	if _, err := codec.UnmarshalFrame([]byte("NOPE0000000000000000000000000000")); !errors.Is(err, codec.ErrBadFrame) {
		t.Fatalf("expected bad frame, got %v", err)
	}

	data, err := codec.MarshalFrame(codec.Frame{Buffer: testBuffer(10)}, codec.CompressNone)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}
	if _, err := codec.UnmarshalFrame(data[:len(data)-8]); !errors.Is(err, codec.ErrBadFrame) {
		t.Fatalf("expected bad frame for a truncated payload, got %v", err)
	}

	uneven := types.Buffer{Rate: 1000, Ch1: []float64{1, 2}, Ch2: []float64{1}}
	if _, err := codec.MarshalFrame(codec.Frame{Buffer: uneven}, codec.CompressNone); !errors.Is(err, types.ErrDomain) {
		t.Fatalf("expected domain error for uneven channels, got %v", err)
	}
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]codec.Compression{
		"":     codec.CompressNone,
		"ZSTD": codec.CompressZstd,
		"lz4":  codec.CompressLZ4,
	} {
		got, err := codec.ParseCompression(name)
		if err != nil || got != want {
			t.Fatalf("ParseCompression(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := codec.ParseCompression("gzip2"); err == nil {
		t.Fatalf("expected error for unknown compression")
	}
}

func TestJSONEncoder_WritesOneLinePerRecord(t *testing.T) {
	type record struct {
		Event string `json:"event"`
	}
	var b bytes.Buffer
	enc := codec.NewJSONEncoder[record]()
	_ = enc.Encode(&b, record{Event: "run"})
	_ = enc.Encode(&b, record{Event: "stop"})
	if b.String() != "{\"event\":\"run\"}\n{\"event\":\"stop\"}\n" {
		t.Fatalf("unexpected output %q", b.String())
	}
	got, err := codec.NewJSONDecoder[record]().Decode(&b)
	if err != nil || got.Event != "run" {
		t.Fatalf("Decode = %+v, %v", got, err)
	}
}
