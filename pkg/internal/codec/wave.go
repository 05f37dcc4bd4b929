package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// waveMagic opens every waveform frame.
var waveMagic = [4]byte{'T', 'I', 'W', 'F'}

const waveVersion = 1

// ErrBadFrame reports a malformed waveform frame.
var ErrBadFrame = errors.New("codec: bad waveform frame")

// Frame is a synthesized protocol buffer with the metadata needed to replay it.
type Frame struct {
	Kind      types.Kind
	MainOnset float64
	Buffer    types.Buffer
}

// waveHeader is the fixed little-endian frame header. Samples follow as interleaved float64
// pairs, compressed with Compression.
type waveHeader struct {
	Magic       [4]byte
	Version     uint8
	Compression uint8
	Kind        uint8
	_           uint8
	Rate        float64
	MainOnset   float64
	Samples     uint32
	PayloadLen  uint32
}

// WaveEncoder writes frames with a fixed compression.
type WaveEncoder struct {
	Compression Compression
}

// WaveDecoder reads frames of any compression.
type WaveDecoder struct{}

func NewWaveEncoder(c Compression) *WaveEncoder { return &WaveEncoder{Compression: c} }

func NewWaveDecoder() *WaveDecoder { return &WaveDecoder{} }

func (e *WaveEncoder) Encode(w io.Writer, f Frame) error {
	if err := f.Buffer.Validate(); err != nil {
		return err
	}

	raw := make([]byte, 16*f.Buffer.Len())
	for i := range f.Buffer.Ch1 {
		binary.LittleEndian.PutUint64(raw[16*i:], math.Float64bits(f.Buffer.Ch1[i]))
		binary.LittleEndian.PutUint64(raw[16*i+8:], math.Float64bits(f.Buffer.Ch2[i]))
	}
	payload, err := Compress(raw, e.Compression)
	if err != nil {
		return fmt.Errorf("codec: compress %s: %w", e.Compression, err)
	}

	h := waveHeader{
		Magic:       waveMagic,
		Version:     waveVersion,
		Compression: uint8(e.Compression),
		Kind:        uint8(f.Kind),
		Rate:        f.Buffer.Rate,
		MainOnset:   f.MainOnset,
		Samples:     uint32(f.Buffer.Len()),
		PayloadLen:  uint32(len(payload)),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func (d *WaveDecoder) Decode(r io.Reader) (Frame, error) {
	var h waveHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Frame{}, err
	}
	if h.Magic != waveMagic {
		return Frame{}, fmt.Errorf("%w: magic %q", ErrBadFrame, h.Magic[:])
	}
	if h.Version != waveVersion {
		return Frame{}, fmt.Errorf("%w: version %d", ErrBadFrame, h.Version)
	}

	payload := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, fmt.Errorf("%w: payload: %w", ErrBadFrame, err)
	}
	raw, err := Decompress(payload, Compression(h.Compression))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: decompress: %w", ErrBadFrame, err)
	}
	if len(raw) != 16*int(h.Samples) {
		return Frame{}, fmt.Errorf("%w: %d payload bytes for %d samples", ErrBadFrame, len(raw), h.Samples)
	}

	buf := types.NewBuffer(h.Rate, int(h.Samples))
	for i := range buf.Ch1 {
		buf.Ch1[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[16*i:]))
		buf.Ch2[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[16*i+8:]))
	}
	return Frame{Kind: types.Kind(h.Kind), MainOnset: h.MainOnset, Buffer: buf}, nil
}

// MarshalFrame encodes f into a byte slice.
func MarshalFrame(f Frame, c Compression) ([]byte, error) {
	var b bytes.Buffer
	if err := NewWaveEncoder(c).Encode(&b, f); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalFrame decodes a frame produced by MarshalFrame.
func UnmarshalFrame(data []byte) (Frame, error) {
	return NewWaveDecoder().Decode(bytes.NewReader(data))
}
