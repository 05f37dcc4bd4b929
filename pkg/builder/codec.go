package builder

import "github.com/hummel-lab/tistim/pkg/internal/codec"

// WaveFrame is a synthesized buffer with its protocol kind and main-signal onset.
type WaveFrame = codec.Frame

// Compression selects the codec applied to exported waveform frames.
type Compression = codec.Compression

const (
	CompressNone    = codec.CompressNone
	CompressDeflate = codec.CompressDeflate
	CompressSnappy  = codec.CompressSnappy
	CompressZstd    = codec.CompressZstd
	CompressBrotli  = codec.CompressBrotli
	CompressLZ4     = codec.CompressLZ4
)

// ParseCompression resolves a codec name such as "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	return codec.ParseCompression(s)
}

// MarshalWaveFrame encodes f with the TIWF header and compresses the result.
func MarshalWaveFrame(f WaveFrame, c Compression) ([]byte, error) {
	return codec.MarshalFrame(f, c)
}

// UnmarshalWaveFrame reverses MarshalWaveFrame. The compression is read from the data.
func UnmarshalWaveFrame(data []byte) (WaveFrame, error) {
	return codec.UnmarshalFrame(data)
}
