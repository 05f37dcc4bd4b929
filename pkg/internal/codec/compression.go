package codec

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Compression selects the payload compression algorithm.
type Compression uint8

const (
	CompressNone Compression = iota
	CompressDeflate
	CompressSnappy
	CompressZstd
	CompressBrotli
	CompressLZ4
)

var compressionNames = map[Compression]string{
	CompressNone:    "none",
	CompressDeflate: "deflate",
	CompressSnappy:  "snappy",
	CompressZstd:    "zstd",
	CompressBrotli:  "brotli",
	CompressLZ4:     "lz4",
}

func (c Compression) String() string {
	if s, ok := compressionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

// Extension returns a file suffix for the algorithm, empty for none.
func (c Compression) Extension() string {
	switch c {
	case CompressDeflate:
		return ".deflate"
	case CompressSnappy:
		return ".sz"
	case CompressZstd:
		return ".zst"
	case CompressBrotli:
		return ".br"
	case CompressLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompression resolves an algorithm name. Empty means none.
func ParseCompression(s string) (Compression, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return CompressNone, nil
	}
	for c, n := range compressionNames {
		if n == name {
			return c, nil
		}
	}
	return CompressNone, fmt.Errorf("unsupported compression: %q", s)
}

// Compress encodes data with algorithm c.
func Compress(data []byte, c Compression) ([]byte, error) {
	var b bytes.Buffer
	var w io.WriteCloser

	switch c {
	case CompressNone:
		return data, nil
	case CompressDeflate:
		fw, err := flate.NewWriter(&b, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		w = fw
	case CompressSnappy:
		w = snappy.NewBufferedWriter(&b)
	case CompressZstd:
		zw, err := zstd.NewWriter(&b)
		if err != nil {
			return nil, err
		}
		w = zw
	case CompressBrotli:
		w = brotli.NewWriterLevel(&b, brotli.DefaultCompression)
	case CompressLZ4:
		w = lz4.NewWriter(&b)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte, c Compression) ([]byte, error) {
	src := bytes.NewReader(data)
	var r io.Reader

	switch c {
	case CompressNone:
		return data, nil
	case CompressDeflate:
		fr := flate.NewReader(src)
		defer fr.Close()
		r = fr
	case CompressSnappy:
		r = snappy.NewReader(src)
	case CompressZstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case CompressBrotli:
		r = brotli.NewReader(src)
	case CompressLZ4:
		r = lz4.NewReader(src)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", c)
	}
	return io.ReadAll(r)
}
