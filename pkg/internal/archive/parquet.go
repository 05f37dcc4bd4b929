package archive

import (
	"bytes"
	"io"

	parquet "github.com/parquet-go/parquet-go"
)

// EncodeRows writes rows as a zstd-compressed parquet file.
func EncodeRows(rows []EventRow) ([]byte, error) {
	var buf bytes.Buffer
	pw := parquet.NewGenericWriter[EventRow](&buf, parquet.Compression(&parquet.Zstd))
	if _, err := pw.Write(rows); err != nil {
		return nil, err
	}
	if err := pw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeRows reads every row of a parquet file produced by EncodeRows.
func DecodeRows(data []byte) ([]EventRow, error) {
	gr := parquet.NewGenericReader[EventRow](bytes.NewReader(data))
	defer gr.Close()

	out := make([]EventRow, 0, 64)
	batch := make([]EventRow, 64)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
