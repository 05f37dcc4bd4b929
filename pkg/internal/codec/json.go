package codec

import (
	"encoding/json"
	"io"
)

// JSONEncoder writes one JSON document per line.
type JSONEncoder[T any] struct{}

// JSONDecoder reads one JSON document.
type JSONDecoder[T any] struct{}

func NewJSONEncoder[T any]() Encoder[T] {
	return &JSONEncoder[T]{}
}

func NewJSONDecoder[T any]() Decoder[T] {
	return &JSONDecoder[T]{}
}

// Encode writes the JSON encoding of elem followed by a newline.
func (e *JSONEncoder[T]) Encode(w io.Writer, elem T) error {
	return json.NewEncoder(w).Encode(elem)
}

func (d *JSONDecoder[T]) Decode(r io.Reader) (T, error) {
	var t T
	err := json.NewDecoder(r).Decode(&t)
	return t, err
}
