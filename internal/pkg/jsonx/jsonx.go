// Package jsonx decodes JSON without losing integer precision.
package jsonx

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
)

var ErrTrailingData = errors.New("jsonx: unexpected data after top-level value")

// Unmarshal is json.Unmarshal with numbers kept as json.Number when the
// destination is untyped, so ids above 2^53 survive a decode/encode round trip.
func Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}
