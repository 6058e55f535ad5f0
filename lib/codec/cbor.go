// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Control messages are small and shallow: an action, a handful of
// scalar fields, and a status reply two levels deep. The limits reject
// hostile or corrupt input before it allocates.
const (
	maxNestedLevels = 16
	maxContainerLen = 1024
)

var (
	encoding = mustEncMode(cbor.CoreDetEncOptions())
	decoding = mustDecMode(cbor.DecOptions{
		// Requests are routed on their "action" key after decoding
		// into a map; map[any]any would need type switches everywhere.
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
		MaxNestedLevels:  maxNestedLevels,
		MaxArrayElements: maxContainerLen,
		MaxMapPairs:      maxContainerLen,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
	})
)

func mustEncMode(options cbor.EncOptions) cbor.EncMode {
	mode, err := options.EncMode()
	if err != nil {
		panic("codec: invalid CBOR encoding options: " + err.Error())
	}
	return mode
}

func mustDecMode(options cbor.DecOptions) cbor.DecMode {
	mode, err := options.DecMode()
	if err != nil {
		panic("codec: invalid CBOR decoding options: " + err.Error())
	}
	return mode
}

// Marshal encodes v deterministically.
func Marshal(v any) ([]byte, error) {
	return encoding.Marshal(v)
}

// Unmarshal decodes data into v. Unknown struct fields are ignored.
func Unmarshal(data []byte, v any) error {
	return decoding.Unmarshal(data, v)
}

// RawMessage holds an encoded value whose decoding is deferred: the
// request body until the action is known, and the response data until
// the caller supplies a result type.
type RawMessage = cbor.RawMessage

// Encoder and Decoder are stream codecs over a connection.
type (
	Encoder = cbor.Encoder
	Decoder = cbor.Decoder
)

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return encoding.NewEncoder(w)
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return decoding.NewDecoder(r)
}
