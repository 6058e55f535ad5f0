// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sampleRequest struct {
	Action  string  `cbor:"action"`
	Opacity float64 `cbor:"opacity,omitempty"`
	Color   uint32  `cbor:"color"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRequest{
		Action:  "set-background-opacity",
		Opacity: 0.25,
		Color:   0xFF0000FF,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRequest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	request := map[string]any{"action": "set-position", "x": 10, "y": -4}

	first, err := Marshal(request)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(request)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestDecodeIntoAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"action": "status"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	fields, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if fields["action"] != "status" {
		t.Errorf("action = %v, want status", fields["action"])
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	requests := []sampleRequest{
		{Action: "status"},
		{Action: "set-text-color", Color: 0xFFFF0000},
	}
	for _, request := range requests {
		if err := encoder.Encode(request); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for index, want := range requests {
		var got sampleRequest
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode %d: %v", index, err)
		}
		if got != want {
			t.Errorf("message %d: got %+v, want %+v", index, got, want)
		}
	}
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	// {"action": "stop", "action": "start"}
	data := []byte{
		0xa2,
		0x66, 'a', 'c', 't', 'i', 'o', 'n', 0x64, 's', 't', 'o', 'p',
		0x66, 'a', 'c', 't', 'i', 'o', 'n', 0x65, 's', 't', 'a', 'r', 't',
	}
	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err == nil {
		t.Errorf("Unmarshal accepted duplicate keys: %v", decoded)
	}
}

func TestDecodeRejectsDeepNesting(t *testing.T) {
	// 32 nested one-element arrays.
	data := bytes.Repeat([]byte{0x81}, 32)
	data = append(data, 0x00)
	var decoded any
	if err := Unmarshal(data, &decoded); err == nil {
		t.Error("Unmarshal accepted nesting beyond the limit")
	}
}
