// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the CBOR configuration of the marqueed control
// socket. Only the control socket speaks CBOR; the TCP message port
// carries plain UTF-16BE text.
//
// Encoding is RFC 8949 core deterministic (sorted map keys, shortest
// integer and float forms), so equal values always encode to equal
// bytes. Decoding bounds nesting and container sizes and rejects
// duplicate map keys.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
package codec
