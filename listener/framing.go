// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listener

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxLineBytes bounds one decoded line. A longer line fails the
// connection with bufio.ErrTooLong.
const MaxLineBytes = 64 * 1024

// readMessage decodes r as UTF-16BE until EOF and returns the cleaned
// message. A leading byte order mark is honored and consumed. Any
// read error, including a line over MaxLineBytes, is returned and the
// partial message discarded.
func readMessage(r io.Reader) (string, error) {
	decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, 4096), MaxLineBytes)
	scanner.Split(scanLines)

	var lines []string
	for scanner.Scan() {
		if line := cleanLine(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// cleanLine removes U+FFFD replacement characters (undecodable input)
// and then surrounding whitespace. Stripping first means whitespace
// next to a marker at either end is trimmed too, so " \uFFFD a"
// cleans to "a".
func cleanLine(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, "\uFFFD", ""))
}

// scanLines is a bufio.SplitFunc that terminates lines on "\n",
// "\r\n", or a lone "\r". The terminator is not part of the token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if !atEOF {
			// A trailing '\r' may be the first half of "\r\n".
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
