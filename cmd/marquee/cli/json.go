// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
)

// JSONOutput adds a --json flag to a params struct.
//
//	type statusParams struct {
//	    cli.JSONOutput
//	    Socket string `flag:"socket" desc:"control socket path"`
//	}
//
//	if done, err := params.EmitJSON(out, response); done {
//	    return err
//	}
type JSONOutput struct {
	OutputJSON bool `flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result as indented JSON to w if --json is set. It
// reports false when the caller should print text instead.
func (j *JSONOutput) EmitJSON(w io.Writer, result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(w, result)
}

// WriteJSON writes value as indented JSON.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
