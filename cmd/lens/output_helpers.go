package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// encodeJSON writes value as indented JSON, one document per call.
func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}
	return nil
}

func encodeJSONToStdout(value any) error {
	return encodeJSON(os.Stdout, value)
}
