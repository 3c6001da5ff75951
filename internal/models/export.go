package models

import (
	"encoding/json"
	"os"
)

// writeJSONFile encodes v into path, truncating the file first. Non-ASCII
// text is written as-is and HTML characters are not escaped.
func writeJSONFile(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
