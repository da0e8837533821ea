package core

import (
	"encoding/json"
	"errors"
	"io"
)

// Typo is a typo decoded from the "json" output format.
type Typo struct {
	Path        string   `json:"path"`
	LineNum     int      `json:"line_num"`
	ByteOffset  int      `json:"byte_offset"`
	Typo        string   `json:"typo"`
	Corrections []string `json:"corrections"`
}

// DecodeTypos reads "json" formatted output and returns its typo messages,
// skipping every other message type. Useful for ingestion tests.
func DecodeTypos(r io.Reader) ([]Typo, error) {
	var typos []Typo
	dec := json.NewDecoder(r)
	for {
		var msg struct {
			Type string `json:"type"`
			Typo
		}
		err := dec.Decode(&msg)
		if errors.Is(err, io.EOF) {
			return typos, nil
		}
		if err != nil {
			return nil, err
		}
		if msg.Type == "typo" {
			typos = append(typos, msg.Typo)
		}
	}
}
