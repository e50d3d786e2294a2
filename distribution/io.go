package distribution

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Read decodes a JSON-encoded distribution and validates it.
func Read(r io.Reader) (*Distribution, error) {
	var d Distribution
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("distribution: decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// WriteJSON encodes d as indented JSON.
func (d *Distribution) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("distribution: encode: %w", err)
	}
	return nil
}

// WriteTSV writes one "bin<TAB>value" line per bin.
func (d *Distribution) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, b := range d.Bins {
		line := strconv.FormatFloat(b, 'g', -1, 64) + "\t" + strconv.FormatFloat(d.Vals[i], 'g', -1, 64) + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("distribution: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("distribution: write: %w", err)
	}
	return nil
}
