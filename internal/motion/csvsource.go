// internal/motion/csvsource.go
package motion

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVRecordSource reads recorded samples from a delimited text file.
//
// Rows are "timestamp,...,x,y,z" with g-force values in the last three
// fields. Comma and tab delimiters are both accepted; the delimiter is
// detected from the first data row. Rows with fewer than three fields or
// non-numeric axis fields are malformed.
type CSVRecordSource struct {
	path      string
	hasHeader bool

	f  *os.File
	br *bufio.Reader
}

func NewCSVRecordSource(path string, hasHeader bool) *CSVRecordSource {
	return &CSVRecordSource{path: path, hasHeader: hasHeader}
}

func (c *CSVRecordSource) Open() error {
	f, err := os.Open(c.path)
	if err != nil {
		return err
	}
	c.f = f
	return c.Rewind()
}

// Rewind returns to the first data row.
func (c *CSVRecordSource) Rewind() error {
	if c.f == nil {
		return errors.New("motion: csv source not open")
	}
	if _, err := c.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	c.br = bufio.NewReader(c.f)

	if c.hasHeader {
		if _, err := c.br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return nil
}

func (c *CSVRecordSource) Next() (Record, error) {
	if c.br == nil {
		return Record{}, errors.New("motion: csv source not open")
	}

	for {
		line, err := c.br.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil {
				return Record{}, io.EOF
			}
			continue // blank line
		}
		return parseRecord(line)
	}
}

func (c *CSVRecordSource) Close() error {
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	c.br = nil
	return err
}

func parseRecord(line string) (Record, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if !strings.Contains(line, ",") && strings.Contains(line, "\t") {
		r.Comma = '\t'
	}

	fields, err := r.Read()
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if len(fields) < 3 {
		return Record{}, fmt.Errorf("%w: %d fields", ErrMalformedRecord, len(fields))
	}

	axes := fields[len(fields)-3:]
	var g [3]float64
	for i, f := range axes {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: axis %q", ErrMalformedRecord, f)
		}
		g[i] = v
	}

	rec := Record{Gx: g[0], Gy: g[1], Gz: g[2]}

	// Leading timestamp is optional; a bad one does not void the row.
	if len(fields) >= 4 {
		if ts, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err == nil && ts >= 0 {
			rec.TimestampMs = uint32(ts)
		}
	}
	return rec, nil
}
