package market

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

type csvPointsDump struct {
	w *csv.Writer
}

func newCsvPointsDump(w io.Writer) *csvPointsDump {
	return &csvPointsDump{csv.NewWriter(w)}
}

func (d *csvPointsDump) Dump(timestamp, price string) error {
	if err := d.w.Write([]string{timestamp, price}); err != nil {
		return fmt.Errorf("failed to dump price point: %w", err)
	}

	return nil
}

func (d *csvPointsDump) Flush() error {
	d.w.Flush()
	return d.w.Error()
}

// Pare strips a raw exchange export down to its timestamp and price columns.
// The input header is dropped; rows before minYear are skipped.
func Pare(r io.Reader, w io.Writer, minYear int) (int, error) {
	rdr := csv.NewReader(bufio.NewReader(r))
	rdr.FieldsPerRecord = -1
	rdr.ReuseRecord = true

	if _, err := rdr.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	filter := sinceYear(minYear)
	dump := newCsvPointsDump(w)

	n := 0
	for {
		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}

		if len(data) < 2 {
			line, _ := rdr.FieldPos(0)
			return n, fmt.Errorf("%w: line %d: expected at least 2 fields, got %d", ErrMalformedInput, line, len(data))
		}

		ts, err := parseTimestamp(data[0])
		if err != nil {
			line, _ := rdr.FieldPos(0)
			return n, fmt.Errorf("%w: line %d: %w", ErrMalformedInput, line, err)
		}

		if !filter(PricePoint{Time: ts}) {
			continue
		}

		if err := dump.Dump(data[0], data[1]); err != nil {
			return n, err
		}
		n++
	}

	if err := dump.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush pared data: %w", err)
	}

	return n, nil
}

func PareFile(in, out string, minYear int) (n int, err error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, fmt.Errorf("unable to open raw data: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("unable to create pared data: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close pared data: %w", cerr)
		}
	}()

	return Pare(src, dst, minYear)
}
