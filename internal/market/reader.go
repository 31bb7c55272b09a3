package market

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMalformedInput = errors.New("malformed input")

type ReadOptions struct {
	MinYear    int
	SkipHeader bool
}

type pointFilter func(p PricePoint) bool

func acceptAll(PricePoint) bool { return true }

func sinceYear(year int) pointFilter {
	if year <= 0 {
		return acceptAll
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return func(p PricePoint) bool {
		return !p.Time.Before(start)
	}
}

func Load(path string, opts ReadOptions) (points []PricePoint, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open price series: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close price series: %w", cerr)
		}
	}()

	return Read(f, opts)
}

func Read(r io.Reader, opts ReadOptions) ([]PricePoint, error) {
	rdr := csv.NewReader(bufio.NewReader(r))
	rdr.FieldsPerRecord = -1
	rdr.ReuseRecord = true

	if opts.SkipHeader {
		if _, err := rdr.Read(); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read csv header: %w", err)
		}
	}

	filter := sinceYear(opts.MinYear)

	var points []PricePoint
	for {
		data, err := rdr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}

		p, err := parsePoint(data)
		if err != nil {
			line, _ := rdr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedInput, line, err)
		}

		if filter(p) {
			points = append(points, p)
		}
	}

	return points, nil
}

func parsePoint(data []string) (PricePoint, error) {
	if len(data) < 2 {
		return PricePoint{}, fmt.Errorf("expected 2 fields, got %d", len(data))
	}

	ts, err := parseTimestamp(data[0])
	if err != nil {
		return PricePoint{}, err
	}

	price, err := parsePrice(data[1])
	if err != nil {
		return PricePoint{}, err
	}

	return PricePoint{Time: ts, Price: price}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	return time.Unix(sec, 0).UTC(), nil
}

func parsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to parse price: %w", err)
	}

	return decimal.NewNullDecimal(d), nil
}
