// Package ingesting parses uploaded sales files into validated tables.
package ingesting

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/internal/domain"
	"github.com/awidars/stock-forecast-api/pkg/utils"
)

const (
	columnDate     = "Tanggal"
	columnProduct  = "Produk"
	columnQuantity = "Jumlah Terjual"

	// UTF-8 BOM as it appears when the header cell is read as plain text.
	bomArtifact = "\ufeff"
)

var (
	// ErrMissingColumns is the SchemaError of the loader: a required column
	// is absent from the header.
	ErrMissingColumns = errors.New("upload must contain columns 'Tanggal', 'Produk' and 'Jumlah Terjual'")
	// ErrEmptyFile is returned for an upload without a header row.
	ErrEmptyFile = errors.New("upload is empty")
	// ErrBadRow is returned in strict mode for a row that lenient mode
	// would drop.
	ErrBadRow = errors.New("row rejected")
)

// Options control the cleaning policy of the loader.
type Options struct {
	// StrictDates fails the whole load on the first unparseable date or
	// negative quantity instead of dropping the row.
	StrictDates bool
}

// Loader parses `;`-separated sales CSVs.
type Loader struct {
	opts Options
}

func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts}
}

// Load reads the upload and returns the table of valid records. Rows whose
// date does not parse as YYYY-MM, or whose quantity is negative or not a
// number, are dropped (lenient, default) or fail the load (strict). Extra
// columns are ignored.
func (l *Loader) Load(r io.Reader) (*domain.SalesTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}

	dateIdx, productIdx, quantityIdx := -1, -1, -1
	for i, name := range header {
		switch cleanHeader(name) {
		case columnDate:
			dateIdx = i
		case columnProduct:
			productIdx = i
		case columnQuantity:
			quantityIdx = i
		}
	}
	if dateIdx < 0 || productIdx < 0 || quantityIdx < 0 {
		return nil, ErrMissingColumns
	}

	table := &domain.SalesTable{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading row %d", line+1)
		}
		line++

		width := maxIdx(dateIdx, productIdx, quantityIdx)
		if len(record) <= width {
			if err := l.drop(line, "too few fields"); err != nil {
				return nil, err
			}
			table.DroppedRows++
			continue
		}

		month, err := utils.ParseMonth(strings.TrimSpace(record[dateIdx]))
		if err != nil {
			if err := l.drop(line, "unparseable date"); err != nil {
				return nil, err
			}
			table.DroppedRows++
			continue
		}

		quantity, err := strconv.ParseFloat(strings.TrimSpace(record[quantityIdx]), 64)
		if err != nil || quantity < 0 {
			if err := l.drop(line, "invalid quantity"); err != nil {
				return nil, err
			}
			table.DroppedRows++
			continue
		}

		product := strings.TrimSpace(record[productIdx])
		if product == "" {
			if err := l.drop(line, "empty product"); err != nil {
				return nil, err
			}
			table.DroppedRows++
			continue
		}

		table.Records = append(table.Records, domain.SalesRecord{
			Month:    month.UTC(),
			Product:  product,
			Quantity: quantity,
		})
	}

	if table.DroppedRows > 0 {
		logrus.WithFields(logrus.Fields{
			"dropped": table.DroppedRows,
			"kept":    len(table.Records),
		}).Warn("ingesting: rows dropped during load")
	}

	return table, nil
}

// drop returns an error in strict mode and nil in lenient mode.
func (l *Loader) drop(line int, reason string) error {
	if l.opts.StrictDates {
		return errors.Wrapf(ErrBadRow, "line %d: %s", line, reason)
	}
	logrus.WithFields(logrus.Fields{"line": line, "reason": reason}).
		Debug("ingesting: dropping row")
	return nil
}

func cleanHeader(name string) string {
	name = strings.TrimPrefix(name, bomArtifact)
	// The artifact also shows up as the literal bytes "ï»¿" when a UTF-8
	// BOM was decoded as Latin-1 upstream.
	name = strings.TrimPrefix(name, "ï»¿")
	return strings.TrimSpace(name)
}

func maxIdx(idx ...int) int {
	m := idx[0]
	for _, v := range idx[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
