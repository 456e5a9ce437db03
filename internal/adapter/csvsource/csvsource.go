// Package csvsource loads the population table from a CSV file.
package csvsource

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/population-dashboard/internal/domain"
	"github.com/couchcryptid/population-dashboard/internal/memo"
)

// Loader reads population tables from disk, memoizing parsed tables by path
// and content hash so an unchanged file is parsed once.
type Loader struct {
	cache  *memo.Cache[string, *domain.Table]
	logger *slog.Logger
}

// NewLoader creates a Loader. cache may be sized zero to disable memoization.
func NewLoader(cache *memo.Cache[string, *domain.Table], logger *slog.Logger) *Loader {
	return &Loader{cache: cache, logger: logger}
}

// Load reads and parses the table at path.
func (l *Loader) Load(path string) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read population table: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	return l.cache.Do(path+"@"+hash, func() (*domain.Table, error) {
		tbl, err := Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		tbl.Source = path
		tbl.Hash = hash
		l.logger.Info("population table loaded",
			"path", path,
			"rows", tbl.Len(),
			"regions", len(tbl.Regions),
			"sha256", hash[:12],
		)
		return tbl, nil
	})
}

// Parse reads a population CSV: a "Quarter" column followed by one integer
// column per region.
func Parse(r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if header[0] != domain.QuarterColumn {
		return nil, fmt.Errorf("first column must be %q, got %q", domain.QuarterColumn, header[0])
	}

	regions := header[1:]
	var rows []domain.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		row := domain.Row{
			Quarter: strings.TrimSpace(rec[0]),
			Values:  make([]int64, len(regions)),
		}
		for j, field := range rec[1:] {
			v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s), column %q: %w", len(rows)+1, row.Quarter, regions[j], err)
			}
			row.Values[j] = v
		}
		rows = append(rows, row)
	}

	return domain.NewTable(regions, rows)
}
