// Package importer reads collection CSV files exported by this tool or by
// other collection managers.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/cardpool"
	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/normalize"
)

// ValidationError is returned when the file is rejected before any row is
// applied.
type ValidationError = models.ValidationError

// Resolver finds cards by name.
type Resolver interface {
	Find(l cardpool.Lookup) (models.Card, bool)
}

// RowFailure describes a data row that could not be imported.
type RowFailure struct {
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result summarizes an import.
type Result struct {
	Collection models.Collection `json:"collection"`
	Imported   int               `json:"imported"`
	Copies     int               `json:"copies"`
	Failed     int               `json:"failed"`
	Failures   []RowFailure      `json:"failures,omitempty"`
}

// Options configures an import.
type Options struct {
	Logger *slog.Logger

	// Progress is an optional callback receiving (rowsProcessed, 0) after
	// each imported row; the total is unknown while streaming.
	Progress func(processed, total int)
}

// Import reads CSV rows from r and adds them to target. Rows are resolved
// against the pool by normalized name, narrowed by set code and collector
// number when those columns exist. Unresolved rows are counted and logged
// but do not stop the batch. An empty file or a header without a name
// column yields a ValidationError and target is returned untouched.
func Import(r io.Reader, target models.Collection, pool Resolver, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, models.NewValidationError("file", "CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols, err := matchColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{Collection: target}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.fail(line, "", fmt.Sprintf("malformed row: %v", err))
			continue
		}
		if blank(record) {
			continue
		}

		row := cols.extract(record)
		if row.name == "" {
			result.fail(line, "", "missing card name")
			continue
		}
		if row.quantity <= 0 {
			result.fail(line, row.name, "invalid quantity")
			continue
		}

		card, ok := pool.Find(cardpool.Lookup{Name: row.name, SetCode: row.set, CollectorNumber: row.collector})
		if !ok && row.collector != "" {
			card, ok = pool.Find(cardpool.Lookup{Name: row.name, SetCode: row.set})
		}
		if !ok {
			result.fail(line, row.name, "card not found")
			continue
		}

		result.Collection = collection.AddCard(result.Collection, card, row.quantity, collection.AddOptions{
			Foil:          row.foil,
			Condition:     row.condition,
			Language:      row.language,
			PurchasePrice: row.price,
		})
		result.Imported++
		result.Copies += row.quantity

		if opts.Progress != nil {
			opts.Progress(line-1, 0)
		}
	}

	for _, f := range result.Failures {
		logger.Warn("CSV row not imported", "line", f.Line, "name", f.Name, "reason", f.Reason)
	}
	logger.Info("CSV import finished",
		"collection", target.Name,
		"imported", result.Imported,
		"copies", result.Copies,
		"failed", result.Failed)

	return result, nil
}

func (r *Result) fail(line int, name, reason string) {
	r.Failed++
	r.Failures = append(r.Failures, RowFailure{Line: line, Name: name, Reason: reason})
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// columns holds the index of each recognized header, -1 when absent.
type columns struct {
	name, quantity, set, collector, foil, condition, language, price int
}

type row struct {
	name, set, collector, condition, language string
	quantity                                  int
	foil                                      bool
	price                                     float64
}

func (c columns) extract(record []string) row {
	get := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	r := row{
		name:      get(c.name),
		set:       get(c.set),
		collector: get(c.collector),
		condition: strings.ToUpper(get(c.condition)),
		language:  strings.ToLower(get(c.language)),
		quantity:  1,
		foil:      parseFoil(get(c.foil)),
	}
	if q := get(c.quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			n = 0
		}
		r.quantity = n
	}
	if p := get(c.price); p != "" {
		p = strings.NewReplacer("$", "", "R", "", "€", "", " ", "").Replace(p)
		p = strings.ReplaceAll(p, ",", ".")
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			r.price = v
		}
	}
	return r
}

func parseFoil(v string) bool {
	switch normalize.String(strings.TrimSpace(v)) {
	case "*f*", "foil", "true", "yes", "y", "1", "sim", "etched":
		return true
	}
	return false
}

// matchColumns finds columns by normalized substring. A plain name column
// wins over set-name columns that also contain "name".
func matchColumns(header []string) (columns, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalize.String(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	find := func(accept func(h string) bool) int {
		for i, h := range norm {
			if accept(h) {
				return i
			}
		}
		return -1
	}
	containsAny := func(h string, needles ...string) bool {
		for _, n := range needles {
			if strings.Contains(h, n) {
				return true
			}
		}
		return false
	}
	isSetColumn := func(h string) bool {
		return containsAny(h, "set", "edicao", "edition", "expansion")
	}

	c := columns{}
	c.name = find(func(h string) bool { return containsAny(h, "name", "nome") && !isSetColumn(h) })
	if c.name < 0 {
		c.name = find(func(h string) bool { return containsAny(h, "name", "nome") })
	}
	if c.name < 0 {
		return c, models.NewValidationError("header", "no card name column found")
	}

	c.quantity = find(func(h string) bool { return containsAny(h, "quantity", "qty", "quantidade", "count") })
	c.set = find(func(h string) bool { return containsAny(h, "set code", "codigo") })
	if c.set < 0 {
		c.set = find(func(h string) bool {
			return isSetColumn(h) && !containsAny(h, "name", "nome")
		})
	}
	c.collector = find(func(h string) bool { return containsAny(h, "collector", "numero", "number") })
	c.foil = find(func(h string) bool { return containsAny(h, "foil") })
	c.condition = find(func(h string) bool { return containsAny(h, "condition", "condicao") })
	c.language = find(func(h string) bool { return containsAny(h, "language", "idioma", "lang") })
	c.price = find(func(h string) bool { return containsAny(h, "purchase", "price", "preco") })
	return c, nil
}
