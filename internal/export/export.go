// Package export writes collections to CSV and JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// Format represents the export format.
type Format string

const (
	// FormatCSV represents CSV export format.
	FormatCSV Format = "csv"
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
)

// FoilMarker is written in the Foil column for foil entries.
const FoilMarker = "*F*"

// CSVHeader is the fixed collection column layout.
var CSVHeader = []string{
	"Name",
	"Set Name",
	"Set Code",
	"Collector Number",
	"Quantity",
	"Foil",
	"Condition",
	"Language",
	"CMC",
	"Type",
	"Rarity",
	"Color Identity",
	"Purchase Price",
}

// Options holds configuration for export operations.
type Options struct {
	Format     Format
	Dir        string
	PrettyJSON bool
	Overwrite  bool
}

// Exporter writes collections into a directory.
type Exporter struct {
	opts Options
}

// NewExporter creates a new Exporter with the given options.
func NewExporter(opts Options) *Exporter {
	if opts.Format == "" {
		opts.Format = FormatCSV
	}
	return &Exporter{opts: opts}
}

// ExportCollection writes c to <Dir>/<Filename> and returns the path.
func (e *Exporter) ExportCollection(c *models.Collection, date time.Time) (path string, err error) {
	path = filepath.Join(e.opts.Dir, Filename(c.Name, date, e.opts.Format))

	file, err := e.createFile(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := ExportToWriter(file, e.opts.Format, c, e.opts.PrettyJSON); err != nil {
		return "", err
	}
	return path, nil
}

// createFile creates the output file, handling overwrite settings.
func (e *Exporter) createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !e.opts.Overwrite {
		return nil, fmt.Errorf("file already exists: %s (use overwrite option to replace)", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// ExportToWriter writes c to w in the given format.
func ExportToWriter(w io.Writer, format Format, c *models.Collection, prettyJSON bool) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		if prettyJSON {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(c)
	case FormatCSV:
		return WriteCSV(w, c)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteCSV writes the collection in the fixed column layout. Quoting of
// commas, quotes and newlines follows RFC 4180.
func WriteCSV(w io.Writer, c *models.Collection) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, entry := range c.Cards {
		if err := writer.Write(Row(entry)); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Row renders one entry in CSVHeader order.
func Row(e models.CollectionEntry) []string {
	foil := ""
	if e.Foil {
		foil = FoilMarker
	}
	price := ""
	if e.PurchasePrice > 0 {
		price = strconv.FormatFloat(e.PurchasePrice, 'f', 2, 64)
	}
	return []string{
		e.Card.Name,
		e.Card.SetName,
		strings.ToUpper(e.Card.SetCode),
		e.Card.CollectorNumber,
		strconv.Itoa(e.Quantity),
		foil,
		e.Condition,
		e.Language,
		strconv.FormatFloat(e.Card.CMC, 'f', -1, 64),
		e.Card.TypeLine,
		string(e.Card.Rarity),
		strings.Join(e.Card.ColorIdentity, ""),
		price,
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// SanitizeName makes a collection name safe for a file name.
func SanitizeName(name string) string {
	s := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if s == "" {
		return "collection"
	}
	return s
}

// Filename returns "<sanitized name>_<YYYY-MM-DD>.<format>".
func Filename(name string, date time.Time, format Format) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeName(name), date.Format("2006-01-02"), format)
}
