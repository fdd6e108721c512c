package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
)

// Supported catalog file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// csvColumns is the header a CSV catalog must start with. Trailing columns
// may be omitted.
var csvColumns = []string{"id", "title", "year", "author", "canon", "reading_status", "cover_url"}

// Page is the envelope returned by GET /books. JSON catalog files may use it
// too, which makes a saved API response a valid catalog file.
type Page struct {
	Items    []Book `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// FormatFor returns the catalog format implied by a file extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", cerrors.New(cerrors.ErrCodeInvalidSource, "unsupported catalog file %q (want .json, .yaml or .csv)", filepath.Base(path))
	}
}

// ReadFile loads a catalog file, picking the decoder by extension.
func ReadFile(path string) ([]Book, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "catalog %s", path)
	}
	if err != nil {
		return nil, err
	}
	books, err := Decode(bytes.NewReader(data), format)
	if err == nil {
		err = Validate(books)
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidSource, err, "read %s", filepath.Base(path))
	}
	return books, nil
}

// Decode reads a catalog in the given format.
func Decode(r io.Reader, format string) ([]Book, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatCSV:
		return decodeCSV(r)
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidFormat, "unknown catalog format %q", format)
	}
}

// WriteJSON writes books as an indented JSON array.
func WriteJSON(w io.Writer, books []Book) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(books)
}

func decodeJSON(r io.Reader) ([]Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page Page
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, err
		}
		return page.Items, nil
	}
	var books []Book
	if err := json.Unmarshal(trimmed, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func decodeYAML(r io.Reader) ([]Book, error) {
	var doc struct {
		Books []Book `yaml:"books"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Books, nil
}

func decodeCSV(r io.Reader) ([]Book, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, col := range header {
		if i >= len(csvColumns) || strings.ToLower(strings.TrimSpace(col)) != csvColumns[i] {
			return nil, fmt.Errorf("csv header column %d: got %q, want %q", i+1, col, strings.Join(csvColumns, ","))
		}
	}

	var books []Book
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return books, nil
		}
		if err != nil {
			return nil, err
		}
		b, err := bookFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		books = append(books, b)
	}
}

func bookFromRecord(rec []string) (Book, error) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	id, err := strconv.Atoi(field(0))
	if err != nil {
		return Book{}, fmt.Errorf("invalid id %q", field(0))
	}
	b := Book{
		ID:            id,
		Title:         field(1),
		Author:        field(3),
		Canon:         field(4),
		ReadingStatus: field(5),
		CoverURL:      field(6),
	}
	if y := field(2); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return Book{}, fmt.Errorf("invalid year %q", y)
		}
		b.Year = &year
	}
	return b, nil
}
