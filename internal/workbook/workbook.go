// Package workbook loads spreadsheet files into named tables. The core
// pipeline never parses workbook containers itself; it consumes the Tables
// this package hands over.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// Loader converts one file into its named tables.
type Loader interface {
	Load(path string) ([]model.Table, error)
	Format() string
}

// Registry holds named loaders.
type Registry struct {
	loaders map[string]Loader
}

// FileInfo describes a spreadsheet file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds a loader. Panics on duplicate format.
func (r *Registry) Register(l Loader) {
	key := strings.ToLower(l.Format())
	if _, ok := r.loaders[key]; ok {
		panic("duplicate loader format: " + key)
	}
	r.loaders[key] = l
}

// Get returns the loader for format, or nil.
func (r *Registry) Get(format string) Loader {
	return r.loaders[strings.ToLower(format)]
}

// ForFile returns the loader for a file's extension, or nil.
func (r *Registry) ForFile(path string) Loader {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return r.Get(ext)
}

// Load reads a file with the loader matching its extension.
func (r *Registry) Load(path string) ([]model.Table, error) {
	l := r.ForFile(path)
	if l == nil {
		return nil, fmt.Errorf("no loader for file %q", filepath.Base(path))
	}
	return l.Load(path)
}

// DefaultRegistry returns a registry with all built-in loaders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXLoader{})
	r.Register(&CSVLoader{})
	return r
}

// importDir is the subdirectory for incoming spreadsheets.
const importDir = "import"

// processedDir is the subdirectory for processed spreadsheets.
const processedDir = "import/processed"

// Scan returns loadable files in <root>/import/.
func Scan(root string, registry *Registry) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || registry.ForFile(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// tableFromRows assembles a Table from raw string rows: the first non-empty
// row becomes the header, blank cells become nil.
func tableFromRows(name string, rows [][]string) (model.Table, bool) {
	start := -1
	for i, row := range rows {
		if len(nonEmpty(row)) > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return model.Table{}, false
	}

	header := rows[start]
	columns := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		columns = append(columns, h)
	}

	t := model.Table{Name: name, Columns: columns}
	for _, raw := range rows[start+1:] {
		if len(nonEmpty(raw)) == 0 {
			continue
		}
		row := make(model.Row, len(columns))
		for i, col := range columns {
			if i < len(raw) && strings.TrimSpace(raw[i]) != "" {
				row[col] = raw[i]
			} else {
				row[col] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, true
}

func nonEmpty(row []string) []string {
	var out []string
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}
