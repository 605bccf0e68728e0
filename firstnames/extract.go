package firstnames

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"

	"github.com/customeros/namesherpa/internal/nameset"
	"github.com/customeros/namesherpa/internal/report"
)

const (
	DefaultPattern = "*.txt"
	maxLineSize    = 1024 * 1024
)

// Extractor collects first names from CSV-like text files, where the name is
// the first comma separated field of each line.
type Extractor struct {
	Pattern  string
	Log      logrus.FieldLogger
	Progress io.Writer
}

func NewExtractor(pattern string, log logrus.FieldLogger) *Extractor {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Extractor{Pattern: pattern, Log: log}
}

// Extract reads every file in dir matching the pattern and returns the unique
// names in sorted order. Files that cannot be read are reported and skipped.
func (e *Extractor) Extract(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, e.Pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid file pattern %q", e.Pattern)
	}
	e.Log.Debugf("Found %d files matching %s in %s", len(files), e.Pattern, dir)

	names := nameset.New()
	bar := report.NewBar(e.Progress, len(files), "reading")
	for _, file := range files {
		if err := readNames(file, names); err != nil {
			e.warn(file, err)
		}
		bar.Add(1)
	}
	bar.Finish()

	return names.Sorted(), nil
}

func (e *Extractor) warn(file string, err error) {
	name := filepath.Base(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.Log.Warnf("File not found: %s", name)
	case errors.Is(err, fs.ErrPermission):
		e.Log.Warnf("Permission denied when reading %s", name)
	default:
		e.Log.Warnf("Error reading %s: %v", name, err)
	}
}

// readNames adds the names of one file to names. Reading stops at the first
// line that is not valid UTF-8; names read before a failure are kept.
func readNames(path string, names *nameset.Set) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bom := unicode.UTF8BOM.NewDecoder()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Bytes()
		if !utf8.Valid(line) {
			return errors.Errorf("invalid UTF-8 on line %d", lineNo)
		}
		text := string(line)
		if lineNo == 1 {
			if text, err = bom.String(text); err != nil {
				return errors.Wrap(err, "failed to decode first line")
			}
		}
		names.Add(FirstField(text))
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "scan failed")
	}
	return nil
}

// FirstField returns the trimmed text before the first comma of line.
func FirstField(line string) string {
	field, _, _ := strings.Cut(line, ",")
	return strings.TrimSpace(field)
}
