package jsonout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

var ErrLocked = errors.New("output file is locked by another run")

// LockPath returns the advisory lock file guarding path. It lives in the
// system temp directory so the output directory only holds the artifacts.
func LockPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	h := fnv.New64a()
	h.Write([]byte(path))
	return filepath.Join(os.TempDir(), fmt.Sprintf("namesherpa-%x.lock", h.Sum64()))
}

// WriteNames writes names to path as an indented JSON array, creating parent
// directories as needed. The existing file is overwritten in place.
func WriteNames(path string, names []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	lock := flock.New(LockPath(path))
	locked, err := lock.TryLock()
	if err != nil {
		return errors.Wrapf(err, "failed to lock %s", path)
	}
	if !locked {
		return errors.Wrap(ErrLocked, path)
	}
	defer lock.Unlock()

	data, err := encode(names)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// encode renders names the way Python's json.dump(names, indent=2) does:
// non-ASCII characters as \uXXXX escapes and no trailing newline.
func encode(names []string) ([]byte, error) {
	if names == nil {
		names = []string{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(names); err != nil {
		return nil, errors.Wrap(err, "error marshalling JSON")
	}
	return asciiEscape(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// asciiEscape rewrites every non-ASCII rune as a lowercase \u escape, using a
// surrogate pair outside the Basic Multilingual Plane. Valid JSON only holds
// non-ASCII bytes inside strings, so the result stays valid.
func asciiEscape(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		switch {
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}
