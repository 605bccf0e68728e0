package names

import (
	"encoding/json"
	"io/fs"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Dictionary answers membership questions against the exported name lists.
type Dictionary struct {
	firstNames map[string]bool
	surnames   map[string]bool
	missing    []string
}

type Match struct {
	Name        string
	IsFirstName bool
	IsSurname   bool
}

// LoadDictionary reads the first name and surname JSON arrays written by the
// export commands. A list that has not been exported yet is treated as empty
// and reported by Missing.
func LoadDictionary(firstNamesPath, surnamesPath string) (*Dictionary, error) {
	dict := &Dictionary{}

	var err error
	if dict.firstNames, err = dict.load(firstNamesPath); err != nil {
		return nil, err
	}
	if dict.surnames, err = dict.load(surnamesPath); err != nil {
		return nil, err
	}
	return dict, nil
}

func (d *Dictionary) load(path string) (map[string]bool, error) {
	names, err := loadNames(path)
	if errors.Is(err, fs.ErrNotExist) {
		d.missing = append(d.missing, path)
		return map[string]bool{}, nil
	}
	return names, err
}

// Missing returns the paths of name lists that did not exist.
func (d *Dictionary) Missing() []string {
	return d.missing
}

func (d *Dictionary) Lookup(name string) Match {
	key := normalize(name)
	return Match{
		Name:        name,
		IsFirstName: d.firstNames[key],
		IsSurname:   d.surnames[key],
	}
}

func (d *Dictionary) Size() (firstNames, surnames int) {
	return len(d.firstNames), len(d.surnames)
}

func loadNames(path string) (map[string]bool, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read name list %s", path)
	}

	var list []string
	if err := json.Unmarshal(fileData, &list); err != nil {
		return nil, errors.Wrapf(err, "failed to decode name list %s", path)
	}

	names := make(map[string]bool, len(list))
	for _, name := range list {
		if key := normalize(name); key != "" {
			names[key] = true
		}
	}
	return names, nil
}

// normalize folds case so that lookups ignore capitalization.
func normalize(name string) string {
	return folder.String(strings.TrimSpace(name))
}
