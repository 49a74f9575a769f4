package data

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

//go:embed data-files
var dataFilesRoot embed.FS

const dataBasePath = "data-files"

var dataFileExtensions = []string{".json", ".yaml", ".yml"}

// SourceInfo is one expanded version of a data file. A file without parameters yields a single
// SourceInfo; a parameterized file yields one per parameter set, each with its own Data.
type SourceInfo struct {
	FilePath string
	BaseName string
	Params   map[string]ldvalue.Value
	Data     []byte
}

// ParseInto decodes the expanded data, ignoring fields that target does not declare.
func (s SourceInfo) ParseInto(target interface{}) error {
	return s.wrapError(Decode(s.Data, target))
}

// ParseStrictInto decodes the expanded data and rejects fields that target does not declare.
func (s SourceInfo) ParseStrictInto(target interface{}) error {
	return s.wrapError(DecodeStrict(s.Data, target))
}

func (s SourceInfo) wrapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("cannot parse %s%s: %w", s.BaseName, s.ParamsString(), err)
}

// ParamsString describes the parameter set as "(NAME=value,...)" in key order, or returns an empty
// string if there are no parameters.
func (s SourceInfo) ParamsString() string {
	if len(s.Params) == 0 {
		return ""
	}
	keys := maps.Keys(s.Params)
	slices.Sort(keys)
	var b strings.Builder
	b.WriteString("(")
	for i, key := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%s=%v", key, s.Params[key])
	}
	b.WriteString(")")
	return b.String()
}

// LoadDataFile reads one embedded data file, relative to data/data-files, and expands its
// constants and parameters.
func LoadDataFile(filePath string) ([]SourceInfo, error) {
	data, err := dataFilesRoot.ReadFile(path.Join(dataBasePath, filePath))
	if err != nil {
		return nil, fmt.Errorf("cannot read data file %q: %w", filePath, err)
	}
	sources, err := expandSubstitutions(data)
	if err != nil {
		return nil, fmt.Errorf("cannot expand data file %q: %w", filePath, err)
	}
	for i := range sources {
		sources[i].FilePath = filePath
		sources[i].BaseName = path.Base(filePath)
	}
	return sources, nil
}

// LoadAllDataFiles loads every JSON or YAML file directly inside dir, relative to data/data-files,
// in name order. Subdirectories and files with other extensions are ignored.
func LoadAllDataFiles(dir string) ([]SourceInfo, error) {
	entries, err := dataFilesRoot.ReadDir(path.Join(dataBasePath, dir))
	if err != nil {
		return nil, fmt.Errorf("cannot list data directory %q: %w", dir, err)
	}
	var ret []SourceInfo
	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(dataFileExtensions, path.Ext(entry.Name())) {
			continue
		}
		sources, err := LoadDataFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		ret = append(ret, sources...)
	}
	return ret, nil
}
