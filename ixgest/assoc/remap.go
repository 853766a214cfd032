package assoc

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/assocparse/errors"
)

// remapFile is the TOML layout of an id remap table:
//
//	[map]
//	"UniProtKB:P12345" = "MGI:MGI:101"
type remapFile struct {
	Map map[string]string `toml:"map"`
}

// LoadIDMap reads an id remap table. The format follows the extension:
// .toml holds a [map] table, .yaml/.yml a flat mapping, anything else two
// whitespace separated columns per line with # comments.
func LoadIDMap(path string) (map[string]string, error) {
	var (
		m   map[string]string
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		m, err = loadTOMLMap(path)
	case ".yaml", ".yml":
		m, err = loadYAMLMap(path)
	default:
		m, err = loadColumnMap(path)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "remap file %s", path), errors.ErrInvalidRemapFile)
	}
	return m, nil
}

func loadTOMLMap(path string) (map[string]string, error) {
	var f remapFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, err
	}
	if f.Map == nil {
		return nil, errors.New("missing [map] table")
	}
	return f.Map, nil
}

func loadYAMLMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func loadColumnMap(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := map[string]string{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Newf("line %d: expected 2 columns, found %d", lineNo, len(fields))
		}
		m[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
