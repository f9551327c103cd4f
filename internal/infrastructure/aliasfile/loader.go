// Package aliasfile loads the club alias table from TOML.
package aliasfile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
)

//go:embed default_aliases.toml
var defaultAliases []byte

type file struct {
	Aliases []entry `toml:"alias"`
}

type entry struct {
	Local     string `toml:"local"`
	Canonical string `toml:"canonical"`
}

// Default returns the embedded alias table.
func Default() (*club.AliasTable, error) {
	table, err := Decode(bytes.NewReader(defaultAliases))
	if err != nil {
		return nil, fmt.Errorf("decode embedded aliases: %w", err)
	}
	return table, nil
}

// Load reads the embedded table and merges the file at path over it.
// An empty path returns the embedded table only.
func Load(path string) (*club.AliasTable, error) {
	table, err := Default()
	if err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return table, nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("alias file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("open alias file: %w", err)
	}
	defer f.Close()

	if err := decodeInto(f, table); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	return table, nil
}

func Decode(r io.Reader) (*club.AliasTable, error) {
	table := club.NewAliasTable(nil)
	if err := decodeInto(r, table); err != nil {
		return nil, err
	}
	return table, nil
}

func decodeInto(r io.Reader, table *club.AliasTable) error {
	var parsed file
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&parsed); err != nil {
		return err
	}

	for i, item := range parsed.Aliases {
		if strings.TrimSpace(item.Local) == "" || strings.TrimSpace(item.Canonical) == "" {
			return fmt.Errorf("alias #%d: local and canonical are required", i+1)
		}
		table.Add(item.Local, item.Canonical)
	}
	return nil
}
