package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language maps file names to a grammar known to the syntax package.
type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func DefaultLanguages() Languages {
	return Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go"}},
			{Name: "toml", FileTypes: []string{"toml"}},
			{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
			{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".zshrc"}},
		},
	}
}

// Match returns the first language whose file types cover path, by
// extension or by exact base name.
func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == baseLower || ftLower == ext {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// LoadLanguages reads languages.toml. Entries from the file take precedence
// over the built-in table; unknown names are kept and simply never highlight.
func LoadLanguages() (Languages, error) {
	langs := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return langs, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return langs, nil
		}
		return langs, err
	}

	var user Languages
	if _, err := toml.Decode(string(data), &user); err != nil {
		return langs, fmt.Errorf("parse %s: %w", path, err)
	}
	langs.Languages = append(user.Languages, langs.Languages...)
	return langs, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
