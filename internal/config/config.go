package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	Edit map[string]string `toml:"edit"`
}

type EditorOptions struct {
	HistorySize     int    `toml:"history-size"`
	LineNumbers     string `toml:"line-numbers"`
	DebugLog        bool   `toml:"debug-log"`
	WatchFile       bool   `toml:"watch-file"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	HeaderForeground           string `toml:"header-foreground"`
	HeaderBackground           string `toml:"header-background"`
	NotificationForeground     string `toml:"notification-foreground"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	CursorForeground           string `toml:"cursor-foreground"`
	CursorBackground           string `toml:"cursor-background"`
	SelectionForeground        string `toml:"selection-foreground"`
	SelectionBackground        string `toml:"selection-background"`
	SearchMatchForeground      string `toml:"search-foreground"`
	SearchMatchBackground      string `toml:"search-background"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant"`
	SyntaxOperator             string `toml:"syntax-operator"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			HistorySize:     100,
			LineNumbers:     "absolute",
			DebugLog:        false,
			WatchFile:       true,
			GitBranchSymbol: "git:",
		},
		Theme: Theme{
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			HeaderForeground:           "#B3B1AD",
			HeaderBackground:           "#0F1419",
			NotificationForeground:     "#E6B450",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			CursorForeground:           "#0A0E14",
			CursorBackground:           "#E6B450",
			SelectionForeground:        "#B3B1AD",
			SelectionBackground:        "#27425A",
			SearchMatchForeground:      "#000000",
			SearchMatchBackground:      "#FFD700",
			SyntaxKeyword:              "#FFA759",
			SyntaxString:               "#BAE67E",
			SyntaxComment:              "#5C6773",
			SyntaxType:                 "#5CCFE6",
			SyntaxFunction:             "#FFD173",
			SyntaxNumber:               "#D4BFFF",
			SyntaxConstant:             "#FFDD8E",
			SyntaxOperator:             "#F29668",
		},
		Keymap: Keymap{
			Edit: map[string]string{
				"left":        "left",
				"right":       "right",
				"up":          "up",
				"down":        "down",
				"alt+left":    "left_word",
				"alt+right":   "right_word",
				"ctrl+left":   "left_line",
				"ctrl+right":  "right_line",
				"home":        "left_line",
				"end":         "right_line",
				"ctrl+up":     "up_line",
				"ctrl+down":   "down_line",
				"alt+h":       "left_five",
				"alt+l":       "right_five",
				"pgup":        "up_five",
				"pgdn":        "down_five",
				"alt+up":      "up_five",
				"alt+down":    "down_five",
				"shift+left":  "select_left",
				"shift+right": "select_right",
				"shift+up":    "select_up",
				"shift+down":  "select_down",
				"backspace":   "backspace",
				"ctrl+w":      "backspace_word",
				"ctrl+u":      "backspace_line",
				"enter":       "newline",
				"tab":         "tab",
				"ctrl+z":      "undo",
				"ctrl+y":      "redo",
				"ctrl+c":      "copy",
				"ctrl+v":      "paste",
				"ctrl+d":      "add_cursor_below",
				"ctrl+e":      "add_cursor_above",
				"ctrl+g":      "goto_line",
				"ctrl+j":      "move_cursor",
				"ctrl+f":      "find",
				"ctrl+n":      "find_next",
				"ctrl+p":      "find_prev",
				"ctrl+s":      "save",
				"ctrl+q":      "quit",
				"esc":         "escape",
			},
		},
	}
}

// Load reads config.toml over Default. A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	meta, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Editor.HistorySize > 0 {
		cfg.Editor.HistorySize = userCfg.Editor.HistorySize
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if meta.IsDefined("editor", "debug-log") {
		cfg.Editor.DebugLog = userCfg.Editor.DebugLog
	}
	if meta.IsDefined("editor", "watch-file") {
		cfg.Editor.WatchFile = userCfg.Editor.WatchFile
	}
	if meta.IsDefined("editor", "git-branch-symbol") {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}

	if userCfg.Theme.Theme != "" {
		theme, err := LoadTheme(userCfg.Theme.Theme)
		if err != nil {
			return cfg, fmt.Errorf("theme %q: %w", userCfg.Theme.Theme, err)
		}
		mergeTheme(&cfg.Theme, theme)
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	for k, v := range userCfg.Keymap.Edit {
		cfg.Keymap.Edit[k] = v
	}
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.HeaderForeground, src.HeaderForeground)
	set(&dst.HeaderBackground, src.HeaderBackground)
	set(&dst.NotificationForeground, src.NotificationForeground)
	set(&dst.LineNumberForeground, src.LineNumberForeground)
	set(&dst.LineNumberActiveForeground, src.LineNumberActiveForeground)
	set(&dst.CursorForeground, src.CursorForeground)
	set(&dst.CursorBackground, src.CursorBackground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.SearchMatchForeground, src.SearchMatchForeground)
	set(&dst.SearchMatchBackground, src.SearchMatchBackground)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxType, src.SyntaxType)
	set(&dst.SyntaxFunction, src.SyntaxFunction)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxConstant, src.SyntaxConstant)
	set(&dst.SyntaxOperator, src.SyntaxOperator)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. Both a bare table and one wrapped in
// [theme] are accepted.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	meta, err := toml.Decode(string(data), &wrap)
	if err != nil {
		return Theme{}, err
	}
	if meta.IsDefined("theme") {
		return wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("MEDIT_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "medit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "medit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
