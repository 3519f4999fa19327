package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vaultpass/passgen-go/internal/model"
)

var ErrUnquotableValue = errors.New("value cannot be stored in the settings file")

const (
	SettingsFileName = "config.toml"
	WordsFileName    = "words.txt"
	PasswordFileName = "password.txt"
)

// AppDir returns the directory holding the running executable, or the
// working directory when that cannot be determined.
func AppDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// LoadSettings reads a key=value settings file. Keys that are missing or fail
// to parse keep their default value.
func LoadSettings(path string) (model.Settings, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return model.DefaultSettings(), fmt.Errorf("reading settings %s: %w", path, err)
	}
	if len(values) == 0 {
		return model.DefaultSettings(), fmt.Errorf("settings %s: no keys found", path)
	}
	return settingsFromMap(values, filepath.Dir(path)), nil
}

// EnsureSettings loads the settings at path, writing the defaults there first
// if the file does not exist yet.
func EnsureSettings(path string) (model.Settings, error) {
	s, err := LoadSettings(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return s, err
	}

	s = model.DefaultSettings()
	s.WordsFilePath = filepath.Join(filepath.Dir(path), WordsFileName)
	if err := SaveSettings(path, s); err != nil {
		return s, err
	}
	return s, nil
}

// SaveSettings writes s to path, replacing any existing file. Every value is
// quoted so that LoadSettings reads back exactly the same strings.
func SaveSettings(path string, s model.Settings) error {
	values := SettingsValues(s)

	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(values)) {
		v, err := quoteValue(values[key])
		if err != nil {
			return fmt.Errorf("saving settings %s: %s: %w", path, key, err)
		}
		b.WriteString(key + "=" + v + "\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("saving settings %s: %w", path, err)
	}
	return nil
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "\n", `\n`, "\r", `\r`)

// quoteValue encodes v in the quoting godotenv.Read understands. Double
// quotes are used unless v ends in a quote character, which the parser would
// strip; such values are written single-quoted and raw.
func quoteValue(v string) (string, error) {
	switch {
	case strings.HasSuffix(v, `\`):
		return "", ErrUnquotableValue
	case strings.HasSuffix(v, `"`):
		if strings.ContainsAny(v, "'\r") {
			return "", ErrUnquotableValue
		}
		return "'" + v + "'", nil
	default:
		return `"` + valueEscaper.Replace(v) + `"`, nil
	}
}

// SettingsValues returns s keyed by settings file name.
func SettingsValues(s model.Settings) map[string]string {
	return map[string]string{
		"theme":               string(s.Theme),
		"words_file_path":     s.WordsFilePath,
		"active_tab":          string(s.ActiveTab),
		"use_lowercase":       strconv.FormatBool(s.UseLowercase),
		"use_uppercase":       strconv.FormatBool(s.UseUppercase),
		"use_numbers":         strconv.FormatBool(s.UseNumbers),
		"use_special":         strconv.FormatBool(s.UseSpecial),
		"char_length":         strconv.Itoa(s.CharLength),
		"lowercase_chars":     s.LowercaseChars,
		"uppercase_chars":     s.UppercaseChars,
		"number_chars":        s.NumberChars,
		"special_chars":       s.SpecialChars,
		"word_count":          strconv.Itoa(s.WordCount),
		"use_separator":       strconv.FormatBool(s.UseSeparator),
		"separator_char":      s.SeparatorChar,
		"use_uppercase_words": strconv.FormatBool(s.UseUppercaseWords),
	}
}

func settingsFromMap(m map[string]string, dir string) model.Settings {
	s := model.DefaultSettings()

	if v := model.Theme(m["theme"]); v == model.ThemeLight || v == model.ThemeDark {
		s.Theme = v
	}
	if v := model.Tab(m["active_tab"]); v == model.TabCharacter || v == model.TabWord {
		s.ActiveTab = v
	}

	s.WordsFilePath = filepath.Join(dir, WordsFileName)
	if v, ok := m["words_file_path"]; ok && v != "" {
		s.WordsFilePath = v
	}

	s.UseLowercase = boolValue(m, "use_lowercase", s.UseLowercase)
	s.UseUppercase = boolValue(m, "use_uppercase", s.UseUppercase)
	s.UseNumbers = boolValue(m, "use_numbers", s.UseNumbers)
	s.UseSpecial = boolValue(m, "use_special", s.UseSpecial)
	s.CharLength = intValue(m, "char_length", s.CharLength)

	// Present but empty disables the category, so only absence falls back.
	s.LowercaseChars = stringValue(m, "lowercase_chars", s.LowercaseChars)
	s.UppercaseChars = stringValue(m, "uppercase_chars", s.UppercaseChars)
	s.NumberChars = stringValue(m, "number_chars", s.NumberChars)
	s.SpecialChars = stringValue(m, "special_chars", s.SpecialChars)

	s.WordCount = intValue(m, "word_count", s.WordCount)
	s.UseSeparator = boolValue(m, "use_separator", s.UseSeparator)
	s.SeparatorChar = stringValue(m, "separator_char", s.SeparatorChar)
	s.UseUppercaseWords = boolValue(m, "use_uppercase_words", s.UseUppercaseWords)

	return s
}

func stringValue(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

func boolValue(m map[string]string, key string, fallback bool) bool {
	v, err := strconv.ParseBool(m[key])
	if err != nil {
		return fallback
	}
	return v
}

func intValue(m map[string]string, key string, fallback int) int {
	v, err := strconv.Atoi(m[key])
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// WritePassword stores password at path, readable only by the owner.
func WritePassword(path, password string) error {
	if err := os.WriteFile(path, []byte(password), 0o600); err != nil {
		return fmt.Errorf("writing password %s: %w", path, err)
	}
	return nil
}
