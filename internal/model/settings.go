package model

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

// Theme is the color scheme preferred by the user.
type Theme string

const (
	ThemeLight Theme = "Light"
	ThemeDark  Theme = "Dark"
)

// Tab selects which generator the settings drive.
type Tab string

const (
	TabCharacter Tab = "Character"
	TabWord      Tab = "Word"
)

var (
	ErrInvalidTheme     = errors.New("theme must be Light or Dark")
	ErrInvalidTab       = errors.New("active_tab must be Character or Word")
	ErrInvalidLength    = fmt.Errorf("char_length must be between 1 and %d", MaxCharLength)
	ErrSetTooLarge      = fmt.Errorf("character sets are limited to %d characters each", MaxSetRunes)
	ErrInvalidWordCount = errors.New("word_count must be 3, 4, or 5")
	ErrInvalidSeparator = errors.New("separator_char must be at most one character")
)

// Settings is the full set of generator preferences. The JSON names double as
// the keys of the settings file.
type Settings struct {
	Theme             Theme  `json:"theme"`
	WordsFilePath     string `json:"words_file_path"`
	ActiveTab         Tab    `json:"active_tab"`
	UseLowercase      bool   `json:"use_lowercase"`
	UseUppercase      bool   `json:"use_uppercase"`
	UseNumbers        bool   `json:"use_numbers"`
	UseSpecial        bool   `json:"use_special"`
	CharLength        int    `json:"char_length"`
	LowercaseChars    string `json:"lowercase_chars"`
	UppercaseChars    string `json:"uppercase_chars"`
	NumberChars       string `json:"number_chars"`
	SpecialChars      string `json:"special_chars"`
	WordCount         int    `json:"word_count"`
	UseSeparator      bool   `json:"use_separator"`
	SeparatorChar     string `json:"separator_char"`
	UseUppercaseWords bool   `json:"use_uppercase_words"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	sets := crypto.DefaultCharacterSets()
	return Settings{
		Theme:             ThemeDark,
		ActiveTab:         TabCharacter,
		UseLowercase:      true,
		UseUppercase:      true,
		UseNumbers:        true,
		UseSpecial:        true,
		CharLength:        crypto.DefaultLength,
		LowercaseChars:    sets.Lowercase,
		UppercaseChars:    sets.Uppercase,
		NumberChars:       sets.Numbers,
		SpecialChars:      sets.Special,
		WordCount:         3,
		UseSeparator:      true,
		SeparatorChar:     crypto.DefaultSeparator,
		UseUppercaseWords: true,
	}
}

// Validate checks the fields that the generators cannot recover from.
func (s Settings) Validate() error {
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		return ErrInvalidTheme
	}
	if s.ActiveTab != TabCharacter && s.ActiveTab != TabWord {
		return ErrInvalidTab
	}
	if s.CharLength < 1 || s.CharLength > MaxCharLength {
		return ErrInvalidLength
	}
	for _, set := range []string{s.LowercaseChars, s.UppercaseChars, s.NumberChars, s.SpecialChars} {
		if utf8.RuneCountInString(set) > MaxSetRunes {
			return ErrSetTooLarge
		}
	}
	if _, ok := crypto.MaxPassphraseLength(s.WordCount); !ok {
		return ErrInvalidWordCount
	}
	if utf8.RuneCountInString(s.SeparatorChar) > 1 {
		return ErrInvalidSeparator
	}
	return nil
}

// CharacterSets returns the configured categories.
func (s Settings) CharacterSets() crypto.CharacterSets {
	return crypto.CharacterSets{
		Lowercase: s.LowercaseChars,
		Uppercase: s.UppercaseChars,
		Numbers:   s.NumberChars,
		Special:   s.SpecialChars,
	}
}

// CharRequest builds a character request of the configured length.
func (s Settings) CharRequest() crypto.CharRequest {
	return crypto.CharRequest{
		Length:    s.CharLength,
		Sets:      s.CharacterSets(),
		Lowercase: s.UseLowercase,
		Uppercase: s.UseUppercase,
		Numbers:   s.UseNumbers,
		Special:   s.UseSpecial,
	}
}

// WordRequest builds a passphrase request over words.
func (s Settings) WordRequest(words []string) crypto.WordRequest {
	return crypto.WordRequest{
		Count:        s.WordCount,
		Words:        words,
		UseSeparator: s.UseSeparator,
		Separator:    s.SeparatorChar,
		Capitalize:   s.UseUppercaseWords,
	}
}

// UserSettings is a stored settings document.
type UserSettings struct {
	UserID    int64
	Data      []byte
	Version   int
	UpdatedAt time.Time
}

// SettingsRequest represents a settings update. Version must exceed the stored one.
type SettingsRequest struct {
	Settings Settings `json:"settings"`
	Version  int      `json:"version"`
}

// SettingsResponse represents the stored settings of a user.
type SettingsResponse struct {
	Settings  Settings  `json:"settings"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}
