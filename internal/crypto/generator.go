package crypto

import (
	"errors"
	"fmt"
)

const (
	// MaxAttempts bounds the rejection-sampling loops of both generators.
	MaxAttempts = 100
	// MaxRepeat is the most times any one character may appear in a password.
	MaxRepeat = 3

	DefaultLength = 16
)

var (
	ErrNoCategorySelected      = errors.New("at least one character set must be selected")
	ErrLengthTooShort          = errors.New("password length is too short to include one of each selected type")
	ErrInsufficientUniqueChars = errors.New("not enough unique characters for the requested length and repetition rule")
	ErrGenerationExhausted     = errors.New("failed to generate a valid password after multiple attempts")
)

// CharacterSets holds the characters available to each category. An empty
// string disables its category. Duplicated characters are kept and weigh
// sampling accordingly.
type CharacterSets struct {
	Lowercase string `json:"lowercase_chars"`
	Uppercase string `json:"uppercase_chars"`
	Numbers   string `json:"number_chars"`
	Special   string `json:"special_chars"`
}

// DefaultCharacterSets returns the stock ASCII categories.
func DefaultCharacterSets() CharacterSets {
	return CharacterSets{
		Lowercase: "abcdefghijklmnopqrstuvwxyz",
		Uppercase: "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		Numbers:   "0123456789",
		Special:   "!@#$%^&*()-_=+[]{}|;:,.<>?",
	}
}

// CharRequest configures a character password.
type CharRequest struct {
	Length    int
	Sets      CharacterSets
	Lowercase bool
	Uppercase bool
	Numbers   bool
	Special   bool
}

// DefaultCharRequest returns a 16 character request with every category on.
func DefaultCharRequest() CharRequest {
	return CharRequest{
		Length:    DefaultLength,
		Sets:      DefaultCharacterSets(),
		Lowercase: true,
		Uppercase: true,
		Numbers:   true,
		Special:   true,
	}
}

// categories returns the enabled, non-empty categories in fixed order.
func (r CharRequest) categories() [][]rune {
	candidates := []struct {
		on    bool
		chars string
	}{
		{r.Lowercase, r.Sets.Lowercase},
		{r.Uppercase, r.Sets.Uppercase},
		{r.Numbers, r.Sets.Numbers},
		{r.Special, r.Sets.Special},
	}

	var out [][]rune
	for _, c := range candidates {
		if c.on && c.chars != "" {
			out = append(out, []rune(c.chars))
		}
	}
	return out
}

// GenerateCharPassword builds a password of exactly req.Length characters
// holding at least one character of every selected category, with no
// character used more than MaxRepeat times.
func GenerateCharPassword(src Source, req CharRequest) (string, error) {
	var mandatory, pool []rune

	categories := req.categories()
	for _, chars := range categories {
		ch, err := pick(src, chars)
		if err != nil {
			return "", fmt.Errorf("picking mandatory character: %w", err)
		}
		mandatory = append(mandatory, ch)
		pool = append(pool, chars...)
	}

	selected := len(categories)
	if selected == 0 {
		return "", ErrNoCategorySelected
	}
	if req.Length < selected {
		return "", fmt.Errorf("%w: length must be at least %d", ErrLengthTooShort, selected)
	}

	// Approximate feasibility guard only.
	unique := countUnique(pool)
	if req.Length > unique*MaxRepeat {
		return "", fmt.Errorf("%w: %d unique characters allow at most %d",
			ErrInsufficientUniqueChars, unique, unique*MaxRepeat)
	}

	for range MaxAttempts {
		candidate := make([]rune, 0, req.Length)
		candidate = append(candidate, mandatory...)

		for len(candidate) < req.Length {
			ch, err := pick(src, pool)
			if err != nil {
				return "", fmt.Errorf("sampling character: %w", err)
			}
			candidate = append(candidate, ch)
		}

		if err := shuffle(src, candidate); err != nil {
			return "", fmt.Errorf("shuffling password: %w", err)
		}

		if withinRepeatLimit(candidate) {
			return string(candidate), nil
		}
	}

	return "", ErrGenerationExhausted
}

func countUnique(chars []rune) int {
	seen := make(map[rune]struct{}, len(chars))
	for _, ch := range chars {
		seen[ch] = struct{}{}
	}
	return len(seen)
}

func withinRepeatLimit(chars []rune) bool {
	counts := make(map[rune]int, len(chars))
	for _, ch := range chars {
		counts[ch]++
		if counts[ch] > MaxRepeat {
			return false
		}
	}
	return true
}
