package crypto

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

var shortWords = []string{"apple", "river", "stone", "cloud", "maple"}

func TestGenerateWordPassphrase(t *testing.T) {
	tests := []struct {
		name    string
		req     WordRequest
		wantErr error
	}{
		{
			name: "three words with separator",
			req:  WordRequest{Count: 3, Words: shortWords, UseSeparator: true, Separator: "-", Capitalize: true},
		},
		{
			name: "five words without separator",
			req:  WordRequest{Count: 5, Words: shortWords},
		},
		{
			name:    "too few words",
			req:     WordRequest{Count: 3, Words: []string{"apple", "river"}},
			wantErr: ErrTooFewWords,
		},
		{
			name:    "unsupported count",
			req:     WordRequest{Count: 2, Words: shortWords},
			wantErr: ErrInvalidWordCount,
		},
		{
			name:    "count above the table",
			req:     WordRequest{Count: 6, Words: append(shortWords, "ember", "frost")},
			wantErr: ErrInvalidWordCount,
		},
		{
			name: "words always too long",
			req: WordRequest{
				Count: 3,
				Words: []string{"extraordinarily", "incomprehensible", "counterrevolutionary"},
			},
			wantErr: ErrPassphraseTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := GenerateWordPassphrase(CryptoSource{}, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GenerateWordPassphrase() error = %v, want %v", err, tt.wantErr)
				}
				if result != "" {
					t.Error("GenerateWordPassphrase() should return empty string on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
			}
			maxLen, _ := MaxPassphraseLength(tt.req.Count)
			if n := utf8.RuneCountInString(result); n > maxLen {
				t.Errorf("GenerateWordPassphrase() length = %d, want <= %d", n, maxLen)
			}
		})
	}
}

func TestGenerateWordPassphraseDistinctWords(t *testing.T) {
	req := WordRequest{Count: 3, Words: shortWords, UseSeparator: true, Separator: "-"}

	for i := 0; i < 100; i++ {
		passphrase, err := GenerateWordPassphrase(CryptoSource{}, req)
		if err != nil {
			t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
		}
		if len(passphrase) > 30 {
			t.Fatalf("passphrase %q longer than 30", passphrase)
		}

		parts := strings.Split(passphrase, "-")
		if len(parts) != 3 {
			t.Fatalf("passphrase %q has %d words, want 3", passphrase, len(parts))
		}

		seen := make(map[string]bool)
		for _, p := range parts {
			if !containsWord(shortWords, p) {
				t.Errorf("passphrase %q has unknown word %q", passphrase, p)
			}
			if seen[p] {
				t.Errorf("passphrase %q repeats %q", passphrase, p)
			}
			seen[p] = true
		}
	}
}

func TestGenerateWordPassphraseCapitalization(t *testing.T) {
	words := []string{"aPPLE", "River", "sTONE", "élan", "Über"}

	tests := []struct {
		name       string
		capitalize bool
		want       map[string]bool
	}{
		{
			name:       "capitalize",
			capitalize: true,
			want:       map[string]bool{"APPLE": true, "River": true, "STONE": true, "Élan": true, "Über": true},
		},
		{
			name:       "lowercase",
			capitalize: false,
			want:       map[string]bool{"aPPLE": true, "river": true, "sTONE": true, "élan": true, "über": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := WordRequest{Count: 4, Words: words, UseSeparator: true, Separator: " ", Capitalize: tt.capitalize}

			for i := 0; i < 50; i++ {
				passphrase, err := GenerateWordPassphrase(CryptoSource{}, req)
				if err != nil {
					t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
				}
				for _, w := range strings.Split(passphrase, " ") {
					if !tt.want[w] {
						t.Errorf("passphrase %q has unexpected word %q", passphrase, w)
					}
				}
			}
		})
	}
}

func TestGenerateWordPassphraseSeparatorDisabled(t *testing.T) {
	req := WordRequest{Count: 3, Words: []string{"ab", "cd", "ef"}, UseSeparator: false, Separator: "-"}

	passphrase, err := GenerateWordPassphrase(CryptoSource{}, req)
	if err != nil {
		t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
	}
	if strings.Contains(passphrase, "-") {
		t.Errorf("passphrase %q should not contain the separator", passphrase)
	}
	if len(passphrase) != 6 {
		t.Errorf("passphrase %q has length %d, want 6", passphrase, len(passphrase))
	}
}

func TestGenerateWordPassphraseLengthCountsCharacters(t *testing.T) {
	// Nine two-byte letters per word: 27 characters joined, 54 bytes.
	word := strings.Repeat("é", 9)
	req := WordRequest{Count: 3, Words: []string{word, word, word}}

	passphrase, err := GenerateWordPassphrase(CryptoSource{}, req)
	if err != nil {
		t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
	}
	if n := utf8.RuneCountInString(passphrase); n != 27 {
		t.Errorf("passphrase has %d characters, want 27", n)
	}
}

func TestGenerateWordPassphraseDeterministic(t *testing.T) {
	req := WordRequest{Count: 4, Words: append(shortWords, "ember", "frost", "grove"), UseSeparator: true, Separator: ".", Capitalize: true}

	first, err := GenerateWordPassphrase(NewSeededSource(7), req)
	if err != nil {
		t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
	}
	second, err := GenerateWordPassphrase(NewSeededSource(7), req)
	if err != nil {
		t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("same seed produced %q and %q", first, second)
	}
}

func TestGenerateWordPassphraseSourceFailure(t *testing.T) {
	_, err := GenerateWordPassphrase(failingSource{}, WordRequest{Count: 3, Words: shortWords})
	if err == nil || !strings.Contains(err.Error(), "entropy unavailable") {
		t.Errorf("GenerateWordPassphrase() error = %v, want wrapped source error", err)
	}
}

func TestGenerateWordPassphraseDoesNotMutateInput(t *testing.T) {
	words := []string{"apple", "river", "stone", "cloud"}
	orig := append([]string(nil), words...)

	if _, err := GenerateWordPassphrase(CryptoSource{}, WordRequest{Count: 3, Words: words, Capitalize: true}); err != nil {
		t.Fatalf("GenerateWordPassphrase() unexpected error: %v", err)
	}
	for i := range words {
		if words[i] != orig[i] {
			t.Fatalf("word list mutated: %v, want %v", words, orig)
		}
	}
}

func containsWord(words []string, w string) bool {
	for _, candidate := range words {
		if candidate == w {
			return true
		}
	}
	return false
}
