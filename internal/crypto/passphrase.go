package crypto

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultSeparator = "-"

var (
	ErrTooFewWords       = errors.New("not enough words in the word list")
	ErrInvalidWordCount  = errors.New("word count must be 3, 4, or 5")
	ErrPassphraseTooLong = errors.New("could not generate a passphrase within the length limit")
)

// maxPassphraseLength maps each supported word count to the longest
// passphrase, in characters, that will be returned.
var maxPassphraseLength = map[int]int{
	3: 30,
	4: 35,
	5: 40,
}

// MaxPassphraseLength reports the length cap for count and whether count is
// supported.
func MaxPassphraseLength(count int) (int, bool) {
	n, ok := maxPassphraseLength[count]
	return n, ok
}

// WordRequest configures a passphrase.
type WordRequest struct {
	Count        int
	Words        []string
	UseSeparator bool
	Separator    string
	Capitalize   bool
}

// GenerateWordPassphrase joins req.Count distinct words from req.Words. Only
// the first character of each word is case-mapped; the rest is kept as is.
func GenerateWordPassphrase(src Source, req WordRequest) (string, error) {
	if len(req.Words) < req.Count {
		return "", fmt.Errorf("%w (found %d, need at least %d)", ErrTooFewWords, len(req.Words), req.Count)
	}

	maxLen, ok := MaxPassphraseLength(req.Count)
	if !ok {
		return "", fmt.Errorf("%w: got %d", ErrInvalidWordCount, req.Count)
	}

	sep := ""
	if req.UseSeparator {
		sep = req.Separator
	}

	var caser cases.Caser
	if req.Capitalize {
		caser = cases.Upper(language.Und)
	} else {
		caser = cases.Lower(language.Und)
	}

	for range MaxAttempts {
		chosen, err := sampleDistinct(src, req.Words, req.Count)
		if err != nil {
			return "", fmt.Errorf("sampling words: %w", err)
		}

		for i, w := range chosen {
			chosen[i] = mapFirst(caser, w)
		}

		passphrase := strings.Join(chosen, sep)
		if utf8.RuneCountInString(passphrase) <= maxLen {
			return passphrase, nil
		}
	}

	return "", fmt.Errorf("%w of %d characters; check the word list for long words", ErrPassphraseTooLong, maxLen)
}

// sampleDistinct draws k elements from words without replacement using a
// partial Fisher-Yates shuffle over the indices.
func sampleDistinct(src Source, words []string, k int) ([]string, error) {
	idx := make([]int, len(words))
	for i := range idx {
		idx[i] = i
	}

	out := make([]string, k)
	for i := range k {
		j, err := src.IntN(len(idx) - i)
		if err != nil {
			return nil, err
		}
		j += i
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = words[idx[i]]
	}
	return out, nil
}

func mapFirst(caser cases.Caser, word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return caser.String(string(r)) + word[size:]
}
