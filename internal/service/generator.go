package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	ModeChars = "chars"
	ModeWords = "words"

	MaxBatch        = 50
	batchWorkers    = 8
	defaultWordSize = 3
)

var (
	ErrInvalidBatch    = fmt.Errorf("batch must be between 1 and %d", MaxBatch)
	ErrLengthTooLong   = fmt.Errorf("length must be at most %d", model.MaxCharLength)
	ErrWordListTooLong = fmt.Errorf("word lists are limited to %d words", model.MaxWordList)
)

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	src   crypto.Source
	words []string
}

// NewGeneratorService creates a GeneratorService drawing from src. words is
// the default list for passphrases and may be empty.
func NewGeneratorService(src crypto.Source, words []string) *GeneratorService {
	if src == nil {
		src = crypto.CryptoSource{}
	}
	return &GeneratorService{src: src, words: words}
}

// WordCount reports how many default words are loaded.
func (s *GeneratorService) WordCount() int {
	return len(s.words)
}

// GenerateChars produces one or more character passwords.
func (s *GeneratorService) GenerateChars(ctx context.Context, req model.CharGenerateRequest) (model.GenerateResponse, error) {
	if req.Length > model.MaxCharLength {
		return model.GenerateResponse{}, ErrLengthTooLong
	}
	sets, err := mergeSets(req.Sets)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	creq := crypto.CharRequest{
		Length:    req.Length,
		Sets:      sets,
		Lowercase: boolOrDefault(req.Lowercase, true),
		Uppercase: boolOrDefault(req.Uppercase, true),
		Numbers:   boolOrDefault(req.Numbers, true),
		Special:   boolOrDefault(req.Symbols, true),
	}
	if creq.Length == 0 {
		creq.Length = crypto.DefaultLength
	}

	return s.batch(ctx, ModeChars, req.Batch, func() (string, error) {
		return crypto.GenerateCharPassword(s.src, creq)
	})
}

// GenerateWords produces one or more passphrases.
func (s *GeneratorService) GenerateWords(ctx context.Context, req model.WordGenerateRequest) (model.GenerateResponse, error) {
	if len(req.Words) > model.MaxWordList {
		return model.GenerateResponse{}, ErrWordListTooLong
	}

	wreq := crypto.WordRequest{
		Count:        req.Count,
		Words:        req.Words,
		UseSeparator: boolOrDefault(req.UseSeparator, true),
		Separator:    stringOrDefault(req.Separator, crypto.DefaultSeparator),
		Capitalize:   boolOrDefault(req.Capitalize, true),
	}
	if wreq.Count == 0 {
		wreq.Count = defaultWordSize
	}
	if len(wreq.Words) == 0 {
		wreq.Words = s.words
	}

	return s.batch(ctx, ModeWords, req.Batch, func() (string, error) {
		return crypto.GenerateWordPassphrase(s.src, wreq)
	})
}

// GenerateFromSettings produces a password for the generator selected by the
// settings' active tab. words overrides the service's default list when set.
func (s *GeneratorService) GenerateFromSettings(settings model.Settings, words []string) (model.GenerateResponse, error) {
	if settings.ActiveTab == model.TabWord {
		if len(words) == 0 {
			words = s.words
		}
		p, err := crypto.GenerateWordPassphrase(s.src, settings.WordRequest(words))
		if err != nil {
			return model.GenerateResponse{}, err
		}
		return single(ModeWords, p), nil
	}

	p, err := crypto.GenerateCharPassword(s.src, settings.CharRequest())
	if err != nil {
		return model.GenerateResponse{}, err
	}
	return single(ModeChars, p), nil
}

// batch runs gen n times across a bounded set of goroutines. The first
// failure cancels the remaining work.
func (s *GeneratorService) batch(ctx context.Context, mode string, n int, gen func() (string, error)) (model.GenerateResponse, error) {
	if n == 0 {
		n = 1
	}
	if n < 1 || n > MaxBatch {
		return model.GenerateResponse{}, ErrInvalidBatch
	}

	if n == 1 {
		p, err := gen()
		if err != nil {
			return model.GenerateResponse{}, err
		}
		return single(mode, p), nil
	}

	results := make([]string, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)

	for i := range results {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := gen()
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.GenerateResponse{}, err
	}

	resp := single(mode, results[0])
	resp.Passwords = results
	return resp, nil
}

// IsGenerationError reports whether err is a recoverable generation failure
// caused by the request rather than by the service.
func IsGenerationError(err error) bool {
	for _, target := range []error{
		crypto.ErrNoCategorySelected,
		crypto.ErrLengthTooShort,
		crypto.ErrInsufficientUniqueChars,
		crypto.ErrGenerationExhausted,
		crypto.ErrTooFewWords,
		crypto.ErrInvalidWordCount,
		crypto.ErrPassphraseTooLong,
		ErrInvalidBatch,
		ErrLengthTooLong,
		ErrWordListTooLong,
		model.ErrSetTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func single(mode, password string) model.GenerateResponse {
	return model.GenerateResponse{
		Mode:     mode,
		Password: password,
		Length:   utf8.RuneCountInString(password),
	}
}

func mergeSets(override *model.CharacterSets) (crypto.CharacterSets, error) {
	sets := crypto.DefaultCharacterSets()
	if override == nil {
		return sets, nil
	}
	sets.Lowercase = stringOrDefault(override.Lowercase, sets.Lowercase)
	sets.Uppercase = stringOrDefault(override.Uppercase, sets.Uppercase)
	sets.Numbers = stringOrDefault(override.Numbers, sets.Numbers)
	sets.Special = stringOrDefault(override.Special, sets.Special)

	for _, set := range []string{sets.Lowercase, sets.Uppercase, sets.Numbers, sets.Special} {
		if utf8.RuneCountInString(set) > model.MaxSetRunes {
			return sets, model.ErrSetTooLarge
		}
	}
	return sets, nil
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func stringOrDefault(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
