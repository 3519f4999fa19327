// Package cli implements the passgen command line: one-shot generation with
// -n or -w, and an interactive prompt when neither is given.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// UsageError reports invalid command line arguments.
type UsageError string

func (e UsageError) Error() string { return string(e) }

const (
	ErrConflictingModes UsageError = "-n and -w cannot be used together"
	ErrFlagWordCount    UsageError = "Word count for -w flag must be 3, 4, or 5."
)

// Options holds the parsed command line. An empty Mode selects the
// interactive prompt.
type Options struct {
	Mode       string
	Length     int
	Words      int
	Count      int
	ConfigPath string
	WordsPath  string
	OutFile    string
}

// ParseArgs parses args into Options. Flag syntax errors are reported to
// output by the flag package; validation failures are returned as UsageError.
func ParseArgs(args []string, output io.Writer) (Options, error) {
	opts := Options{Count: 1}

	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&opts.Length, "n", 0, "generate a character password of `LENGTH`")
	fs.IntVar(&opts.Words, "w", 0, "generate a passphrase of `COUNT` words (3, 4 or 5)")
	fs.IntVar(&opts.Count, "c", 1, "number of passwords to generate")
	fs.StringVar(&opts.ConfigPath, "config", filepath.Join(config.AppDir(), config.SettingsFileName), "settings `file`")
	fs.StringVar(&opts.WordsPath, "words", "", "word list `file` (default: words_file_path from the settings)")
	fs.StringVar(&opts.OutFile, "o", "", "also write the last password to `file`")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, UsageError(fmt.Sprintf("unexpected argument %q", fs.Arg(0)))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case set["n"] && set["w"]:
		return opts, ErrConflictingModes
	case set["n"]:
		if opts.Length < 1 {
			return opts, UsageError("length for -n flag must be at least 1")
		}
		opts.Mode = service.ModeChars
	case set["w"]:
		if _, ok := crypto.MaxPassphraseLength(opts.Words); !ok {
			return opts, ErrFlagWordCount
		}
		opts.Mode = service.ModeWords
	}

	if opts.Count < 1 || opts.Count > service.MaxBatch {
		return opts, UsageError(fmt.Sprintf("count for -c flag must be between 1 and %d", service.MaxBatch))
	}

	return opts, nil
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, src crypto.Source) int {
	opts, err := ParseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		var usage UsageError
		if errors.As(err, &usage) {
			printError(stderr, err)
		}
		return exitUsage
	}

	a := newApp(opts, src, stdout, stderr)
	if opts.Mode == "" {
		return a.runInteractive(stdin)
	}
	return a.runOnce(ctx, opts)
}

type app struct {
	settings     model.Settings
	settingsPath string
	wordsPath    string
	wordsErr     error
	outFile      string
	gen          *service.GeneratorService
	last         string
	out          io.Writer
	errOut       io.Writer
}

func newApp(opts Options, src crypto.Source, stdout, stderr io.Writer) *app {
	a := &app{
		settingsPath: opts.ConfigPath,
		outFile:      opts.OutFile,
		out:          stdout,
		errOut:       stderr,
	}

	settings, err := config.EnsureSettings(opts.ConfigPath)
	if err != nil {
		printWarning(stderr, fmt.Sprintf("using default settings: %v", err))
	}
	a.settings = settings

	a.wordsPath = opts.WordsPath
	if a.wordsPath == "" {
		a.wordsPath = settings.WordsFilePath
	}
	if a.wordsPath == "" {
		a.wordsPath = filepath.Join(config.AppDir(), config.WordsFileName)
	}

	words, err := config.LoadWords(a.wordsPath)
	a.wordsErr = err
	a.gen = service.NewGeneratorService(src, words)
	return a
}

// runOnce generates opts.Count passwords for the -n or -w flag.
func (a *app) runOnce(ctx context.Context, opts Options) int {
	var (
		resp model.GenerateResponse
		err  error
	)

	switch opts.Mode {
	case service.ModeChars:
		// All categories are on; only the characters come from the settings.
		sets := a.settings.CharacterSets()
		resp, err = a.gen.GenerateChars(ctx, model.CharGenerateRequest{
			Length: opts.Length,
			Sets: &model.CharacterSets{
				Lowercase: &sets.Lowercase,
				Uppercase: &sets.Uppercase,
				Numbers:   &sets.Numbers,
				Special:   &sets.Special,
			},
			Batch: opts.Count,
		})
	case service.ModeWords:
		if a.wordsErr != nil {
			printError(a.errOut, a.wordsErr)
			return exitFailure
		}
		resp, err = a.gen.GenerateWords(ctx, model.WordGenerateRequest{
			Count: opts.Words,
			Batch: opts.Count,
		})
	}
	if err != nil {
		printError(a.errOut, err)
		return exitFailure
	}

	passwords := resp.Passwords
	if len(passwords) == 0 {
		passwords = []string{resp.Password}
	}
	for _, p := range passwords {
		fmt.Fprintln(a.out, p)
	}
	a.last = passwords[len(passwords)-1]

	if a.outFile != "" {
		if err := config.WritePassword(a.outFile, a.last); err != nil {
			printError(a.errOut, err)
			return exitFailure
		}
	}
	return exitOK
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
}

func printWarning(w io.Writer, msg string) {
	color.New(color.FgYellow).Fprintf(w, "Warning: %s\n", msg)
}
