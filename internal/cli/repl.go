package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/model"
)

var errNothingGenerated = errors.New("nothing generated yet")

// runInteractive reads commands from in until EOF or quit.
func (a *app) runInteractive(in io.Reader) int {
	fmt.Fprintln(a.out, "passgen interactive mode (type 'help' for commands, 'q' to quit)")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, "passgen> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := a.handleCommand(line); done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		printError(a.errOut, err)
		return exitFailure
	}
	return exitOK
}

// handleCommand runs one line of input and reports whether to quit.
func (a *app) handleCommand(line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "q", "quit", "exit":
		return true

	case "h", "help", "?":
		a.printHelp()

	case "c", "chars":
		s := a.settings
		s.ActiveTab = model.TabCharacter
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				printError(a.errOut, fmt.Errorf("length must be a positive number, got %q", arg))
				return false
			}
			s.CharLength = n
		}
		a.generate(s)

	case "w", "words":
		s := a.settings
		s.ActiveTab = model.TabWord
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil {
				printError(a.errOut, fmt.Errorf("word count must be a number, got %q", arg))
				return false
			}
			s.WordCount = n
		}
		if a.wordsErr != nil {
			printError(a.errOut, a.wordsErr)
			return false
		}
		a.generate(s)

	case "settings":
		a.printSettings()

	case "save":
		a.saveLast()

	default:
		printError(a.errOut, fmt.Errorf("unknown command %q, type 'help' for available commands", cmd))
	}

	return false
}

func (a *app) generate(s model.Settings) {
	resp, err := a.gen.GenerateFromSettings(s, nil)
	if err != nil {
		printError(a.errOut, err)
		return
	}
	a.last = resp.Password
	fmt.Fprintln(a.out, resp.Password)
}

// saveLast writes the most recent password to -o, or next to the settings file.
func (a *app) saveLast() {
	if a.last == "" {
		printError(a.errOut, errNothingGenerated)
		return
	}

	path := a.outFile
	if path == "" {
		path = filepath.Join(filepath.Dir(a.settingsPath), config.PasswordFileName)
	}
	if err := config.WritePassword(path, a.last); err != nil {
		printError(a.errOut, err)
		return
	}
	color.New(color.FgGreen).Fprintf(a.out, "saved to %s\n", path)
}

func (a *app) printSettings() {
	fmt.Fprintf(a.out, "settings file: %s\n", a.settingsPath)
	fmt.Fprintf(a.out, "word list:     %s", a.wordsPath)
	if a.wordsErr != nil {
		fmt.Fprint(a.out, " (unavailable)")
	} else {
		fmt.Fprintf(a.out, " (%d words)", a.gen.WordCount())
	}
	fmt.Fprintln(a.out)

	values := config.SettingsValues(a.settings)
	for _, key := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(a.out, "  %-20s %s\n", key, values[key])
	}
}

func (a *app) printHelp() {
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  c, chars [length]   Generate a character password")
	fmt.Fprintln(a.out, "  w, words [count]    Generate a passphrase of 3, 4 or 5 words")
	fmt.Fprintln(a.out, "  settings            Show the loaded settings")
	fmt.Fprintln(a.out, "  save                Write the last password to "+config.PasswordFileName)
	fmt.Fprintln(a.out, "  help                Show this help")
	fmt.Fprintln(a.out, "  q                   Quit")
}
