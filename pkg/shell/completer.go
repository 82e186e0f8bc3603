package shell

import (
	"strings"

	"github.com/chzyer/readline"
)

// commands lists the shell commands without the / prefix.
var commands = []string{
	"quit",
	"exit",
	"help",
	"load",
	"projects",
	"info",
	"slides",
	"stats",
	"preview",
	"backend",
	"export",
}

// Completer completes /commands and, after /backend, backend names.
type Completer struct {
	backends []string
}

// NewCompleter creates a completer over the given backend names.
func NewCompleter(backends []string) *Completer {
	return &Completer{backends: backends}
}

var _ readline.AutoCompleter = (*Completer)(nil)

// Do implements readline.AutoCompleter. It returns the candidate suffixes
// and the length of the word being completed.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if len(line) == 0 || pos <= 0 {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}

	text := string(line[:pos])
	start := strings.LastIndexAny(text, " \t") + 1
	word := text[start:]

	if start == 0 {
		if !strings.HasPrefix(word, "/") {
			return nil, 0
		}
		return complete(strings.TrimPrefix(word, "/"), commands, len([]rune(word)))
	}

	fields := strings.Fields(text[:start])
	if len(fields) == 1 && fields[0] == "/backend" {
		return complete(word, c.backends, len([]rune(word)))
	}
	return nil, 0
}

func complete(prefix string, candidates []string, length int) ([][]rune, int) {
	var matches [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, prefix) {
			matches = append(matches, []rune(cand[len(prefix):]+" "))
		}
	}
	return matches, length
}
