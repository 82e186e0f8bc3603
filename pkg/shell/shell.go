// Package shell provides the interactive REPL for inspecting and exporting
// lesson scripts.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/export"
	"github.com/r3d91ll/scriptpdf/pkg/lesson"
	"github.com/r3d91ll/scriptpdf/pkg/report"
	"github.com/r3d91ll/scriptpdf/pkg/spinner"
	"github.com/r3d91ll/scriptpdf/pkg/stats"
)

// Shell is the interactive command-line interface.
type Shell struct {
	exporter *export.Exporter
	rl       *readline.Instance
	out      io.Writer

	current *lesson.Lesson
	origin  string
	backend string
}

// Config holds shell configuration.
type Config struct {
	HistoryFile string

	// Lesson is loaded before the prompt appears, if set.
	Lesson string
}

var errQuit = errors.New("quit")

// New creates an interactive shell reading from the terminal.
func New(exporter *export.Exporter, cfg Config) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mscriptpdf>\033[0m ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    NewCompleter(exporter.Registry().List()),
	})
	if err != nil {
		return nil, err
	}

	s := newShell(exporter, rl.Stdout())
	s.rl = rl
	if cfg.Lesson != "" {
		if err := s.Execute(context.Background(), "/load "+cfg.Lesson); err != nil {
			rl.Close()
			return nil, err
		}
	}
	return s, nil
}

func newShell(exporter *export.Exporter, out io.Writer) *Shell {
	return &Shell{
		exporter: exporter,
		out:      out,
		backend:  exporter.DefaultBackend(),
	}
}

// Run starts the interactive loop.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	fmt.Fprintln(s.out, "Load a lesson with /load <file|project>, then /stats, /slides, /preview or /export.")
	fmt.Fprintln(s.out, "Type /help for all commands.")
	fmt.Fprintln(s.out)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := s.Execute(ctx, line); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Fprintln(s.out, strings.TrimRight(rerrors.Sprint(err), "\n"))
		}
	}
}

// Execute runs a single shell line.
func (s *Shell) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return fmt.Errorf("commands start with /, try /help")
	}

	parts := strings.Fields(line)
	args := parts[1:]

	switch parts[0] {
	case "/quit", "/exit", "/q":
		return errQuit
	case "/help", "/h":
		s.printHelp()
	case "/load":
		return s.handleLoad(ctx, args)
	case "/projects":
		return s.handleProjects(ctx)
	case "/info":
		return s.printInfo()
	case "/slides":
		return s.printSlides()
	case "/stats":
		return s.printStats()
	case "/preview":
		return s.handlePreview(ctx, args)
	case "/backend":
		return s.handleBackend(args)
	case "/export":
		return s.handleExport(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", parts[0])
	}
	return nil
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  /load <file|project> - Load a lesson file or a project from the source")
	fmt.Fprintln(s.out, "  /projects            - List projects in the lesson source")
	fmt.Fprintln(s.out, "  /info                - Show the loaded project")
	fmt.Fprintln(s.out, "  /slides              - List slides")
	fmt.Fprintln(s.out, "  /stats               - Show lesson statistics")
	fmt.Fprintln(s.out, "  /preview [page]      - Show the laid out text of one page or all pages")
	fmt.Fprintln(s.out, "  /backend [name]      - Show or set the export backend")
	fmt.Fprintln(s.out, "  /export [file]       - Render and save the report")
	fmt.Fprintln(s.out, "  /quit                - Exit")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Tip: Use Tab to autocomplete /commands and backend names")
}

func (s *Shell) handleLoad(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /load <file|project>")
	}
	target := args[0]

	var (
		l   *lesson.Lesson
		err error
	)
	if _, statErr := os.Stat(target); statErr == nil {
		l, err = lesson.LoadFile(target)
		if err == nil {
			l.Project.DefaultID(lesson.FileID(target))
		}
	} else {
		l, err = s.exporter.LoadProject(ctx, target)
	}
	if err != nil {
		return err
	}

	s.current = l
	s.origin = target
	fmt.Fprintf(s.out, "Loaded %q (%d slides)\n", lesson.DocumentTitle(&l.Project, l.Slides), len(l.Slides))
	return nil
}

func (s *Shell) handleProjects(ctx context.Context) error {
	ids, err := s.exporter.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(s.out, "No projects found.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintf(s.out, "  %s\n", id)
	}
	return nil
}

func (s *Shell) requireLesson() error {
	if s.current == nil {
		return fmt.Errorf("no lesson loaded (use /load first)")
	}
	return nil
}

func (s *Shell) printInfo() error {
	if err := s.requireLesson(); err != nil {
		return err
	}
	p := &s.current.Project
	fmt.Fprintf(s.out, "Title:    %s\n", lesson.DocumentTitle(p, s.current.Slides))
	fmt.Fprintf(s.out, "ID:       %s\n", p.DisplayID())
	fmt.Fprintf(s.out, "Source:   %s\n", s.origin)
	fmt.Fprintf(s.out, "Slides:   %d\n", len(s.current.Slides))
	fmt.Fprintln(s.out, "Speakers:")
	for _, key := range p.SpeakerKeys() {
		fmt.Fprintf(s.out, "  %s\n", report.SpeakerLine(p.ResolveSpeaker(key), p.Speakers[key]))
	}
	return nil
}

func (s *Shell) printSlides() error {
	if err := s.requireLesson(); err != nil {
		return err
	}
	p := &s.current.Project
	for i, sl := range s.current.Slides {
		fmt.Fprintf(s.out, "%3d. %-30s %-12s %s\n",
			i+1, truncate(sl.DisplayTitle(), 30), p.ResolveSpeaker(sl.SpeakerKey()), report.SlideDuration(sl))
	}
	return nil
}

func (s *Shell) printStats() error {
	if err := s.requireLesson(); err != nil {
		return err
	}
	p := &s.current.Project
	agg := stats.Compute(p, s.current.Slides)
	for _, line := range report.StatisticsLines(agg) {
		fmt.Fprintln(s.out, line)
	}
	if len(agg.SpeakerBreakdown) > 0 {
		fmt.Fprintln(s.out, "Speaker Breakdown:")
		for _, row := range agg.SpeakerBreakdown {
			fmt.Fprintf(s.out, "  %s\n", report.BreakdownLine(p.ResolveSpeaker(row.Speaker), row.Count, row.Percentage))
		}
	}
	return nil
}

func (s *Shell) handlePreview(ctx context.Context, args []string) error {
	if err := s.requireLesson(); err != nil {
		return err
	}
	b, _, err := s.exporter.Builder("text")
	if err != nil {
		return err
	}
	doc, err := b.Build(&s.current.Project, s.current.Slides)
	if err != nil {
		return err
	}

	first, last := 1, doc.PageCount()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > doc.PageCount() {
			return fmt.Errorf("page must be between 1 and %d", doc.PageCount())
		}
		first, last = n, n
	}
	for n := first; n <= last; n++ {
		fmt.Fprintf(s.out, "--- page %d/%d ---\n", n, doc.PageCount())
		for _, line := range doc.Page(n).Lines() {
			fmt.Fprintln(s.out, line)
		}
	}
	return nil
}

func (s *Shell) handleBackend(args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Backend: %s (available: %s)\n", s.backend, strings.Join(s.exporter.Registry().List(), ", "))
		return nil
	}
	if _, _, err := s.exporter.Registry().Lookup(args[0]); err != nil {
		return err
	}
	s.backend = args[0]
	fmt.Fprintf(s.out, "Backend set to: %s\n", s.backend)
	return nil
}

// handleExport saves to the configured sink, or to the given file path.
func (s *Shell) handleExport(ctx context.Context, args []string) error {
	if err := s.requireLesson(); err != nil {
		return err
	}

	spin := spinner.NewWithConfig(spinner.Config{Message: "Rendering report", Writer: s.out})
	spin.Start()

	res, err := s.exporter.Render(ctx, s.current, s.backend)
	if err == nil {
		if len(args) > 0 {
			err = writeFile(args[0], res.Data)
			res.Location = args[0]
			if err == nil {
				s.exporter.Completed(res)
			}
		} else {
			err = s.exporter.Save(ctx, res)
		}
	}
	if err != nil {
		spin.Fail("Export failed")
		return err
	}

	spin.Success(fmt.Sprintf("Saved %d pages to %s", res.Pages, res.Location))
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return rerrors.WrapIO(err, rerrors.ErrSaveFailed, "failed to write report").WithContext("path", path)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
