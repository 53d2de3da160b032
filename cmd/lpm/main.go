// Package main provides the CLI entrypoint for lpm.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jaymody/lpm/internal/config"
	"github.com/jaymody/lpm/internal/history"
	"github.com/jaymody/lpm/internal/snippet"
	"github.com/jaymody/lpm/internal/statsui"
	"github.com/jaymody/lpm/internal/store"
	"github.com/jaymody/lpm/internal/tui"
)

const (
	defaultMaxLines = 20
	defaultMaxCols  = 80
	fetchTimeout    = 5 * time.Minute
	statBarRows     = 6
)

var (
	practiceMaxLines int
	practiceMaxCols  int

	fetchLangs string

	statsPlain bool

	resetSessions bool
	resetSnippets bool
	resetYes      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lpm [languages...]",
		Short:         "Terminal typing trainer for programmers",
		Long:          "lpm is a typing trainer that measures your lines per minute on real code snippets.",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceMaxLines, "max-lines", defaultMaxLines, "skip snippets longer than this many lines")
	rootCmd.Flags().IntVar(&practiceMaxCols, "max-cols", defaultMaxCols, "skip snippets wider than this many columns")

	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "max-lines", &practiceMaxLines, fileCfg.Practice.MaxLines)
	applyIntConfig(cmd, "max-cols", &practiceMaxCols, fileCfg.Practice.MaxCols)

	langs := normalizeLangs(args)
	if len(langs) == 0 && fileCfg.Practice.Languages != nil {
		langs = normalizeLangs(*fileCfg.Practice.Languages)
	}

	if practiceMaxLines <= 0 {
		return fmt.Errorf("--max-lines must be > 0")
	}
	if practiceMaxCols <= 0 {
		return fmt.Errorf("--max-cols must be > 0")
	}

	if err := checkTerminalSize(practiceMaxLines, practiceMaxCols); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cached, err := st.ListSnippets(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load snippets: %w", err)
	}
	if len(cached) == 0 {
		return fmt.Errorf("no snippets cached yet\nDownload the built-in set with: lpm fetch")
	}

	filtered := snippet.Filter(cached, langs, practiceMaxLines, practiceMaxCols)
	if len(filtered) == 0 {
		return noSnippetsError(langs, cached)
	}

	repo, err := snippet.NewRepository(filtered)
	if err != nil {
		return fmt.Errorf("failed to build snippet repository: %w", err)
	}

	model, err := tui.NewModel(repo, st)
	if err != nil {
		return fmt.Errorf("failed to build TUI: %w", err)
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// checkTerminalSize verifies the terminal can hold the widest allowed
// snippet plus the stat bar, url line, and prompt chrome.
func checkTerminalSize(maxLines, maxCols int) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("failed to read terminal size: %w", err)
	}
	needRows := maxLines + statBarRows
	if rows < needRows || cols < maxCols {
		return fmt.Errorf(
			"terminal too small: need at least %d cols x %d rows, got %d x %d\nResize the terminal or lower --max-lines/--max-cols",
			maxCols, needRows, cols, rows)
	}
	return nil
}

func noSnippetsError(langs []string, cached []snippet.Snippet) error {
	available := map[string]struct{}{}
	for _, sn := range cached {
		available[sn.Language] = struct{}{}
	}
	names := make([]string, 0, len(available))
	for lang := range available {
		names = append(names, lang)
	}
	sort.Strings(names)
	if len(langs) > 0 {
		return fmt.Errorf("no snippets match languages %s (cached: %s)",
			strings.Join(langs, ", "), strings.Join(names, ", "))
	}
	return fmt.Errorf("no snippets fit within --max-lines=%d --max-cols=%d", practiceMaxLines, practiceMaxCols)
}

func normalizeLangs(args []string) []string {
	langs := make([]string, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(strings.ToLower(part))
			if part != "" {
				langs = append(langs, part)
			}
		}
	}
	return langs
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the built-in snippet catalog",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVar(&fetchLangs, "lang", "", "comma-separated languages to fetch (default: all)")
	return cmd
}

func runFetchCmd(_ *cobra.Command, _ []string) error {
	langs, err := resolveFetchLangs(fetchLangs)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	return fetchCatalog(ctx, st, langs)
}

func fetchCatalog(ctx context.Context, st *store.Store, langs []string) error {
	catalog := snippet.Catalog()
	var snippets []snippet.Snippet
	id := 0
	for _, lang := range langs {
		urls := catalog[lang]
		log.Info("fetching snippets", "language", lang, "count", len(urls))
		for _, url := range urls {
			sn, err := snippet.Fetch(ctx, id, url, lang)
			if err != nil {
				log.Warn("skipping snippet", "url", url, "err", err)
				continue
			}
			log.Debug("fetched snippet", "url", url, "lines", sn.NumLines())
			snippets = append(snippets, sn)
			id++
		}
	}
	if len(snippets) == 0 {
		return fmt.Errorf("no snippets could be fetched")
	}
	if err := st.ReplaceSnippets(ctx, snippets); err != nil {
		return fmt.Errorf("failed to cache snippets: %w", err)
	}
	log.Info("snippet cache updated", "snippets", len(snippets))
	return nil
}

func resolveFetchLangs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return snippet.CatalogLanguages(), nil
	}
	langs := normalizeLangs(strings.Split(raw, ","))
	for _, lang := range langs {
		if !snippet.KnownLanguage(lang) {
			return nil, fmt.Errorf("unknown language %q (available: %s)",
				lang, strings.Join(snippet.CatalogLanguages(), ", "))
		}
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("--lang must not be empty")
	}
	return langs, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show typing stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report to stdout instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := history.BuildReport(context.Background(), st)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if err := history.RenderReport(cmd.OutOrStdout(), report); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		return nil
	}

	model := statsui.NewModel(st)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe session history and/or re-download snippets",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetSessions, "sessions", false, "delete recorded sessions")
	cmd.Flags().BoolVar(&resetSnippets, "snippets", false, "re-download the snippet cache")
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation prompts")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	// No flag means reset everything, matching a bare `lpm reset`.
	if !resetSessions && !resetSnippets {
		resetSessions = true
		resetSnippets = true
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	reader := bufio.NewReader(cmd.InOrStdin())

	if resetSessions {
		ok, err := confirm(reader, "Delete all recorded sessions? [y/N] ")
		if err != nil {
			return err
		}
		if ok {
			if err := st.DeleteSessions(context.Background()); err != nil {
				return fmt.Errorf("failed to delete sessions: %w", err)
			}
			log.Info("session history deleted")
		} else {
			log.Info("session history kept")
		}
	}

	if resetSnippets {
		ok, err := confirm(reader, "Re-download the snippet cache? [y/N] ")
		if err != nil {
			return err
		}
		if ok {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			if err := fetchCatalog(ctx, st, snippet.CatalogLanguages()); err != nil {
				return err
			}
		} else {
			log.Info("snippet cache kept")
		}
	}
	return nil
}

func confirm(reader *bufio.Reader, prompt string) (bool, error) {
	if resetYes {
		return true, nil
	}
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lpm configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# languages = ["python"]  # Restrict practice to these languages
# max-lines = %d          # Skip snippets longer than this many lines
# max-cols = %d           # Skip snippets wider than this many columns
`,
		defaultMaxLines,
		defaultMaxCols,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
