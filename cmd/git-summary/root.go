package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gimbo/git-summary/internal/config"
	"github.com/gimbo/git-summary/internal/logging"
	"github.com/gimbo/git-summary/internal/render"
	"github.com/gimbo/git-summary/internal/repo"
	"github.com/gimbo/git-summary/internal/summary"
)

var (
	flagTracking   bool
	flagFetch      bool
	flagMonochrome bool
	flagSimple     bool
	flagClear      bool
	flagSequential bool
	flagWorkers    int
	flagVerbose    bool
)

// CheckGitCLI verifies that the 'git' CLI is available in PATH.
func CheckGitCLI() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git CLI not found in PATH")
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "git-summary [PATH]",
	Short: "Summarise a bunch of git repositories in some folder",
	Long: `git-summary writes a status summary table for the git repos in some
folder. Within that folder, every folder containing a git repo is
summarised in a single row of the table.

The target folder may be specified on the command line or read from the
` + config.ReposPathEnvVar + ` environment variable.

Each row shows the repo name, its active branch, and a short string
summarising the repo's state; the characters mean:

    ?  untracked files
    +  new (staged) files
    m  unstaged modifications to files
    M  staged modifications to files
    R  renamed files
    v  unpulled commits
    ^  unpushed commits

    00000    no commits in repo yet
         --  no remote tracking branch
         @@  tracking branch is gone on remote
         XX  error fetching from remote

Ordinarily the tool doesn't hit the network at all; pass --fetch to run
a 'git fetch' on every repo so unpulled/unpushed commits are properly
detected (this can be slow).

The colours mean:

    Green            Everything good
    Red              Local has uncommitted changes
    Yellow           Local good but branch has no remote (or not fetched yet)
    Cyan             Local good but unpulled/unpushed commits
    Magenta          Local good but tried and failed to 'git fetch'
    Inverted yellow  Repo has no commits yet

By default the tool writes fancy output, filling table cells in as soon
as the information becomes available; pass --simple to write the rows
strictly in order instead (this also happens automatically whenever
output is redirected or piped). Fancy output writes into the existing
console flow so scrollback is preserved; if the cursor position can't be
determined the screen is cleared first, and --clear forces that.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	RunE:          runSummary,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&flagTracking, "tracking", "t", false, "display tracking branch name")
	rootCmd.Flags().BoolVarP(&flagFetch, "fetch", "f", false, "run a 'git fetch' on each repo before reporting its remote status (this can be slow)")
	rootCmd.Flags().BoolVarP(&flagMonochrome, "monochrome", "m", false, "don't use colors in output")
	rootCmd.Flags().BoolVarP(&flagSimple, "simple", "s", false, "write results strictly in order; always true if output is redirected or piped (implies -m)")
	rootCmd.Flags().BoolVarP(&flagClear, "clear", "c", false, "always clear the screen in fancy output mode")
	rootCmd.Flags().BoolVarP(&flagSequential, "sequential", "S", false, "check repo states sequentially, not concurrently (slower but helpful in case of weirdness)")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "number of concurrent workers (default from config)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging on stderr")

	rootCmd.AddCommand(versionCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	log := logging.New(os.Stderr, flagVerbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", config.GetUserConfigPath(), err)
	}

	if err := CheckGitCLI(); err != nil {
		return err
	}

	path := cfg.ReposPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no path specified, and none in %s env var", config.ReposPathEnvVar)
	}
	path, err = resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// If output is being redirected somewhere, turn off fancy output.
	simple := flagSimple
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		simple = true
	}

	repos, err := repo.Discover(path, log)
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	if len(repos) == 0 {
		return fmt.Errorf("no git repos found at path: %s", path)
	}
	log.Debug().Int("repos", len(repos)).Str("path", path).Msg("discovery complete")

	renderer := newRenderer(cfg, path, repos, simple)
	renderer.Start()

	workers := cfg.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}
	provider := repo.NewGitProvider()

	var summariser summary.Summariser
	if flagSequential {
		summariser = summary.NewSequential(repos, provider, renderer, flagFetch, log)
	} else {
		summariser = summary.NewConcurrent(repos, provider, renderer, flagFetch, workers, log)
	}
	summariser.Run()
	return nil
}

// renderer is what runSummary needs from either renderer: the initial
// table, then the two observer hooks.
type renderer interface {
	Start()
	summary.Observer
}

func newRenderer(cfg *config.Config, path string, repos []*repo.Repo, simple bool) renderer {
	if simple {
		return render.NewSimple(os.Stdout, path, repos, flagTracking)
	}
	probe := render.NewTermProbe(cfg.ProbeTimeout)
	return render.NewFancy(os.Stdout, probe, path, repos, flagTracking, flagMonochrome, flagClear)
}

// resolvePath expands a leading ~ and makes the path absolute.
func resolvePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
