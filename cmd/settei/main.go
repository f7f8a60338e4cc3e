// Package main provides the CLI entrypoint for settei.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/settei/internal/config"
	"github.com/verte-zerg/settei/internal/model"
	"github.com/verte-zerg/settei/internal/report"
	"github.com/verte-zerg/settei/internal/sim"
	"github.com/verte-zerg/settei/internal/stats"
	"github.com/verte-zerg/settei/internal/tui"
)

const (
	defaultSimSetting = "6"
	defaultSimSpins   = 3000
	defaultSimStep    = 50
	defaultSimTrials  = 200
	defaultSimSeed    = 1
)

var (
	configPath string

	startSpins int
	startHits  int

	evalSpins int
	evalHits  int
	evalTable bool

	simSetting string
	simSpins   int
	simStep    int
	simTrials  int
	simWorkers int
	simSeed    int64
	simColor   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "settei",
		Short:         "Estimate slot machine settings from spins and hits",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runInteractiveCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/settei/config.toml)")
	rootCmd.Flags().IntVar(&startSpins, "spins", 0, "initial total spins")
	rootCmd.Flags().IntVar(&startHits, "hits", 0, "initial hit count")

	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func newBuilder(fileCfg config.FileConfig) (*report.Builder, error) {
	machine, err := fileCfg.Machine(config.DefaultMachine())
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	b, err := report.NewBuilder(machine)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	return b, nil
}

func runInteractiveCmd(_ *cobra.Command, _ []string) error {
	if err := validateCounts(startSpins, startHits); err != nil {
		return err
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	b, err := newBuilder(fileCfg)
	if err != nil {
		return err
	}

	m := tui.NewModel(b, startSpins, startHits)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if m.ShareRequested() {
		if _, err := fmt.Fprintln(os.Stdout, m.Report().Share); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate spins and hits once and print the summary",
		Args:  cobra.NoArgs,
		RunE:  runEvalCmd,
	}
	cmd.Flags().IntVar(&evalSpins, "spins", 0, "total spins")
	cmd.Flags().IntVar(&evalHits, "hits", 0, "hit count")
	cmd.Flags().BoolVar(&evalTable, "table", false, "also print the posterior table")
	return cmd
}

func runEvalCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.EvalConfig{Spins: evalSpins, Hits: evalHits, Table: evalTable}
	if err := validateCounts(cfg.Spins, cfg.Hits); err != nil {
		return err
	}
	if cfg.Hits > cfg.Spins {
		logErrf("hits (%d) exceed spins (%d); showing the prior\n", cfg.Hits, cfg.Spins)
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	b, err := newBuilder(fileCfg)
	if err != nil {
		return err
	}
	r := b.Evaluate(cfg.Spins, cfg.Hits)
	if err := report.Render(cmd.OutOrStdout(), r, cfg.Table); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "List configured settings and goals",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	b, err := newBuilder(fileCfg)
	if err != nil {
		return err
	}
	m := b.Machine()
	w := cmd.OutOrStdout()

	rows := make([][]string, 0, len(m.Settings))
	for _, s := range m.Settings {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("1/%.2f", s.Denominator),
			fmt.Sprintf("%.4f", s.Prob()),
			fmt.Sprintf("%.3f", m.Prior[s.Name]),
			goalsContaining(m, s.Name),
		})
	}
	lines := stats.FormatTable([]string{"Setting", "Rate", "Prob", "Prior", "Goals"}, rows, map[int]bool{1: true, 2: true, 3: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	for _, g := range []model.Goal{m.Broad, m.Narrow} {
		th := g.Thresholds
		if _, err := fmt.Fprintf(w, "\nGoal %s (%s): high %.2f/%.2f  mid %.2f/%.2f  low %.2f  min %dG  recommended %dG\n",
			g.Label, strings.Join(g.Members, ","), th.HighGoal, th.HighDiff, th.MidGoal, th.MidDiff, th.LowGoal, th.MinSample, th.Recommended()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func goalsContaining(m config.Machine, name string) string {
	var labels []string
	for _, g := range []model.Goal{m.Broad, m.Narrow} {
		for _, member := range g.Members {
			if member == name {
				labels = append(labels, g.Label)
				break
			}
		}
	}
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ",")
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play simulated sessions of a setting and show how the estimate behaves",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	cmd.Flags().StringVar(&simSetting, "setting", defaultSimSetting, "true setting to simulate")
	cmd.Flags().IntVar(&simSpins, "spins", defaultSimSpins, "spins per session")
	cmd.Flags().IntVar(&simStep, "step", defaultSimStep, "spins between plotted checkpoints")
	cmd.Flags().IntVar(&simTrials, "trials", defaultSimTrials, "independent sessions for the summary")
	cmd.Flags().IntVar(&simWorkers, "workers", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().Int64Var(&simSeed, "seed", defaultSimSeed, "random seed")
	cmd.Flags().BoolVar(&simColor, "color", false, "force colored plot output")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "setting", &simSetting, fileCfg.Simulate.Setting)
	applyIntConfig(cmd, "spins", &simSpins, fileCfg.Simulate.Spins)
	applyIntConfig(cmd, "step", &simStep, fileCfg.Simulate.Step)
	applyIntConfig(cmd, "trials", &simTrials, fileCfg.Simulate.Trials)
	applyIntConfig(cmd, "workers", &simWorkers, fileCfg.Simulate.Workers)

	cfg := model.SimConfig{
		Setting: simSetting,
		Spins:   simSpins,
		Step:    simStep,
		Trials:  simTrials,
		Workers: simWorkers,
		Seed:    simSeed,
	}
	if err := validateSimConfig(cfg); err != nil {
		return err
	}
	b, err := newBuilder(fileCfg)
	if err != nil {
		return err
	}

	logErrf("Simulating %d sessions of setting %s...\n", cfg.Trials, cfg.Setting)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := sim.Run(ctx, b, cfg)
	if err != nil {
		return err
	}
	m := b.Machine()
	out := cmd.OutOrStdout()
	if err := sim.Render(out, res, m.Settings, m.Broad.Label, m.Narrow.Label, 0, simColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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
	path := resolveConfigPath()
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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
	m := config.DefaultMachine()
	var b strings.Builder
	b.WriteString(`# settei configuration
# Uncomment a block to override the built-in machine. CLI flags override
# [simulate] values. A [goal.<code>] table must set every threshold except
# recommended-sample.

`)
	for _, s := range m.Settings {
		fmt.Fprintf(&b, "# [[setting]]\n# name = %q\n# denominator = %.2f\n# prior = %.2f\n\n", s.Name, s.Denominator, m.Prior[s.Name])
	}
	for _, g := range []model.Goal{m.Broad, m.Narrow} {
		th := g.Thresholds
		fmt.Fprintf(&b, `# [goal.%s]
# label = %q
# members = [%s]
# high-goal = %.2f
# high-diff = %.2f
# mid-goal = %.2f
# mid-diff = %.2f
# low-goal = %.2f
# min-sample = %d
# recommended-sample = %d

`, g.Code, g.Label, quoteAll(g.Members), th.HighGoal, th.HighDiff, th.MidGoal, th.MidDiff, th.LowGoal, th.MinSample, th.RecommendedSample)
	}
	fmt.Fprintf(&b, `# [stages]
# early = %d             # Commentary switches from early to mid at this spin count
# mid = %d               # and from mid to late here

[simulate]
# setting = %q           # Setting to simulate
# spins = %d           # Spins per session
# step = %d              # Spins between plotted checkpoints
# trials = %d           # Independent sessions for the summary
# workers = 0            # Parallel workers (0 = number of CPUs)
`, m.Stages.Early, m.Stages.Mid, defaultSimSetting, defaultSimSpins, defaultSimStep, defaultSimTrials)
	return b.String()
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	return strings.Join(quoted, ", ")
}

func validateCounts(spins, hits int) error {
	if spins < 0 {
		return fmt.Errorf("--spins must be >= 0")
	}
	if hits < 0 {
		return fmt.Errorf("--hits must be >= 0")
	}
	return nil
}

func validateSimConfig(cfg model.SimConfig) error {
	if cfg.Setting == "" {
		return fmt.Errorf("--setting must not be empty")
	}
	if cfg.Spins <= 0 {
		return fmt.Errorf("--spins must be > 0")
	}
	if cfg.Step < 0 {
		return fmt.Errorf("--step must be >= 0")
	}
	if cfg.Trials <= 0 {
		return fmt.Errorf("--trials must be > 0")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
