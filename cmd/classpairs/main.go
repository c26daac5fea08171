package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/zby/classpairs/pkg/analyzer"
	"github.com/zby/classpairs/pkg/config"
	"github.com/zby/classpairs/pkg/output"
	"github.com/zby/classpairs/pkg/progress"
	"github.com/zby/classpairs/pkg/report"
	"github.com/zby/classpairs/pkg/scanner"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getRoot returns the scan root from positional args, defaulting to "."
func getRoot(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

func main() {
	scan := scanCmd()
	app := &cli.App{
		Name:    "classpairs",
		Usage:   "Extract class inheritance pair reports from source trees",
		Version: version,
		Description: `Classpairs parses a source tree, builds the class inheritance graph,
and writes one report per ancestor/descendant source-unit pair.

Supports: Python, Ruby, TypeScript, JavaScript`,
		Flags:     scan.Flags,
		ArgsUsage: "[path]",
		Action:    scan.Action,
		Commands: []*cli.Command{
			scan,
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Scan a directory and write class pair reports",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"CLASSPAIRS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory to write report files into",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Summary format: text, json, markdown",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parallel parser workers (0 = auto)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: runScanCmd,
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

func runScanCmd(c *cli.Context) error {
	root := getRoot(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if dir := c.String("output-dir"); dir != "" {
		cfg.Output.Dir = dir
	}
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Analysis.Workers = workers
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}

	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), "", cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", root, err)
	}

	// Unit paths in the summary are shown relative to the scanned directory.
	displayRoot := absRoot
	if !info.IsDir() {
		displayRoot = filepath.Dir(absRoot)
	}

	scan := scanner.NewScanner(cfg)
	var files []string
	if info.IsDir() {
		files, err = scan.ScanDir(absRoot)
		if err != nil {
			return fmt.Errorf("failed to scan directory %s: %w", root, err)
		}
	} else {
		ok, err := scan.ScanFile(absRoot)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", root, err)
		}
		if !ok {
			return fmt.Errorf("unsupported or excluded file: %s", root)
		}
		files = []string{absRoot}
	}

	files, skippedBySize := scanner.FilterBySize(files, cfg.Analysis.MaxFileSize)
	if skippedBySize > 0 && cfg.Output.Verbose {
		formatter.Info("Skipped %d file(s) over size limit", skippedBySize)
	}

	if len(files) == 0 {
		formatter.Warning("No source files found in %s", root)
		return nil
	}

	ia := analyzer.NewInheritanceAnalyzer(analyzer.WithWorkers(cfg.Analysis.Workers))
	tracker := progress.NewTracker("Parsing source units...", len(files))
	result, err := ia.AnalyzeProjectWithProgress(files, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()

	// Units that failed to parse are reported and skipped; the run still
	// succeeds.
	var skipped []string
	for _, ue := range result.Errors {
		skipped = append(skipped, ue.Unit)
		if cfg.Output.Verbose && formatter.Format() == output.FormatText {
			formatter.Warning("skipping %s: %v", ue.Unit, ue.Err)
		}
	}
	sort.Strings(skipped)

	g := result.Graph
	pairs := g.AllPairs()
	groups := report.GroupPairs(pairs, g)

	writer, err := report.NewWriter(cfg.Output.Dir)
	if err != nil {
		return err
	}

	languages := make(map[string]int)
	for lang, unitFiles := range scan.GroupByLanguage(files) {
		languages[string(lang)] = len(unitFiles)
	}

	summary := &output.Summary{
		Root:         root,
		OutputDir:    cfg.Output.Dir,
		Units:        len(files),
		Languages:    languages,
		Declarations: g.Len(),
		Pairs:        len(pairs),
		SkippedUnits: skipped,
		Cycles:       g.Cycles(),
	}

	for _, grp := range groups {
		plan := report.PlanGroup(grp, g)
		name, renamed, err := writer.Write(plan)
		if err != nil {
			return fmt.Errorf("failed to write report for %s, %s: %w", grp.AncestorUnit, grp.DescendantUnit, err)
		}
		summary.Reports = append(summary.Reports, output.ReportEntry{
			File:           name,
			AncestorUnit:   relToRoot(displayRoot, grp.AncestorUnit),
			DescendantUnit: relToRoot(displayRoot, grp.DescendantUnit),
			Pairs:          len(grp.Pairs),
			Renamed:        renamed,
		})
	}

	return formatter.Output(summary)
}

// relToRoot shortens a unit path for display; report contents keep the
// full path.
func relToRoot(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !filepath.IsAbs(rel) {
		return rel
	}
	return path
}
