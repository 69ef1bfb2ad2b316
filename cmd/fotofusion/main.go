package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wjakew/fotofusion-desktop/internal/config"
	"github.com/wjakew/fotofusion-desktop/internal/history"
	"github.com/wjakew/fotofusion-desktop/internal/log"
	"github.com/wjakew/fotofusion-desktop/internal/report"
	"github.com/wjakew/fotofusion-desktop/internal/session"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

var (
	appVersion = "0.1.0"

	cfgFile          string
	source           string
	dest             string
	structure        string
	dateFormat       string
	prefix           string
	preserveOriginal bool
	verifyMode       string
	windowStart      string
	windowEnd        string
	logFile          string
	logJSON          bool
	writeReport      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fotofusion",
	Short: "Organize photos into structured folders by date and camera",
	Long: `FotoFusion scans a source folder for photos, reads capture metadata
(EXIF), and copies files into a destination organized by date, camera,
or lens. Existing destination files are never overwritten.`,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a source folder and print what was found",
	RunE:  runScan,
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Scan the source and copy photos into the destination structure",
	RunE:  runOrganize,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every expected destination file exists and matches",
	RunE:  runVerify,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appVersion)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved organization presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE:  runPresetsList,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a preset by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsDelete,
}

var presetsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export presets to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsExport,
}

var presetsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import presets from a JSON file (duplicates by name are skipped)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsImport,
}

var presetIDs []string

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)
	presetsCmd.AddCommand(presetsExportCmd)
	presetsCmd.AddCommand(presetsImportCmd)

	for _, cmd := range []*cobra.Command{scanCmd, organizeCmd, verifyCmd} {
		cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path")
		cmd.Flags().StringVarP(&source, "source", "s", "", "source directory")
		cmd.Flags().StringVar(&windowStart, "from", "", "only include photos captured on or after this date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&windowEnd, "to", "", "only include photos captured on or before this date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&logFile, "log-file", "", "log file path")
		cmd.Flags().BoolVar(&logJSON, "log-json", false, "output JSON logs")
	}

	for _, cmd := range []*cobra.Command{organizeCmd, verifyCmd} {
		cmd.Flags().StringVarP(&dest, "dest", "d", "", "destination directory")
		cmd.Flags().StringVar(&structure, "structure", "", "folder structure: date, date-flat, camera, lens, date-camera, date-flat-camera, camera-date, camera-date-flat")
		cmd.Flags().StringVar(&dateFormat, "date-format", "", "date rendering, e.g. YYYY/MM/DD or YYYY-MM")
		cmd.Flags().StringVar(&prefix, "prefix", "", "prefix added to the final folder name")
		cmd.Flags().BoolVar(&preserveOriginal, "preserve-names", true, "keep original filenames (false renames by capture time)")
	}

	organizeCmd.Flags().BoolVar(&writeReport, "report", false, "write a markdown report into the destination")
	verifyCmd.Flags().StringVar(&verifyMode, "mode", "", "verification mode: size or size+hash")

	presetsExportCmd.Flags().StringSliceVar(&presetIDs, "id", nil, "preset ids to export (default all)")
}

// buildConfig merges the config file (if any) with command-line overrides.
// Boolean flags override only when set explicitly, so their defaults never
// shadow a value from the config file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if source != "" {
		cfg.Source = source
	}
	if dest != "" {
		cfg.Dest = dest
	}
	if structure != "" {
		cfg.Structure = types.StructurePolicy(structure)
	}
	if dateFormat != "" {
		cfg.DateFormat = types.DateFormat(dateFormat)
	}
	if prefix != "" {
		cfg.Prefix = prefix
	}
	if verifyMode != "" {
		cfg.VerifyMode = types.VerifyMode(verifyMode)
	}
	if windowStart != "" {
		cfg.WindowStart = windowStart
	}
	if windowEnd != "" {
		cfg.WindowEnd = windowEnd
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logJSON {
		cfg.LogJSON = true
	}
	if cmd.Flags().Changed("preserve-names") {
		cfg.PreserveOriginal = preserveOriginal
	}

	return cfg, nil
}

func newSession(cfg *config.Config) (*session.Session, *log.Logger, error) {
	logger, err := log.New(cfg.LogFile, cfg.LogJSON, !cfg.LogJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	sess := session.New(logger)

	window, err := cfg.Window()
	if err != nil {
		logger.Close()
		return nil, nil, err
	}

	sess.SetSettings(session.Settings{
		Structure:  cfg.Structure,
		DateFormat: cfg.DateFormat,
		Prefix:     cfg.Prefix,
		Window:     window,
	})

	return sess, logger, nil
}

func scanSource(sess *session.Session, logger *log.Logger, cfg *config.Config) error {
	fmt.Printf("Scanning %s...\n", cfg.Source)
	items, err := sess.Scan(cfg.Source, func(p types.ScanProgress) {
		logger.Progress(p.Current, p.Total, p.Filename)
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	fmt.Printf("\nFound %d photos in %d folders\n", len(items), sess.Index().FolderCount())
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Source == "" {
		return &config.ValidationError{Field: "source", Message: "source path is required"}
	}

	sess, logger, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := scanSource(sess, logger, cfg); err != nil {
		return err
	}

	stats := report.Compute(sess.IncludedItems())
	fmt.Printf("\nCameras:\n")
	for _, c := range stats.Cameras {
		fmt.Printf("  %s: %d\n", c.Label, c.Count)
	}
	fmt.Printf("Lenses:\n")
	for _, l := range stats.Lenses {
		fmt.Printf("  %s: %d\n", l.Label, l.Count)
	}
	if !stats.EarliestShot.IsZero() {
		fmt.Printf("Date span: %s to %s\n",
			stats.EarliestShot.Format("2006-01-02"),
			stats.LatestShot.Format("2006-01-02"))
	}

	fmt.Printf("\nFolders under %q / %q:\n", cfg.Structure, cfg.DateFormat)
	for _, key := range sess.Index().Keys() {
		fmt.Printf("  %s (%d photos)\n", key, len(sess.Index().Items(key)))
	}
	return nil
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sess, logger, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := scanSource(sess, logger, cfg); err != nil {
		return err
	}

	result, err := sess.Copy(cfg.Dest, cfg.PreserveOriginal, func(p types.CopyProgress) {
		logger.Progress(p.Current, p.Total, p.Filename)
	})
	if err != nil {
		return err
	}

	if writeReport {
		markdown := report.Generate(sess.Items(), sess.Exclusions(), sess.Index(), result, report.Options{
			Structure:   cfg.Structure,
			DateFormat:  cfg.DateFormat,
			Prefix:      cfg.Prefix,
			Destination: cfg.Dest,
		})
		path, err := report.Write(markdown, cfg.Dest)
		if err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", path)
	}

	recordRun(logger, history.Entry{
		Kind:        "copy",
		Source:      cfg.Source,
		Destination: cfg.Dest,
		Structure:   cfg.Structure,
		DateFormat:  cfg.DateFormat,
		Copy:        &result,
	})

	if result.Failed > 0 {
		return fmt.Errorf("%d files failed to copy", result.Failed)
	}
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sess, logger, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := scanSource(sess, logger, cfg); err != nil {
		return err
	}

	result, err := sess.Verify(cfg.Dest, cfg.PreserveOriginal, cfg.VerifyMode, func(p types.VerifyProgress) {
		if p.Phase == types.PhaseVerdict {
			logger.Progress(p.Current, p.Total, p.Filename)
		}
	})
	if err != nil {
		return err
	}

	recordRun(logger, history.Entry{
		Kind:         "verify",
		Source:       cfg.Source,
		Destination:  cfg.Dest,
		Verification: &result,
	})

	if result.Failed > 0 {
		return fmt.Errorf("%d files failed verification", result.Failed)
	}
	return nil
}

// recordRun appends to the run history; a failure here only warns.
func recordRun(logger *log.Logger, e history.Entry) {
	path, err := history.DefaultPath()
	if err != nil {
		logger.Error("failed to locate history file", err)
		return
	}
	store, err := history.Load(path)
	if err != nil {
		logger.Error("failed to load run history", err)
		return
	}
	if err := store.Append(e); err != nil {
		logger.Error("failed to record run history", err)
	}
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	ps, err := config.NewPresetStore()
	if err != nil {
		return err
	}
	presets, err := ps.List()
	if err != nil {
		return err
	}

	if len(presets) == 0 {
		fmt.Println("No presets saved.")
		return nil
	}
	for _, p := range presets {
		parts := []string{string(p.Structure), string(p.DateFormat)}
		if p.Prefix != "" {
			parts = append(parts, "prefix="+p.Prefix)
		}
		fmt.Printf("%s  %s  (%s)\n", p.ID, p.Name, strings.Join(parts, ", "))
	}
	return nil
}

func runPresetsDelete(cmd *cobra.Command, args []string) error {
	ps, err := config.NewPresetStore()
	if err != nil {
		return err
	}
	found, err := ps.Delete(args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("preset not found: %s", args[0])
	}
	fmt.Println("Deleted.")
	return nil
}

func runPresetsExport(cmd *cobra.Command, args []string) error {
	ps, err := config.NewPresetStore()
	if err != nil {
		return err
	}
	if err := ps.Export(presetIDs, args[0]); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", args[0])
	return nil
}

func runPresetsImport(cmd *cobra.Command, args []string) error {
	ps, err := config.NewPresetStore()
	if err != nil {
		return err
	}
	result, err := ps.Import(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d of %d presets (%d skipped as duplicates)\n",
		result.Imported, result.Total, result.Skipped)
	return nil
}
