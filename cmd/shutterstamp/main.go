package main

import (
	"fmt"
	"io"
	"os"

	"github.com/On-Jun9/ShutterStamp/internal/config"
	"github.com/On-Jun9/ShutterStamp/internal/pipeline"
	"github.com/spf13/cobra"
)

var appVersion = "0.1.0"

type options struct {
	cfgFile    string
	force      bool
	recursive  bool
	includeExt []string
	verify     bool
	logFile    string
	logJSON    bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "shutterstamp [directory]",
		Short: "Set EXIF capture time from yyyyMMddHHmmss filenames",
		Long: `ShutterStamp scans a directory for JPEG files whose names embed a
timestamp (yyyyMMddHHmmss) and writes it into the EXIF DateTime,
DateTimeOriginal and DateTimeDigitized fields.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStamp(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "force update EXIF even if already exists")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "process subdirectories recursively")
	cmd.Flags().StringSliceVarP(&opts.includeExt, "ext", "e", nil, "JPEG file extensions to include (default jpg,jpeg)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "re-read each written file and check the timestamp fields")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "log file path")
	cmd.Flags().BoolVar(&opts.logJSON, "log-json", false, "output JSON logs")

	return cmd
}

func runStamp(cmd *cobra.Command, args []string, opts *options) error {
	var cfg *config.Config
	var err error

	if opts.cfgFile != "" {
		cfg, err = config.LoadFromFile(opts.cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if len(args) == 1 {
		cfg.Root = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("force") {
		cfg.ForceUpdate = opts.force
	}
	if flags.Changed("recursive") {
		cfg.Recursive = opts.recursive
	}
	if len(opts.includeExt) > 0 {
		cfg.IncludeExtensions = opts.includeExt
	}
	if flags.Changed("verify") {
		cfg.Verify = opts.verify
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = opts.logJSON
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Close()
	p.SetOutput(cmd.OutOrStdout())

	_, err = p.Run()
	return err
}
