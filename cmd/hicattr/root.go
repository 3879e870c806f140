package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hicattr/internal/config"
	"github.com/joshuapare/hicattr/internal/edit"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/logger"
	"github.com/joshuapare/hicattr/pkg/hic"
)

var (
	// Global flags
	verbose       bool
	quiet         bool
	jsonOut       bool
	configPath    string
	debug         bool
	logFile       string
	bufferSize    int
	twoPass       bool
	syncOut       bool
	verifyOut     bool
	valueEncoding string

	closeLog = func() error { return nil }
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hicattr",
		Short: "Edit the attribute block of .hic contact-matrix files",
		Long: `hicattr rewrites the header attributes of a .hic file (Juicer format)
into a new file. The body is streamed through unchanged and every absolute
offset that points past the attribute block is shifted by the size change:
the footer position, the normalization-vector index position, and every
master index and normalization-vector index entry.

Values prefixed with @ are read from the named file; @@ escapes a literal @.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging()
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.StringVar(&configPath, "config", "", "TOML file with copy settings and [[edit]] tables")
	pf.BoolVar(&debug, "debug", false, "Log debug detail to stderr")
	pf.StringVar(&logFile, "log-file", "", "Append JSON logs to this file")
	pf.IntVar(&bufferSize, "buffer-size", format.DefaultCopyBufferSize, "Copy buffer size in bytes")
	pf.BoolVar(&twoPass, "two-pass", false, "Write first, then reopen and patch offsets in place")
	pf.BoolVar(&syncOut, "sync", false, "Flush output to stable storage before renaming")
	pf.BoolVar(&verifyOut, "verify", false, "Re-read input and output and compare after writing")
	pf.StringVar(&valueEncoding, "value-encoding", string(edit.EncodingRaw), "Encoding of @file values (raw, latin1, windows1252)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &format.InvalidArgumentError{Arg: "flags", Message: err.Error()}
	})

	root.AddCommand(
		newEditCmd(),
		newAppendCmd(),
		newInsertCmd(),
		newReplaceCmd(),
		newReorderCmd(),
		newInfoCmd(),
		newVerifyCmd(),
		newVersionCmd(),
	)
	return root
}

// execute runs the command line and returns the process exit code.
func execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		logger.Error("command failed", "args", args, "exit", exitCode(err), "error", err)
	}
	if cerr := closeLog(); cerr != nil && err == nil {
		err = cerr
	}
	closeLog = func() error { return nil }
	if err != nil {
		printError("%v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func initLogging() error {
	if !debug && logFile == "" {
		return nil
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	closer, err := logger.Init(logger.Options{Enabled: true, File: logFile, Level: level})
	if err != nil {
		return &format.FileOpenError{Path: logFile, Op: "open log", Cause: err}
	}
	closeLog = closer
	return nil
}

// settings is the merged view of the config file and command-line flags.
type settings struct {
	cfg    *config.Config
	opts   hic.EditOptions
	source edit.Source
}

// loadSettings reads --config, then lets explicitly set flags override it.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("buffer-size") {
		if bufferSize <= 0 {
			return nil, &format.InvalidArgumentError{Arg: "--buffer-size", Message: "must be positive"}
		}
		cfg.Copy.BufferSize = bufferSize
	}
	if flags.Changed("two-pass") {
		cfg.Copy.TwoPass = twoPass
	}
	if flags.Changed("sync") {
		cfg.Copy.Sync = syncOut
	}
	if flags.Changed("verify") {
		cfg.Copy.Verify = verifyOut
	}
	if flags.Changed("value-encoding") {
		cfg.Values.Encoding = valueEncoding
	}

	src, err := cfg.Source()
	if err != nil {
		return nil, err
	}
	return &settings{
		cfg:    cfg,
		source: src,
		opts: hic.EditOptions{
			BufferSize: cfg.Copy.BufferSize,
			TwoPass:    cfg.Copy.TwoPass,
			Sync:       cfg.Copy.Sync,
			Verify:     cfg.Copy.Verify,
		},
	}, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// usageArgs wraps a cobra argument check so count errors map to the
// invalid-argument exit code.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &format.InvalidArgumentError{Message: fmt.Sprintf("%v\nUsage: %s", err, cmd.UseLine())}
		}
		return nil
	}
}
