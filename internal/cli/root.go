// Package cli implements the blocks command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blocks/internal/paths"
	"github.com/mesh-intelligence/blocks/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// userErrors are failures caused by the command's input rather than the
// environment.
var userErrors = []error{
	types.ErrMissingDefinition,
	types.ErrInvalidDefinition,
	types.ErrInvalidFieldType,
	types.ErrMalformedBlock,
	types.ErrValueMismatch,
	types.ErrBlockNotFound,
	types.ErrFieldNotFound,
	types.ErrCollectionNotFound,
	types.ErrInvalidCollection,
	types.ErrBackendUnknown,
	types.ErrStorageModeUnknown,
}

// classify wraps err with the exit code it maps to. Errors that already
// carry a code are returned unchanged.
func classify(err error) error {
	var ee *exitError
	if err == nil || errors.As(err, &ee) {
		return err
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return userError(err)
		}
	}
	return sysError(err)
}

// ExitCode returns the process exit code for an error returned by a command.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// app holds global flag values and per-invocation state shared by all
// subcommands.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool

	logger *slog.Logger
	config types.Config
}

// NewRootCmd creates the top-level "blocks" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "blocks",
		Short: "Repeatable content blocks defined by a compact field language",
		Long: "blocks manages collections of repeatable content blocks. Each collection\n" +
			"has a field definition such as \"Title:text!,Image:mediaSingle\" and an\n" +
			"ordered list of blocks that follow it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newDefineCmd(a),
		newDefinitionCmd(a),
		newGenerateCmd(a),
		newCollectionsCmd(a),
		newDropCmd(a),
		newAddCmd(a),
		newSetCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
		newMoveCmd(a),
		newClearCmd(a),
		newValidateCmd(a),
		newRefsCmd(a),
	)
	return root
}

// setup configures logging and loads config.yaml.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	cfg, err := configFromViper(v)
	if err != nil {
		return sysError(err)
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.dataDir, cfg.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	a.config = cfg
	a.logger.Debug("configuration loaded",
		"config_dir", configDir, "data_dir", cfg.DataDir, "storage_mode", cfg.GetStorageMode())
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "blocks:", err)
		os.Exit(ExitCode(err))
	}
}
