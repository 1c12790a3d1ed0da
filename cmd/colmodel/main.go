package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/colmodel/internal/domain/model"
	"github.com/leengari/colmodel/internal/logging"
	"github.com/leengari/colmodel/internal/storage/manager"
)

// cliConfig gathers the persistent flags
type cliConfig struct {
	basePath string
	logLevel string
	seqURL   string
	format   string
}

var cfg cliConfig

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.basePath, "base", "databases/main", "Database directory holding one subdirectory per table")
	rootCmd.PersistentFlags().StringVar(&cfg.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.seqURL, "seq-url", "", "Seq server URL, e.g. http://localhost:5341")
	rootCmd.PersistentFlags().StringVarP(&cfg.format, "format", "f", "text", "Output format (text, json, yaml)")

	rootCmd.AddCommand(tablesCmd, inspectCmd, childrenCmd, lookupCmd)
}

var rootCmd = &cobra.Command{
	Use:          "colmodel",
	Short:        "Resolve and inspect columnar table column models.",
	SilenceUsage: true,
}

// withRegistry sets up logging, loads the database and hands the populated
// registry to fn
func withRegistry(fn func(reg *manager.Registry) error) error {
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		return err
	}

	logger, closeFn := logging.SetupLogger(logging.Config{
		Level:  level,
		Output: os.Stderr,
		SeqURL: cfg.seqURL,
	})
	defer closeFn()
	slog.SetDefault(logger)

	reg := manager.NewRegistry(logger)
	reg.AddObserver(manager.NewLoggingObserver(logger))

	if _, err := reg.LoadDatabase(context.Background(), cfg.basePath); err != nil {
		// partially loaded databases are still usable
		if reg.Len() == 0 {
			return err
		}
		logger.Warn("some tables failed to resolve", "error", err)
	}

	return fn(reg)
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List resolved tables.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(func(reg *manager.Registry) error {
			for _, name := range reg.List() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <table>",
	Short: "Print a table's dimensions, measures and ordinals.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(func(reg *manager.Registry) error {
			m, err := reg.MustGet(args[0])
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), cfg.format, newModelReport(m))
		})
	},
}

var childrenCmd = &cobra.Command{
	Use:   "children <table> <column>",
	Short: "Print the immediate children of a complex dimension.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(func(reg *manager.Registry) error {
			m, err := reg.MustGet(args[0])
			if err != nil {
				return err
			}
			children, ok := m.Children(args[1])
			if !ok {
				return fmt.Errorf("dimension %s not found in table %s", args[1], args[0])
			}
			return writeReport(cmd.OutOrStdout(), cfg.format, dimensionRows(children))
		})
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <table> <column>",
	Short: "Resolve a column name (case-insensitive) the way the query layer does.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(func(reg *manager.Registry) error {
			m, err := reg.MustGet(args[0])
			if err != nil {
				return err
			}
			if d, ok := m.DimensionByName(args[1]); ok {
				return writeReport(cmd.OutOrStdout(), cfg.format, dimensionRows([]*model.Dimension{d}))
			}
			if d, ok := m.PrimitiveDimensionByName(args[1]); ok {
				return writeReport(cmd.OutOrStdout(), cfg.format, dimensionRows([]*model.Dimension{d}))
			}
			if ms, ok := m.MeasureByName(args[1]); ok {
				return writeReport(cmd.OutOrStdout(), cfg.format, measureRows([]*model.Measure{ms}))
			}
			return fmt.Errorf("column %s not found in table %s", args[1], args[0])
		})
	},
}
