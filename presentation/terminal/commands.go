package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dialysis_autofill/domain/entities"
	"dialysis_autofill/infrastructure/browser"
	"dialysis_autofill/infrastructure/config"
	"dialysis_autofill/infrastructure/storage"
)

// ErrRunFailed is returned when the workflow reports failure
var ErrRunFailed = errors.New("autofill run failed")

// RootCmd - the dialysis-autofill command tree
func RootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "dialysis-autofill",
		Short: "Fill haemodialysis treatment records in the Origin EMR",
		Long: `dialysis-autofill logs into the Origin hospital portal, opens a patient's
haemodialysis treatment record for the current period and types in the
values from a JSON record file.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	logger := func() *logrus.Logger { return newLogger(verbose) }

	rootCmd.AddCommand(runCmd(logger))
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(installCmd())

	return rootCmd
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

func runCmd(logger func() *logrus.Logger) *cobra.Command {
	var (
		recordPath string
		patientID  string
		username   string
		configPath string
		headless   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill one treatment record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headless") {
				cfg.Headless = headless
			}

			record, err := storage.LoadRecord(recordPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ti := NewTerminalInterface(logger(), os.Stdin, cmd.OutOrStdout())
			ok, err := ti.RunAutofill(ctx, RunRequest{
				Config:    cfg,
				Record:    record,
				PatientID: patientID,
				Username:  username,
			}, nil)
			if err != nil {
				return err
			}
			if !ok {
				return ErrRunFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recordPath, "record", "", "record JSON file")
	cmd.Flags().StringVar(&patientID, "mrn", "", "patient MRN")
	cmd.Flags().StringVar(&username, "username", "", "portal username (prompted when empty)")
	cmd.Flags().StringVar(&configPath, "config", "config.json", "config file")
	cmd.Flags().BoolVar(&headless, "headless", false, "run the browser without a window")
	cmd.MarkFlagRequired("record")
	cmd.MarkFlagRequired("mrn")

	return cmd
}

func historyCmd() *cobra.Command {
	var (
		limit      int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			journal, err := storage.OpenJournal(cfg.JournalPath)
			if err != nil {
				return err
			}
			defer journal.Close()

			runs, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			printHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	cmd.Flags().StringVar(&configPath, "config", "config.json", "config file")

	return cmd
}

func printHistory(out io.Writer, runs []entities.RunSummary) {
	p := NewProgressPrinter(out)
	if len(runs) == 0 {
		p.Printf("No runs recorded\n")
		return
	}

	for _, run := range runs {
		p.Printf("%s  %s  mrn=%s  user=%s  %s  (%s)\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			shortRunID(run.ID),
			run.PatientID,
			run.Operator,
			p.Result(run.Success),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
		)
		for _, stage := range run.Stages {
			if stage.Status == entities.StageSuccess {
				continue
			}
			p.Printf("    %d. %s %s: %s\n", stage.Index, stage.Name, p.Status(stage.Status), stage.Message)
			if stage.Artifact != "" {
				p.Printf("       screenshot: %s\n", stage.Artifact)
			}
		}
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func validateCmd() *cobra.Command {
	var recordPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a record file without opening the portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := storage.LoadRecord(recordPath)
			if err != nil {
				return err
			}
			printValidation(cmd.OutOrStdout(), record)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordPath, "record", "", "record JSON file")
	cmd.MarkFlagRequired("record")

	return cmd
}

func printValidation(out io.Writer, record entities.RecordData) {
	p := NewProgressPrinter(out)

	basic := record.BasicEntries()
	hourly := 0
	for _, row := range record.Hourly {
		hourly += len(row.Entries())
	}
	p.Printf("%d basic fields, %d hourly rows (%d cells) will be filled\n", len(basic), len(record.Hourly), hourly)

	var empty []string
	for _, key := range entities.BasicFields {
		if value, ok := record.Basic[key]; ok && value == "" {
			empty = append(empty, key)
		}
	}
	for _, key := range empty {
		p.Warnf("  empty, skipped: %s\n", key)
	}

	for _, key := range record.UnknownKeys() {
		p.Warnf("  unknown key, ignored: %s\n", key)
	}

	for _, entry := range basic {
		if entities.SelectFields[entry.Key] && entry.Value != "Yes" && entry.Value != "No" {
			p.Warnf("  %s=%q is usually Yes or No\n", entry.Key, entry.Value)
		}
	}
}

func installCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download the browser driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := browser.Install(); err != nil {
				return fmt.Errorf("failed to install browser driver: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Browser driver installed")
			return nil
		},
	}
}
