package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog"

	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/export"
	"github.com/bankfeed-dev/bankfeed/internal/hbank"
	"github.com/bankfeed-dev/bankfeed/internal/runlog"
)

func newExportCommand() *cobra.Command {
	var configPath string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch accounts and transactions and write them to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), configPath, output)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "bankfeed.yaml", "config file")
	cmd.Flags().StringVar(&output, "output", "", "output CSV path (overrides config)")

	return cmd
}

func runExport(ctx context.Context, configPath, output string) error {
	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return err
	}
	if output == "" {
		output = cfg.Export.Output
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	if err := client.Authorize(ctx); err != nil {
		return err
	}
	klog.Infof("Authorized against %s", cfg.API.BaseURL)

	accounts, err := client.GetAccounts(ctx)
	if err != nil {
		return err
	}
	klog.Infof("Fetched %d accounts", len(accounts))

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()

	w, err := export.NewWriter(f)
	if err != nil {
		return err
	}
	totals := export.NewTotals()

	for _, acct := range accounts {
		txns, err := client.GetTransactions(ctx, acct.AccountID)
		if err != nil {
			return err
		}

		if err := w.WriteAccount(acct, txns); err != nil {
			return err
		}
		for _, txn := range txns {
			totals.Add(txn)
		}
		klog.Infof("Account %s: %d transactions", acct.AccountID, len(txns))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", output, err)
	}

	fmt.Printf("Wrote %d rows for %d accounts to %s\n", w.Rows(), len(accounts), output)
	if s := totals.String(); s != "" {
		fmt.Println(s)
	}

	if cfg.Export.LogRuns {
		entry := runlog.Entry{
			Timestamp: time.Now().UTC(),
			Accounts:  len(accounts),
			Rows:      w.Rows(),
			Output:    output,
		}
		if err := runlog.Append(".", entry); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write export log: %v\n", err)
		}
	}

	return nil
}

// loadConfigOrDefault reads the config file, falling back to the
// sandbox defaults when it does not exist.
func loadConfigOrDefault(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// newClient builds an API client from config and environment secrets.
func newClient(cfg *config.Config) (*hbank.Client, error) {
	secrets, err := config.LoadSecrets()
	if err != nil {
		return nil, err
	}

	return hbank.NewClient(hbank.Config{
		ClientID:    secrets.ClientID,
		BaseURL:     cfg.API.BaseURL,
		RedirectURI: cfg.API.RedirectURI,
		Country:     cfg.API.Country,
		Timeout:     time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	}), nil
}
