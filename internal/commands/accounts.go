package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog"
)

func newAccountsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts visible to the consented session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccounts(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "bankfeed.yaml", "config file")

	return cmd
}

func runAccounts(ctx context.Context, configPath string) error {
	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return err
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

	for _, acct := range accounts {
		fmt.Printf("%s\t%s\n", acct.AccountID, acct.OwnerName)
	}
	fmt.Printf("%d accounts\n", len(accounts))
	return nil
}
