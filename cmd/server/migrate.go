package main

import (
	"github.com/spf13/cobra"

	"github.com/d60-Lab/chirp/pkg/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, tweets, follows and likes tables",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.close()
			logger.Info("schema migrated")
			return nil
		},
	}
}
