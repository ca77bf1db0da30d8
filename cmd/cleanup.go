package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cleanupPrefix string

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove every file under a prefix",
	Long:  `Deletes all objects under the given prefix in one bulk operation. Intended for workspace teardown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cleanupPrefix == "" {
			return fmt.Errorf("--prefix is required")
		}

		svc, logg, err := newFilesService()
		if err != nil {
			return err
		}

		logg.Info("Cleaning up prefix", zap.String("prefix", cleanupPrefix))

		removed, err := svc.Cleanup(cmd.Context(), cleanupPrefix)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d file(s) under %q\n", removed, cleanupPrefix)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().StringVar(&cleanupPrefix, "prefix", "", "Key prefix to remove (required)")
}
