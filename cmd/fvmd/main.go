package main

import (
	"fmt"
	"os"

	"fvm/internal/di"
	"fvm/internal/services"
	"fvm/internal/structures"

	"github.com/spf13/cobra"
)

var (
	flags   structures.CliFlags
	rootCmd = &cobra.Command{
		Use:           "fvmd",
		Short:         "Family vending machine server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// withService restores the saved state, runs fn and releases the service.
func withService(fn func(svc services.FamilyServiceInterface) error) error {
	svc, cleanup, err := di.InitService(&flags)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := svc.Restore(); err != nil {
		return err
	}
	return fn(svc)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "./config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Mirror logs to stdout")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := di.InitApp(&flags)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.Run()
		},
	})

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved state to an export file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return withService(func(svc services.FamilyServiceInterface) error {
				return runExport(svc, out, os.Stdout)
			})
		},
	}
	exportCmd.Flags().StringP("out", "o", "", "Output file, \"-\" for stdout (default family-vending-machine_<date>.json)")
	rootCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the saved state with an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc services.FamilyServiceInterface) error {
				return runImport(svc, args[0], os.Stdout)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "share",
		Short: "Print the share link of the saved state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc services.FamilyServiceInterface) error {
				return runShare(svc, os.Stdout)
			})
		},
	})

	decodeCmd := &cobra.Command{
		Use:   "decode <link-or-payload>",
		Short: "Decode a share link, optionally applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apply, _ := cmd.Flags().GetBool("apply")
			return withService(func(svc services.FamilyServiceInterface) error {
				return runDecode(svc, args[0], apply, os.Stdout)
			})
		},
	}
	decodeCmd.Flags().Bool("apply", false, "Replace the saved state with the decoded one")
	rootCmd.AddCommand(decodeCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "storage",
		Short: "Print storage usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc services.FamilyServiceInterface) error {
				return runStorage(svc, os.Stdout)
			})
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
