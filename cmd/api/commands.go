// AngelaMos | 2026
// commands.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxis-app/praxis-api/internal/auth"
	"github.com/praxis-app/praxis-api/internal/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "praxis-api",
		Short:         "Praxis habit and social action API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	var privateKey, publicKey string
	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair used to sign access tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if privateKey == "" || publicKey == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				privateKey = cfg.JWT.PrivateKeyPath
				publicKey = cfg.JWT.PublicKeyPath
			}

			if err := auth.WriteKeyPair(privateKey, publicKey); err != nil {
				return fmt.Errorf("generate key pair: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privateKey, publicKey)
			return nil
		},
	}
	keygenCmd.Flags().StringVar(&privateKey, "private", "", "private key output path")
	keygenCmd.Flags().StringVar(&publicKey, "public", "", "public key output path")

	root.AddCommand(serveCmd, keygenCmd)
	root.RunE = serveCmd.RunE

	return root
}
