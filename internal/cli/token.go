package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-access-slim/internal/config"
	"github.com/tendant/simple-access-slim/pkg/auth"
)

func tokenCmd() *cobra.Command {
	var (
		tenantID string
		subject  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tenantID == "" {
				return fmt.Errorf("--tenant is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokenService(auth.TokenConfig{
				Secret: []byte(cfg.JWTSecret),
				Issuer: cfg.JWTIssuer,
				TTL:    cfg.AccessTokenTTL,
			})
			if err != nil {
				return err
			}

			token, err := tokens.Issue(subject, tenantID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(token)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "tenant ID carried in the token (required)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "cli", "token subject, recorded as granted_by")
	return cmd
}
