package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/subham12r/portfolio/pkg/jwtx"
)

func newTokenCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Admin token operations",
	}
	cmd.AddCommand(newTokenMintCommand(opts))
	return cmd
}

func newTokenMintCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint an admin JWT signed with the shared secret",
		Long: `Mint an admin JWT carrying the portfolio:admin scope.

The secret must match ADMIN_JWT_SECRET on the server and be at least 32 bytes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := opts.v.GetString("secret")
			if secret == "" {
				return errors.New("--secret (or PORTFOLIOCTL_SECRET) is required")
			}

			ttl := opts.v.GetDuration("ttl")
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive, got %s", ttl)
			}

			signer, err := jwtx.NewHS256([]byte(secret), opts.v.GetString("issuer"))
			if err != nil {
				return err
			}

			claims := jwtx.NewClaims(
				opts.v.GetString("subject"),
				opts.v.GetString("issuer"),
				[]string{jwtx.ScopeAdmin},
				ttl,
				time.Now(),
			)
			token, err := signer.Sign(claims)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().String("secret", "", "shared HS256 secret (ADMIN_JWT_SECRET on the server)")
	cmd.Flags().String("issuer", "portfolio", "issuer claim, must match ADMIN_JWT_ISSUER")
	cmd.Flags().Duration("ttl", jwtx.DefaultAdminTokenTTL, "token lifetime")
	cmd.Flags().String("subject", "owner", "subject claim")

	for _, name := range []string{"secret", "issuer", "ttl", "subject"} {
		_ = opts.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return cmd
}
