package cli

import (
	"fmt"

	"github.com/phone-token-service/internal/config"
	"github.com/phone-token-service/internal/domain"
	jwtinfra "github.com/phone-token-service/internal/infrastructure/jwt"
	"github.com/spf13/cobra"
)

func newJWTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt <subject>",
		Short: "Mint a bearer token for a calling service",
		Long: `jwt signs a token with JWT_PRIVATE_KEY_PATH. The subject names the
calling service; --role admin grants access to reverse lookups.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			if role != domain.RoleService && role != domain.RoleAdmin {
				return fmt.Errorf("unknown role %q", role)
			}
			p, err := jwtinfra.NewProvider(config.Load())
			if err != nil {
				return err
			}
			tok, err := p.Sign(args[0], role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("role", domain.RoleService, "Role claim: service or admin")
	return cmd
}
