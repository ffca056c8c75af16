package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	v1 "github.com/vmunix/streamiz/internal/api/v1"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token for write commands",
	Long: `Sign an HS256 bearer token with the server's auth.jwt_secret.

Pass the result with --token or STREAMIZ_TOKEN:
  export STREAMIZ_TOKEN=$(streamiz token --secret "$STREAMIZ_JWT_SECRET")`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		subject, _ := cmd.Flags().GetString("subject")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if secret == "" {
			return errors.New("--secret or STREAMIZ_JWT_SECRET is required")
		}
		tok, err := v1.SignToken(secret, subject, role, ttl)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("secret", os.Getenv("STREAMIZ_JWT_SECRET"), "Signing secret")
	tokenCmd.Flags().String("subject", "streamiz-cli", "Token subject")
	tokenCmd.Flags().String("role", v1.RoleAdmin, "Token role")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (0 = no expiry)")
	rootCmd.AddCommand(tokenCmd)
}
