package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pali/internal/pali/service"
)

func newInitializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initialize",
		Short: "Mint the first admin API key",
		Long:  "Mint the first admin API key. Fails once any admin key has ever been issued.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := openOperator(cmd)
			if err != nil {
				return err
			}
			defer op.Close()

			key, err := op.lifecycle.Bootstrap(op.ctx)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			printIssuedKey(cmd.OutOrStdout(), "Server initialized", key)
			return nil
		},
	}
}

func newReinitializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reinitialize",
		Short: "Revoke every admin key and mint a replacement",
		Long: `Emergency recovery for a lost or leaked admin key. Every admin key is revoked
and a single new admin key is minted in one transaction. Client keys keep working.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := openOperator(cmd)
			if err != nil {
				return err
			}
			defer op.Close()

			key, err := op.lifecycle.Reinitialize(op.ctx)
			if err != nil {
				return fmt.Errorf("reinitialize: %w", err)
			}
			printIssuedKey(cmd.OutOrStdout(), "Admin keys reinitialized", key)
			return nil
		},
	}
}

func printIssuedKey(w io.Writer, title string, key service.IssuedKey) {
	fmt.Fprintf(w, "%s:\n\n", title)
	fmt.Fprintf(w, "  ID:    %s\n", key.Credential.ID)
	fmt.Fprintf(w, "  Key:   %s\n", key.Secret)
	fmt.Fprintf(w, "  Role:  %s\n", key.Credential.Role)
	fmt.Fprintf(w, "  Label: %s\n\n", key.Credential.OwnerLabel)
	fmt.Fprintln(w, "  Save this key now - it cannot be retrieved again.")
}
