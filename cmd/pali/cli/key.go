package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "key",
		Aliases: []string{"apikey"},
		Short:   "Manage API keys",
		Long:    "Create, list, revoke and purge API keys directly against the store.",
	}

	cmd.AddCommand(newKeyCreateCmd())
	cmd.AddCommand(newKeyListCmd())
	cmd.AddCommand(newKeyRevokeCmd())
	cmd.AddCommand(newKeyPurgeCmd())

	return cmd
}

// ---------- key create ----------

func newKeyCreateCmd() *cobra.Command {
	var (
		role  string
		label string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new API key",
		Long:  "Generate a new API key. The raw key is shown once and cannot be retrieved again.",
		Example: `  pali key create --label "laptop" --role client
  pali key create --label "ops" --role admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := domain.ParseRole(role)
			if !ok {
				return fmt.Errorf("invalid --role %q: must be admin or client", role)
			}

			op, err := openOperator(cmd)
			if err != nil {
				return err
			}
			defer op.Close()

			key, err := op.lifecycle.Issue(op.ctx, domain.OperatorIdentity(), label, parsed)
			if err != nil {
				return fmt.Errorf("create key: %w", err)
			}
			printIssuedKey(cmd.OutOrStdout(), "API key created", key)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", palisdk.KeyTypeClient, "Key role (admin or client)")
	cmd.Flags().StringVar(&label, "label", "", "Human-readable label for the key (required)")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

// ---------- key list ----------

func newKeyListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all API keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := openOperator(cmd)
			if err != nil {
				return err
			}
			defer op.Close()

			creds, err := op.lifecycle.List(op.ctx, domain.OperatorIdentity())
			if err != nil {
				return fmt.Errorf("list keys: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				rows := make([]palisdk.KeyInfo, len(creds))
				for i, c := range creds {
					rows[i] = palisdk.KeyInfo{
						ID:         c.ID,
						ClientName: c.OwnerLabel,
						KeyType:    c.Role.String(),
						CreatedAt:  c.CreatedAt.Unix(),
						Active:     c.Active,
						Protected:  c.Protected,
					}
					if c.LastUsedAt != nil {
						ts := c.LastUsedAt.Unix()
						rows[i].LastUsed = &ts
					}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			if len(creds) == 0 {
				fmt.Fprintln(out, "No API keys. Use 'pali initialize' to create the first admin key.")
				return nil
			}

			fmt.Fprintf(out, "%-26s %-8s %-24s %-8s %-20s\n", "ID", "ROLE", "LABEL", "ACTIVE", "LAST USED")
			fmt.Fprintf(out, "%-26s %-8s %-24s %-8s %-20s\n", "--", "----", "-----", "------", "---------")
			for _, c := range creds {
				active := "yes"
				if !c.Active {
					active = "no"
				}
				lastUsed := "never"
				if c.LastUsedAt != nil {
					lastUsed = c.LastUsedAt.Local().Format(time.DateTime)
				}
				fmt.Fprintf(out, "%-26s %-8s %-24s %-8s %-20s\n", c.ID, c.Role, c.OwnerLabel, active, lastUsed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// ---------- key revoke ----------

func newKeyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Long:  "Deactivate an API key. The record is kept for auditing; revoking twice is harmless.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := openOperator(cmd)
			if err != nil {
				return err
			}
			defer op.Close()

			outcome, err := op.lifecycle.Revoke(op.ctx, domain.OperatorIdentity(), args[0])
			if err != nil {
				return fmt.Errorf("revoke key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], outcome)
			return nil
		},
	}
}

// ---------- key purge ----------

func newKeyPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <id>",
		Short: "Permanently delete an API key",
		Long:  "Delete an API key record. Protected admin keys can be revoked but never purged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := openOperator(cmd)
			if err != nil {
				return err
			}
			defer op.Close()

			if err := op.lifecycle.Purge(op.ctx, domain.OperatorIdentity(), args[0]); err != nil {
				return fmt.Errorf("purge key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: purged\n", args[0])
			return nil
		},
	}
}
