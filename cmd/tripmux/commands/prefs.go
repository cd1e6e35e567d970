package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripmux/tripmux/pkg/kv"
	"github.com/tripmux/tripmux/pkg/prefs"
)

func prefsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Print the stored terminal preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := kv.Scope(kv.NewFile(c.profile), cliVisitor)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "profile\t%s\n", c.profile)
			for _, key := range []string{prefs.KeyLanguage, prefs.KeyCurrency, prefs.KeyAutoResolved} {
				v, err := stored(cmd.Context(), store, key)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", key, v)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the stored terminal preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := kv.Scope(kv.NewFile(c.profile), cliVisitor)
			for _, key := range []string{prefs.KeyLanguage, prefs.KeyCurrency, prefs.KeyAutoResolved} {
				if err := store.Remove(cmd.Context(), key); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "preferences cleared")
			return nil
		},
	})
	return cmd
}

func stored(ctx context.Context, s kv.Store, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "-", nil
	}
	return v, err
}
