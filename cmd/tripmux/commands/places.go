package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tripmux/tripmux/pkg/search"
)

func placesCmd(c *cli) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "places TERM",
		Short: "Look up airports and cities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.open(ctx, lang)
			if err != nil {
				return err
			}
			defer s.Close()

			places, err := s.Widget.Suggest(ctx, search.FieldOrigin, strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(places) == 0 {
				fmt.Fprintln(out, s.Widget.Prefs.Translate("noResults"))
				return nil
			}
			for _, p := range places {
				fmt.Fprintf(out, "%s\t%s\n", p.Code, p.Label())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language of the place names")
	return cmd
}
