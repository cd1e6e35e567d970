package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

// cliVisitor owns the terminal profile.
const cliVisitor = "cli"

type cli struct {
	apiBase string
	profile string
	cfg     Config
	out     io.Writer
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRoot(os.Stdout).ExecuteContext(ctx)
}

func newRoot(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:          "tripmux",
		Short:        "Cheapest-fare search widget",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.apiBase)
			if err != nil {
				return err
			}
			c.cfg = cfg

			if c.profile == "" {
				dir, err := os.UserConfigDir()
				if err != nil {
					return err
				}
				c.profile = filepath.Join(dir, "tripmux", "profile.json")
			}
			return nil
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.apiBase, "api-base", "", "fare API base URL (default from API_BASE_URL)")
	root.PersistentFlags().StringVar(&c.profile, "profile", "", "terminal preferences file (default <config dir>/tripmux/profile.json)")

	root.AddCommand(serveCmd(c), migrateCmd(c), searchCmd(c), placesCmd(c), prefsCmd(c))
	return root
}
