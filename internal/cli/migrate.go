package cli

import (
	"context"
	"fmt"

	"launchdeck/internal/services/api"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the launches schema to the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, cfg, err := api.OpenStore(cmd.Context(), opts.Conf, true)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema applied (%s)\n", cfg.Driver)
			return err
		},
	}
}
