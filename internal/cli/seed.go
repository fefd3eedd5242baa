package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"launchdeck/internal/modkit/module"
	"launchdeck/internal/services/api"
	"launchdeck/internal/services/api/launches/domain"

	launchesmod "launchdeck/internal/services/api/launches/module"

	"github.com/spf13/cobra"
)

func newSeedCommand(opts *RootOptions) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "seed <fixtures.json>",
		Short: "Load launch fixtures, skipping flight numbers already stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readFixtures(args[0])
			if err != nil {
				return err
			}
			n, err := seed(cmd.Context(), opts, by, in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d of %d launches\n", n, len(in))
			return err
		},
	}
	cmd.Flags().StringVar(&by, "by", "seed", "subject recorded as created_by")
	return cmd
}

// readFixtures accepts a JSON array of launch inputs
func readFixtures(path string) ([]domain.CreateInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in []domain.CreateInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

func seed(ctx context.Context, opts *RootOptions, by string, in []domain.CreateInput) (int, error) {
	st, cfg, err := api.OpenStore(ctx, opts.Conf, true)
	if err != nil {
		return 0, err
	}
	defer func() { _ = st.Close(context.Background()) }()

	// no cache and no keyring: the seeder never goes through HTTP
	deps := api.NewDeps(opts.Conf, st, cfg, nil, api.CacheConfig(opts.Conf), nil)
	m := launchesmod.New(deps)
	return module.MustPortsOf[launchesmod.Ports](m).Seeder.Seed(ctx, by, in)
}
