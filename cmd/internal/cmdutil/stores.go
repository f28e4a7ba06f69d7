package cmdutil

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/supatools/supamove/store"
	"golang.org/x/sync/errgroup"
)

// Endpoint/key flags fall back to environment variables so scripted
// runs can keep credentials out of the command line. The SUPABASE_*
// names match what existing Supabase tooling exports.
var storeEnvs = map[string][]string{
	"source-url": {"SUPAMOVE_SOURCE_URL", "SUPABASE_CLOUD_URL"},
	"source-key": {"SUPAMOVE_SOURCE_KEY", "SUPABASE_CLOUD_KEY"},
	"target-url": {"SUPAMOVE_TARGET_URL", "SUPABASE_LOCAL_URL"},
	"target-key": {"SUPAMOVE_TARGET_KEY", "SUPABASE_LOCAL_KEY"},
}

func RegisterStoreFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		"source-url",
		"",
		"URL of the source project (https REST endpoint or postgres connection string)",
	)
	cmd.PersistentFlags().String(
		"source-key",
		"",
		"service role key of the source project (REST only)",
	)
	cmd.PersistentFlags().String(
		"target-url",
		"http://localhost:54321",
		"URL of the target project (https REST endpoint or postgres connection string)",
	)
	cmd.PersistentFlags().String(
		"target-key",
		"",
		"service role key of the target project (REST only)",
	)
	for flag, envs := range storeEnvs {
		if err := viper.BindPFlag(flag, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
		if err := viper.BindEnv(append([]string{flag}, envs...)...); err != nil {
			panic(err)
		}
	}
}

// LoadStores connects the source and target in parallel. Everything
// after connection setup is strictly sequential.
func LoadStores(ctx context.Context) (store.OrderedStores, error) {
	var stores store.OrderedStores
	g, gctx := errgroup.WithContext(ctx)
	for i, cfg := range []struct {
		id       store.ID
		url, key string
	}{
		{id: "source", url: viper.GetString("source-url"), key: viper.GetString("source-key")},
		{id: "target", url: viper.GetString("target-url"), key: viper.GetString("target-key")},
	} {
		i, cfg := i, cfg
		g.Go(func() error {
			st, err := store.Connect(gctx, cfg.id, cfg.url, cfg.key)
			if err != nil {
				return err
			}
			stores[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, st := range stores {
			if st != nil {
				_ = st.Close(ctx)
			}
		}
		return store.OrderedStores{}, err
	}
	return stores, nil
}
