package cmd

import (
	"m3u-guardian/core/clock"
	"m3u-guardian/feature/catalog"
	"m3u-guardian/feature/probe"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Merge the Xtream catalog into the stream database",
	Long: `Fetches the live streams of the configured Xtream panel, probes them and
adds the healthy ones to the stream database. Existing entries are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if err := cfg.Catalog.Validate(); err != nil {
			return err
		}

		svc := catalog.NewService(
			catalog.NewClient(cfg.Catalog, nil),
			probe.NewHTTPProber(cfg.Probe, nil, logg),
			clock.Real(),
			cfg.Probe.Concurrency,
			logg,
		)
		report, err := svc.Ingest(cmd.Context(), cfg.Paths.Database)
		if err != nil {
			return err
		}

		logg.Info("Ingest finished",
			zap.Int("streams", report.Streams),
			zap.Int("healthy", report.Healthy),
			zap.Int("added", report.Added),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ingestCmd)
}
