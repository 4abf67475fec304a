package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Probe the database and print the playlist",
	Long: `Runs one dry tick: the database is loaded and probed and the resulting
playlist is written to stdout. Nothing is persisted or published.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		comps, err := buildComponents(cfg, logg)
		if err != nil {
			return err
		}

		doc, report := comps.engine.Render(cmd.Context())
		content := doc.Bytes()
		if _, err := cmd.OutOrStdout().Write(content); err != nil {
			return fmt.Errorf("write playlist: %w", err)
		}

		logg.Info("Rendered playlist",
			zap.Int("entries", report.Publish.Entries),
			zap.Int("alive", report.Alive),
			zap.Int("dead", report.Dead),
			zap.Int("probes", report.Probes),
			zap.String("size", humanize.Bytes(uint64(len(content)))),
			zap.Duration("duration", report.Duration),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(renderCmd)
}
