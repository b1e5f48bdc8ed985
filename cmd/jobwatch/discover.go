package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/discovery"
	"go-dealer-jobwatch/internal/loadsheet"
)

func discoverCmd() *cobra.Command {
	var dealersPath, outPath string
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Build a loadsheet from dealer homepages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dealersPath == "" {
				dealersPath = cfg.DealersPath
			}
			if outPath == "" {
				outPath = cfg.LoadsheetPath
			}
			dealers, err := loadsheet.ReadDealers(dealersPath)
			if err != nil {
				return err
			}
			log.Info("🏢 Dealers read", zap.String("path", dealersPath), zap.Int("dealers", len(dealers)))

			page, closePage, err := openPage(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closePage()

			rows, err := discovery.NewResolver(page, cfg.Settle(), log).ResolveAll(cmd.Context(), dealers)
			if err != nil {
				return err
			}
			if err := loadsheet.Write(outPath, rows); err != nil {
				return err
			}
			log.Info("💾 Loadsheet written", zap.String("path", outPath), zap.Int("rows", len(rows)))
			return nil
		},
	}
	cmd.Flags().StringVar(&dealersPath, "dealers", "", "override dealers_path")
	cmd.Flags().StringVar(&outPath, "out", "", "override loadsheet_path")
	return cmd
}
