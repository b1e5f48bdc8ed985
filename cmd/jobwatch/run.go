package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/filter"
	"go-dealer-jobwatch/internal/loadsheet"
	"go-dealer-jobwatch/internal/pipeline"
	"go-dealer-jobwatch/internal/report"
	"go-dealer-jobwatch/internal/telegram"
)

func runCmd() *cobra.Command {
	var loadsheetPath, outputDir string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every loadsheet source once and update lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loadsheetPath != "" {
				cfg.LoadsheetPath = loadsheetPath
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			return runOnce(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&loadsheetPath, "loadsheet", "", "override loadsheet_path")
	cmd.Flags().StringVar(&outputDir, "output", "", "override output_dir")
	return cmd
}

// runOnce performs one full batch pass and writes its artifacts
func runOnce(ctx context.Context) error {
	sources, err := loadsheet.Read(cfg.LoadsheetPath)
	if err != nil {
		return err
	}
	log.Info("📋 Loadsheet read", zap.String("path", cfg.LoadsheetPath), zap.Int("sources", len(sources)))

	blocklist, err := filter.LoadBlocklist(cfg.BlocklistPath)
	if err != nil {
		return err
	}
	log.Info("🚫 Blocklist ready", zap.Int("phrases", blocklist.Len()))

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	page, closePage, err := openPage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePage()

	p := pipeline.New(buildRegistry(cfg, log), filter.NewClassifier(blocklist), store, log,
		pipeline.WithAgedThreshold(cfg.AgedThresholdDays))

	var bot *telegram.Bot
	if cfg.TelegramEnabled() {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn("⚠️ Telegram disabled", zap.Error(err))
			bot = nil
		}
	}

	res, err := p.Run(ctx, page, sources)
	if err != nil {
		if bot != nil {
			_ = bot.SendError(err)
		}
		return err
	}

	if err := report.WriteAll(cfg.OutputDir, res.Postings, res.Rejections, res.Aged); err != nil {
		return errors.Wrap(err, "write reports")
	}
	log.Info("💾 Reports written", zap.String("dir", cfg.OutputDir))

	if bot != nil {
		if err := bot.SendRunReport(res); err != nil {
			log.Warn("⚠️ Telegram report failed", zap.Error(err))
		} else {
			log.Info("📨 Telegram report sent")
		}
	}
	return nil
}
