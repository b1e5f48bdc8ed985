package main

import (
	"context"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/browser"
	"go-dealer-jobwatch/internal/config"
	"go-dealer-jobwatch/internal/database"
	"go-dealer-jobwatch/internal/lifecycle"
	"go-dealer-jobwatch/internal/scraper"
	"go-dealer-jobwatch/internal/scraper/ats"
	"go-dealer-jobwatch/internal/scraper/heuristic"
	"go-dealer-jobwatch/internal/scraper/indeed"
	"go-dealer-jobwatch/internal/scraper/static"
)

func buildRegistry(cfg *config.Config, log *zap.Logger) *scraper.Registry {
	wait, settle := cfg.WaitTimeout(), cfg.Settle()
	reg := scraper.NewRegistry()
	reg.Register(indeed.NewIndeedScraper(wait, settle, log), scraper.SourceIndeed)
	reg.Register(ats.NewATSScraper(ats.Lever, wait, settle, log), scraper.SourceLever)
	reg.Register(ats.NewATSScraper(ats.Greenhouse, wait, settle, log), scraper.SourceGreenhouse)
	reg.Register(ats.NewATSScraper(ats.BambooHR, wait, settle, log), scraper.SourceBambooHR)
	reg.Register(static.NewStaticScraper(wait, settle, log), scraper.SourceStatic)
	reg.Register(heuristic.NewHeuristicScraper(heuristic.Options{
		ScopeBySignal: *cfg.ScopeBySignal,
		MineJSON:      *cfg.MineJSON,
	}, settle, log), scraper.SourceHeuristic)
	return reg
}

// openStore prefers Postgres when DATABASE_URL is set, else the CSV state file
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (lifecycle.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("🗂 Using CSV lifecycle state", zap.String("path", cfg.StatePath))
		return lifecycle.NewCSVStore(cfg.StatePath), func() {}, nil
	}
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, nil, err
	}
	log.Info("🐘 Using Postgres lifecycle state")
	return repo, repo.Close, nil
}

// openPage launches chromium and returns a single shared page
func openPage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*browser.PlaywrightPage, func(), error) {
	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		var err error
		cookies, err = browser.LoadCookies(cfg.CookiesPath)
		if err != nil {
			log.Warn("⚠️ Could not load cookies, continuing without", zap.Error(err))
		}
	}

	pm, err := browser.NewPlaywright(ctx, *cfg.Headless)
	if err != nil {
		return nil, nil, err
	}
	bctx, err := pm.NewContext(cookies)
	if err != nil {
		_ = pm.Close()
		return nil, nil, err
	}
	pwPage, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = pm.Close()
		return nil, nil, err
	}

	page := browser.NewPlaywrightPage(pwPage, cfg.NavTimeout(), browser.NewScreenshotDebugger(cfg.ScreenshotDir, log), log)
	cleanup := func() {
		_ = bctx.Close()
		if err := pm.Close(); err != nil {
			log.Warn("⚠️ Browser shutdown failed", zap.Error(err))
		}
	}
	return page, cleanup, nil
}
