package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ScreenshotDebugger keeps full-page screenshots of failed sources
type ScreenshotDebugger struct {
	outputDir string
	log       *zap.Logger
}

func NewScreenshotDebugger(dir string, log *zap.Logger) *ScreenshotDebugger {
	return &ScreenshotDebugger{outputDir: dir, log: log}
}

// FileName builds "<name>_<timestamp>.png" with name reduced to filesystem-safe characters
func FileName(name string, at time.Time) string {
	safe := unsafeNameChars.ReplaceAllString(name, "-")
	return fmt.Sprintf("%s_%s.png", safe, at.Format("2006-01-02_15-04-05"))
}

func (s *ScreenshotDebugger) Capture(page playwright.Page, name string) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return errors.Wrap(err, "create screenshot dir")
	}
	path := filepath.Join(s.outputDir, FileName(name, time.Now()))
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return errors.Wrap(err, "capture screenshot")
	}
	s.log.Info("📸 screenshot saved", zap.String("path", path))
	return nil
}
