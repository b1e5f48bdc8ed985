package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const smokeHTML = `<html><head><title>Careers | Acme</title></head><body>
<div id="jobs"></div>
<script>
fetch('/api/jobs').then(r => r.json()).then(d => {
  document.getElementById('jobs').innerHTML = '<h3 class="job">' + d.jobs[0].title + '</h3>';
});
</script>
</body></html>`

//integration test: needs installed playwright browsers
func TestPlaywrightPage_Smoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if os.Getenv("PLAYWRIGHT_SMOKE") == "" {
		t.Skip("PLAYWRIGHT_SMOKE not set")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/careers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(smokeHTML))
	})
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jobs":[{"title":"Diesel Technician"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	log := zaptest.NewLogger(t)
	pm, err := NewPlaywright(ctx, true)
	require.NoError(t, err)
	defer pm.Close()

	bctx, err := pm.NewContext(nil)
	require.NoError(t, err)
	pwPage, err := bctx.NewPage()
	require.NoError(t, err)

	page := NewPlaywrightPage(pwPage, 15*time.Second, NewScreenshotDebugger(t.TempDir(), log), log)
	require.NoError(t, page.Goto(ctx, srv.URL+"/careers"))
	require.NoError(t, page.WaitFor(ctx, "h3.job", 5*time.Second))
	page.Settle(ctx, 500*time.Millisecond)

	title, err := page.Title()
	require.NoError(t, err)
	assert.Equal(t, "Careers | Acme", title)

	content, err := page.Content()
	require.NoError(t, err)
	assert.Contains(t, content, "Diesel Technician")

	bodies := page.JSONResponses()
	require.Len(t, bodies, 1)
	assert.Equal(t, map[string]any{"jobs": []any{map[string]any{"title": "Diesel Technician"}}}, bodies[0])

	assert.Error(t, page.WaitFor(ctx, ".never", 200*time.Millisecond))
	assert.NoError(t, page.CaptureFailure("smoke"))
}
