package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the static shell of the analytics dashboard. All data arrives
// over the datastar SSE endpoints after load; the shell only lays out the
// patch targets.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sales Analytics Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f4f6f8; color: #172b4d; }
header { background: #fff; border-bottom: 1px solid #dfe1e6; padding: 16px 24px; }
main { padding: 24px; display: grid; gap: 24px; }
.panel { background: #fff; border: 1px solid #dfe1e6; border-radius: 8px; padding: 16px; }
.modern-table { width: 100%; border-collapse: collapse; font-size: 13px; }
.modern-table th { background: #2c3e50; color: #fff; padding: 8px; text-align: left; }
.modern-table td { border-bottom: 1px solid #e0e0e0; padding: 8px; }
.insight-list li { margin: 6px 0; }
</style>
</head>
<body data-on-load="@get('/sse/refresh-all')">
<header>
<h1>Sales Performance Snapshot</h1>
</header>
<main>
<section class="panel" id="insight-content">Loading insights…</section>
<section class="panel" id="product-content">Loading product performance…</section>
</main>
</body>
</html>`
