package viewer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"inflation-report/utils"

	"github.com/chromedp/chromedp"
)

// Viewer opens rendered charts in a visible Chrome window
type Viewer struct {
	outputDir string
	logger    *utils.Logger
}

// NewViewer creates a Viewer that writes its page into outputDir
func NewViewer(outputDir string, logger *utils.Logger) *Viewer {
	return &Viewer{outputDir: outputDir, logger: logger}
}

type chartImage struct {
	Title string
	Src   template.URL
	PDF   bool
}

var pageTemplate = template.Must(template.New("charts").Parse(`<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="utf-8">
<title>TÜFE Grafikleri</title>
<style>
body { font-family: sans-serif; margin: 24px; background: #fafafa; }
figure { margin: 0 0 32px 0; }
img, embed { max-width: 100%; border: 1px solid #ddd; background: #fff; }
embed { width: 100%; height: 600px; }
</style>
</head>
<body>
{{range .}}<figure>
<figcaption>{{.Title}}</figcaption>
{{if .PDF}}<embed src="{{.Src}}" type="application/pdf">{{else}}<img src="{{.Src}}" alt="{{.Title}}">{{end}}
</figure>
{{end}}</body>
</html>
`))

// BuildHTML returns a standalone page with every chart inlined as a data URL
func BuildHTML(files []string) ([]byte, error) {
	images := make([]chartImage, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read chart %s: %w", path, err)
		}
		mime := mimeType(path)
		images = append(images, chartImage{
			Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Src:   template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)),
			PDF:   mime == "application/pdf",
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, images); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

func mimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "image/svg+xml"
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Show writes the chart page and blocks until the browser window is closed
// or ctx is cancelled
func (v *Viewer) Show(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	page, err := BuildHTML(files)
	if err != nil {
		return err
	}
	pagePath, err := filepath.Abs(filepath.Join(v.outputDir, "grafikler.html"))
	if err != nil {
		return fmt.Errorf("failed to resolve page path: %w", err)
	}
	if err := os.WriteFile(pagePath, page, 0644); err != nil {
		return fmt.Errorf("failed to write chart page: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"),
		chromedp.WindowSize(1280, 900),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelCtx()

	if err := chromedp.Run(browserCtx, chromedp.Navigate("file://"+filepath.ToSlash(pagePath))); err != nil {
		return fmt.Errorf("failed to open chart window: %w", err)
	}
	v.logger.Info("Charts opened in browser window; close it to continue")

	select {
	case <-chromedp.FromContext(browserCtx).Browser.LostConnection:
	case <-ctx.Done():
	}
	return nil
}
