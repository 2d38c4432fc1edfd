package imf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inflation-report/config"
	"inflation-report/models"
	"inflation-report/utils"
)

// apiResponse mirrors {"values": {<indicator>: {<country>: {<year>: <value>}}}}
type apiResponse struct {
	Values map[string]map[string]map[string]*float64 `json:"values"`
}

// Result is the outcome of one fetch run
type Result struct {
	Series  []*models.RawSeries
	Notices []models.FetchNotice
}

// Fetcher pulls indicator series from the IMF DataMapper API
type Fetcher struct {
	cfg    *config.Config
	logger *utils.Logger
	client *http.Client
	out    io.Writer // user-facing notices
}

// NewFetcher creates a new Fetcher. Notices are printed to out.
func NewFetcher(cfg *config.Config, logger *utils.Logger, out io.Writer) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		out:    out,
	}
}

// WithClient swaps the HTTP client
func (f *Fetcher) WithClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// Fetch is the main entry point, dispatching on the configured mode
func (f *Fetcher) Fetch(ctx context.Context, codes []string) (*Result, error) {
	codes = utils.NewCodeSet(codes...).List()
	if f.cfg.FetchMode == config.ModeBatch {
		return f.FetchBatch(ctx, codes)
	}
	return f.FetchAll(ctx, codes)
}

// FetchAll issues one request per country, in list order
func (f *Fetcher) FetchAll(ctx context.Context, codes []string) (*Result, error) {
	f.logger.Info("Fetching %s for %d countries...", f.cfg.Indicator, len(codes))

	res := &Result{}
	for i, code := range codes {
		f.logger.Debug("  [%d/%d] %s", i+1, len(codes), code)

		body, status, err := f.get(ctx, f.countryURL(code))
		if err != nil {
			return nil, fmt.Errorf("request for %s failed: %w", code, err)
		}
		if status != http.StatusOK {
			res.Notices = append(res.Notices, f.notice(code, status))
			continue
		}

		var parsed apiResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("decoding response for %s: %w", code, err)
		}
		series, ok := parsed.Values[f.cfg.Indicator][code]
		if !ok || series == nil {
			res.Notices = append(res.Notices, f.notice(code, 0))
			continue
		}
		res.Series = append(res.Series, &models.RawSeries{Country: code, Values: series})
	}

	f.logger.Info("Fetch complete. %d countries with data, %d skipped", len(res.Series), len(res.Notices))
	return res, nil
}

// FetchBatch issues a single request for the whole indicator and keeps the
// queried countries only
func (f *Fetcher) FetchBatch(ctx context.Context, codes []string) (*Result, error) {
	f.logger.Info("Fetching %s for all countries in one request...", f.cfg.Indicator)

	res := &Result{}
	body, status, err := f.get(ctx, f.indicatorURL())
	if err != nil {
		return nil, fmt.Errorf("batch request failed: %w", err)
	}
	if status != http.StatusOK {
		for _, code := range codes {
			res.Notices = append(res.Notices, f.notice(code, status))
		}
		return res, nil
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding batch response: %w", err)
	}
	byCountry := parsed.Values[f.cfg.Indicator]
	for _, code := range codes {
		series, ok := byCountry[code]
		if !ok || series == nil {
			res.Notices = append(res.Notices, f.notice(code, 0))
			continue
		}
		res.Series = append(res.Series, &models.RawSeries{Country: code, Values: series})
	}

	f.logger.Info("Fetch complete. %d countries with data, %d skipped", len(res.Series), len(res.Notices))
	return res, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// notice prints and returns the Turkish skip message; status 0 means the
// response had no series for the country
func (f *Fetcher) notice(code string, status int) models.FetchNotice {
	var msg string
	if status == 0 {
		msg = fmt.Sprintf("%s için TÜFE verisi bulunamadı.", code)
	} else {
		msg = fmt.Sprintf("%s için veri alınamadı: %d", code, status)
	}
	fmt.Fprintln(f.out, msg)
	return models.FetchNotice{Country: code, StatusCode: status, Message: msg}
}

func (f *Fetcher) indicatorURL() string {
	return strings.TrimRight(f.cfg.BaseURL, "/") + "/" + f.cfg.Indicator
}

func (f *Fetcher) countryURL(code string) string {
	return f.indicatorURL() + "/" + code
}
