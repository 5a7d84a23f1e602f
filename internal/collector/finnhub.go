package collector

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"stockscope/internal/cache"
	"stockscope/internal/model"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

const metricsTTL = 24 * time.Hour

// FinnhubFetcher implements MetricsFetcher against the Finnhub API.
// It only backfills ratios the primary statements feed lacks, so a nil
// FinnhubFetcher is a valid configuration.
type FinnhubFetcher struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Cache   cache.Store

	limiter *rate.Limiter
}

// NewFinnhubFetcher creates a Finnhub fetcher.
func NewFinnhubFetcher(apiKey string, store cache.Store, minDelay time.Duration) *FinnhubFetcher {
	if store == nil {
		store = cache.NewNop()
	}
	if minDelay <= 0 {
		minDelay = 150 * time.Millisecond
	}
	return &FinnhubFetcher{
		APIKey:  apiKey,
		BaseURL: finnhubBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Cache:   store,
		limiter: rate.NewLimiter(rate.Every(minDelay), 1),
	}
}

func (f *FinnhubFetcher) Name() string { return "finnhub" }

// GetMetrics fetches the basic-financials bundle and maps the fields
// the fundamentals engine can backfill from. Metrics the provider does
// not report stay nil.
func (f *FinnhubFetcher) GetMetrics(ctx context.Context, ticker string) (*model.SecondaryMetrics, error) {
	cacheKey := fmt.Sprintf("finnhub_metrics_%s", ticker)
	body, ok := f.Cache.Get(cacheKey, metricsTTL)
	if !ok {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		u := fmt.Sprintf("%s/stock/metric?symbol=%s&metric=all&token=%s",
			f.BaseURL, url.QueryEscape(ticker), f.APIKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("finnhub fetch: %w", err)
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("finnhub read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("finnhub: status %d, body: %s", resp.StatusCode, string(body))
		}
		if err := f.Cache.Put(cacheKey, body); err != nil {
			log.Printf("[WARN] cache put %s failed: %v", cacheKey, err)
		}
	}

	metric := gjson.GetBytes(body, "metric")
	if !metric.Exists() {
		return nil, fmt.Errorf("finnhub: no metrics for %s", ticker)
	}

	return &model.SecondaryMetrics{
		PE:                optional(metric.Get("peNormalizedAnnual")),
		EPS:               optional(metric.Get("epsBasicExclExtraItemsTTM")),
		ROE:               optional(metric.Get("roeTTM")),
		ROA:               optional(metric.Get("roaTTM")),
		CurrentRatio:      optional(metric.Get("currentRatioQuarterly")),
		DividendYield:     optional(metric.Get("dividendYieldIndicatedAnnual")),
		SharesOutstanding: optional(metric.Get("sharesOutstanding")),
	}, nil
}

func optional(r gjson.Result) *float64 {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	v := r.Float()
	return &v
}
