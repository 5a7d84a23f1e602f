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

const polygonBaseURL = "https://api.polygon.io"

// Cache TTLs follow the upstream refresh cadence: prices churn
// intraday, statements and company metadata change on filing dates.
const (
	pricesTTL     = time.Hour
	detailsTTL    = 24 * time.Hour
	financialsTTL = 24 * time.Hour
)

// PolygonFetcher implements BarFetcher and FundamentalsFetcher against
// the Polygon.io REST API. Responses are cached as raw JSON so repeat
// lookups within the TTL never hit the network.
type PolygonFetcher struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Cache   cache.Store

	limiter *rate.Limiter
	now     func() time.Time
}

// NewPolygonFetcher creates a Polygon fetcher. minDelay spaces outbound
// requests to stay inside the API plan's rate limit.
func NewPolygonFetcher(apiKey string, store cache.Store, minDelay time.Duration) *PolygonFetcher {
	if store == nil {
		store = cache.NewNop()
	}
	if minDelay <= 0 {
		minDelay = 150 * time.Millisecond
	}
	return &PolygonFetcher{
		APIKey:  apiKey,
		BaseURL: polygonBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Cache:   store,
		limiter: rate.NewLimiter(rate.Every(minDelay), 1),
		now:     time.Now,
	}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func (f *PolygonFetcher) get(ctx context.Context, u, cacheKey string, ttl time.Duration) ([]byte, error) {
	if body, ok := f.Cache.Get(cacheKey, ttl); ok {
		return body, nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polygon fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polygon read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polygon: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := f.Cache.Put(cacheKey, body); err != nil {
		log.Printf("[WARN] cache put %s failed: %v", cacheKey, err)
	}
	return body, nil
}

// GetBars fetches daily aggregates covering the last `days` calendar
// days, oldest bar first.
func (f *PolygonFetcher) GetBars(ctx context.Context, ticker string, days int) (*model.PriceSeries, error) {
	to := f.now()
	from := to.AddDate(0, 0, -days)
	fromStr, toStr := from.Format("2006-01-02"), to.Format("2006-01-02")

	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&limit=50000&apiKey=%s",
		f.BaseURL, url.PathEscape(ticker), fromStr, toStr, f.APIKey)
	body, err := f.get(ctx, u, fmt.Sprintf("aggs_%s_%s_%s", ticker, fromStr, toStr), pricesTTL)
	if err != nil {
		return nil, err
	}

	results := gjson.GetBytes(body, "results")
	if !results.Exists() || len(results.Array()) == 0 {
		return nil, fmt.Errorf("polygon: no bars for %s", ticker)
	}

	bars := make([]model.OHLCV, 0, len(results.Array()))
	results.ForEach(func(_, r gjson.Result) bool {
		bars = append(bars, model.OHLCV{
			Date:   time.UnixMilli(r.Get("t").Int()).UTC(),
			Open:   r.Get("o").Float(),
			High:   r.Get("h").Float(),
			Low:    r.Get("l").Float(),
			Close:  r.Get("c").Float(),
			Volume: r.Get("v").Float(),
		})
		return true
	})

	return &model.PriceSeries{Ticker: ticker, Bars: bars, FetchedAt: f.now()}, nil
}

// GetFinancials fetches the most recent reported statements, newest
// first. Line items the filing omits come back zero.
func (f *PolygonFetcher) GetFinancials(ctx context.Context, ticker string, limit int) ([]model.FinancialStatement, error) {
	if limit <= 0 {
		limit = 4
	}
	u := fmt.Sprintf("%s/vX/reference/financials?ticker=%s&limit=%d&sort=period_of_report_date&order=desc&apiKey=%s",
		f.BaseURL, url.QueryEscape(ticker), limit, f.APIKey)
	body, err := f.get(ctx, u, fmt.Sprintf("financials_%s_%d", ticker, limit), financialsTTL)
	if err != nil {
		return nil, err
	}

	var statements []model.FinancialStatement
	gjson.GetBytes(body, "results").ForEach(func(_, r gjson.Result) bool {
		inc := r.Get("financials.income_statement")
		bs := r.Get("financials.balance_sheet")
		cf := r.Get("financials.cash_flow_statement")

		interest := inc.Get("interest_expense_operating.value")
		if !interest.Exists() {
			interest = inc.Get("interest_expense.value")
		}
		cash := bs.Get("cash_and_cash_equivalents.value")
		if !cash.Exists() {
			cash = bs.Get("cash.value")
		}

		statements = append(statements, model.FinancialStatement{
			FiscalPeriod:       r.Get("fiscal_period").String(),
			FiscalYear:         r.Get("fiscal_year").String(),
			EPSBasic:           inc.Get("basic_earnings_per_share.value").Float(),
			Revenues:           inc.Get("revenues.value").Float(),
			CostOfRevenue:      inc.Get("cost_of_revenue.value").Float(),
			OperatingIncome:    inc.Get("operating_income_loss.value").Float(),
			NetIncome:          inc.Get("net_income_loss.value").Float(),
			InterestExpense:    interest.Float(),
			Equity:             bs.Get("equity.value").Float(),
			TotalAssets:        bs.Get("assets.value").Float(),
			CurrentAssets:      bs.Get("current_assets.value").Float(),
			CurrentLiabilities: bs.Get("current_liabilities.value").Float(),
			LongTermDebt:       bs.Get("long_term_debt.value").Float(),
			DebtCurrent:        bs.Get("debt_current.value").Float(),
			CashAndEquivalents: cash.Float(),
			OperatingCashFlow:  cf.Get("net_cash_flow_from_operating_activities.value").Float(),
			InvestingCashFlow:  cf.Get("net_cash_flow_from_investing_activities.value").Float(),
			Depreciation:       cf.Get("depreciation_and_amortization.value").Float(),
		})
		return len(statements) < limit
	})

	return statements, nil
}

// GetCompanyDetails fetches company metadata for sector mapping and
// market-position scoring.
func (f *PolygonFetcher) GetCompanyDetails(ctx context.Context, ticker string) (*model.CompanyDetails, error) {
	u := fmt.Sprintf("%s/v3/reference/tickers/%s?apiKey=%s", f.BaseURL, url.PathEscape(ticker), f.APIKey)
	body, err := f.get(ctx, u, fmt.Sprintf("details_%s", ticker), detailsTTL)
	if err != nil {
		return nil, err
	}

	r := gjson.GetBytes(body, "results")
	if !r.Exists() {
		return nil, fmt.Errorf("polygon: no details for %s", ticker)
	}
	name := r.Get("name").String()
	if name == "" {
		name = ticker
	}
	return &model.CompanyDetails{
		Ticker:         ticker,
		Name:           name,
		MarketCap:      r.Get("market_cap").Float(),
		SICCode:        r.Get("sic_code").String(),
		SICDescription: r.Get("sic_description").String(),
	}, nil
}
