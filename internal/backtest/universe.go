package backtest

// DefaultUniverse is the 110-ticker cross-sector universe the walk runs
// against when no override is configured.
var DefaultUniverse = []string{
	// Tech
	"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "AMD", "INTC", "CRM", "ORCL",
	"ADBE", "NOW", "SNOW", "PLTR", "NET", "DDOG", "ZS", "CRWD", "PANW", "FTNT",
	// Finance
	"JPM", "BAC", "WFC", "GS", "MS", "C", "BLK", "SCHW", "AXP", "V", "MA", "PYPL",
	// Healthcare
	"JNJ", "UNH", "PFE", "ABBV", "MRK", "LLY", "TMO", "ABT", "DHR", "BMY",
	// Energy
	"XOM", "CVX", "COP", "SLB", "EOG", "OXY", "PSX", "VLO", "MPC", "HAL",
	// Defense and industrial
	"LMT", "RTX", "NOC", "GD", "BA", "CAT", "DE", "HON", "GE", "MMM",
	// Consumer
	"WMT", "COST", "HD", "TGT", "LOW", "MCD", "SBUX", "NKE", "DIS", "NFLX",
	// Small and mid cap growth
	"ROKU", "SHOP", "SQ", "COIN", "HOOD", "SOFI", "AFRM", "UPST", "RBLX", "UNITY",
	// Biotech
	"MRNA", "BNTX", "REGN", "VRTX", "GILD", "BIIB", "ILMN", "EXAS", "DXCM", "ISRG",
	// Infrastructure and materials
	"FCX", "NEM", "VALE", "RIO", "BHP", "CLF", "X", "NUE", "STLD", "AA",
	// Recent IPOs and high volatility
	"RIVN", "LCID", "TSLA", "NIO", "XPEV", "LI", "FSR", "ARVL", "GOEV", "WKHS",
}
