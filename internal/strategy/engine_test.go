package strategy

import (
	"math"
	"testing"

	"stockscope/internal/model"
)

func TestRecommend_OverboughtGuardWinsFirst(t *testing.T) {
	// Everything else screams buy, but RSI > 70 must take priority.
	b := model.ScoreBundle{
		Score: 90, EMAScore: 90, InstitutionalScore: 90,
		RSI: 72, Squeeze: true,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionTakeProfits {
		t.Fatalf("expected TAKE PROFITS, got %s", rec.Action)
	}
	if rec.Confidence != model.ConfidenceHigh {
		t.Errorf("expected High confidence, got %s", rec.Confidence)
	}
	if rec.OptionHint == nil || rec.OptionHint.Type != "SELL CALLS" {
		t.Errorf("expected SELL CALLS hint, got %+v", rec.OptionHint)
	}
}

func TestRecommend_StrongBuy(t *testing.T) {
	b := model.ScoreBundle{
		Score: 80, EMAScore: 75, InstitutionalScore: 70, RSI: 55,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionStrongBuy {
		t.Fatalf("expected STRONG BUY, got %s", rec.Action)
	}
	if rec.OptionHint == nil || rec.OptionHint.Type != "BUY CALLS" {
		t.Errorf("expected BUY CALLS hint, got %+v", rec.OptionHint)
	}
	if len(rec.Reasoning) != 2 {
		t.Errorf("expected 2 reasoning lines, got %d", len(rec.Reasoning))
	}
}

func TestRecommend_BuyDipBeforeAccumulate(t *testing.T) {
	// Oversold with institutional support maps to BUY DIP even though
	// the score alone would not qualify for ACCUMULATE.
	b := model.ScoreBundle{
		Score: 60, EMAScore: 50, InstitutionalScore: 65, RSI: 28,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionBuyDip {
		t.Fatalf("expected BUY DIP, got %s", rec.Action)
	}
	if rec.OptionHint == nil || rec.OptionHint.Type != "SELL PUTS" {
		t.Errorf("expected SELL PUTS hint, got %+v", rec.OptionHint)
	}
}

func TestRecommend_AccumulateSqueezeReason(t *testing.T) {
	b := model.ScoreBundle{
		Score: 72, EMAScore: 65, InstitutionalScore: 60, RSI: 50, Squeeze: true,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionAccumulate {
		t.Fatalf("expected ACCUMULATE, got %s", rec.Action)
	}
	found := false
	for _, r := range rec.Reasoning {
		if r == "Bollinger squeeze adds breakout potential" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected squeeze reasoning, got %v", rec.Reasoning)
	}
}

func TestRecommend_SpeculativeBuyOnCapitulation(t *testing.T) {
	b := model.ScoreBundle{
		Score: 30, EMAScore: 50, InstitutionalScore: 50,
		RSI: 20, Momentum20d: -35,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionSpeculativeBuy {
		t.Fatalf("expected SPECULATIVE BUY, got %s", rec.Action)
	}
	if rec.Confidence != model.ConfidenceLow {
		t.Errorf("expected Low confidence, got %s", rec.Confidence)
	}
}

func TestRecommend_SellWithPutHint(t *testing.T) {
	b := model.ScoreBundle{
		Score: 10, EMAScore: 20, InstitutionalScore: 30,
		RSI: 45, Momentum20d: -25,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionSell {
		t.Fatalf("expected SELL, got %s", rec.Action)
	}
	if rec.OptionHint == nil || rec.OptionHint.Type != "BUY PUTS" {
		t.Errorf("expected BUY PUTS hint on accelerating downtrend, got %+v", rec.OptionHint)
	}
}

func TestRecommend_SellWithoutPutHint(t *testing.T) {
	b := model.ScoreBundle{
		Score: 10, EMAScore: 20, InstitutionalScore: 30,
		RSI: 45, Momentum20d: -10,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionSell {
		t.Fatalf("expected SELL, got %s", rec.Action)
	}
	if rec.OptionHint != nil {
		t.Errorf("expected no option hint, got %+v", rec.OptionHint)
	}
}

func TestRecommend_Reduce(t *testing.T) {
	b := model.ScoreBundle{
		Score: 35, EMAScore: 40, InstitutionalScore: 40,
		RSI: 45, Momentum20d: -18,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionReduce {
		t.Fatalf("expected REDUCE, got %s", rec.Action)
	}
}

func TestRecommend_Watch(t *testing.T) {
	b := model.ScoreBundle{
		Score: 60, EMAScore: 55, InstitutionalScore: 50, RSI: 45,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionWatch {
		t.Fatalf("expected WATCH, got %s", rec.Action)
	}
}

func TestRecommend_HoldDefault(t *testing.T) {
	b := model.ScoreBundle{
		Score: 45, EMAScore: 45, InstitutionalScore: 50, RSI: 60,
	}
	rec := Recommend(b)
	if rec.Action != model.ActionHold {
		t.Fatalf("expected HOLD, got %s", rec.Action)
	}
	if rec.Reasoning[0] != "Insufficient momentum for new positions" {
		t.Errorf("unexpected reasoning: %v", rec.Reasoning)
	}

	b.Score = 52
	rec = Recommend(b)
	if rec.Reasoning[0] != "Decent score but missing confirmation signals" {
		t.Errorf("unexpected reasoning: %v", rec.Reasoning)
	}
}

func TestWinProbability_AdjustmentsAccumulate(t *testing.T) {
	// EMA 70+ (+0.085), RSI optimal (+0.05), strong inst (+0.04),
	// score 55+ (+0.04), bullish trend (+0.03), squeeze (+0.03).
	b := model.ScoreBundle{
		Score: 80, EMAScore: 75, InstitutionalScore: 70, RSI: 55, Squeeze: true,
	}
	win := WinProbability(model.ActionStrongBuy, b)

	wantTotal := 0.085 + 0.05 + 0.04 + 0.04 + 0.03 + 0.03
	if math.Abs(win.TotalAdjustment-wantTotal) > 1e-9 {
		t.Errorf("total adjustment = %.4f, want %.4f", win.TotalAdjustment, wantTotal)
	}
	if math.Abs(win.Probability-(0.40+wantTotal)) > 1e-9 {
		t.Errorf("probability = %.4f, want %.4f", win.Probability, 0.40+wantTotal)
	}
	if len(win.Adjustments) != 6 {
		t.Errorf("expected 6 adjustments, got %d", len(win.Adjustments))
	}
	if win.HoldPeriodDays != 45 {
		t.Errorf("hold period = %d, want 45", win.HoldPeriodDays)
	}
}

func TestWinProbability_ProbabilityClampedAtZero(t *testing.T) {
	// SELL base 0.02 with overbought (-0.15) and bearish trend (-0.08).
	b := model.ScoreBundle{Score: 10, EMAScore: 20, InstitutionalScore: 30, RSI: 75}
	win := WinProbability(model.ActionSell, b)
	if win.Probability != 0 {
		t.Errorf("probability = %.4f, want 0", win.Probability)
	}
}

func TestWinProbability_ExpectedReturnUnclamped(t *testing.T) {
	// TAKE PROFITS base return is -0.10. A positive total adjustment
	// scales it further negative rather than being floored.
	b := model.ScoreBundle{Score: 80, EMAScore: 75, InstitutionalScore: 70, RSI: 75}
	win := WinProbability(model.ActionTakeProfits, b)

	// Adjustments: +0.085 -0.15 +0.04 +0.04 +0.03 = 0.045.
	wantTotal := 0.085 - 0.15 + 0.04 + 0.04 + 0.03
	if math.Abs(win.TotalAdjustment-wantTotal) > 1e-9 {
		t.Fatalf("total adjustment = %.4f, want %.4f", win.TotalAdjustment, wantTotal)
	}
	want := -0.10 * (1 + wantTotal)
	if math.Abs(win.ExpectedReturn-want) > 1e-9 {
		t.Errorf("expected return = %.6f, want %.6f", win.ExpectedReturn, want)
	}
}

func TestActionPriorityOrdering(t *testing.T) {
	if model.ActionStrongBuy.Priority() >= model.ActionHold.Priority() {
		t.Error("STRONG BUY should rank ahead of HOLD")
	}
	if !model.ActionBuyDip.IsBuySide() {
		t.Error("BUY DIP is buy-side")
	}
	if model.ActionWatch.IsBuySide() {
		t.Error("WATCH is not buy-side")
	}
}
