// Package analytics computes the descriptive and statistical summaries of an
// enriched S&P 500 price table: top trading events, weekday volume, volatility
// leaders, ROI ranking, historical Value-at-Risk and Welch's t-test on daily
// returns.
//
// Every analysis is a pure function over a *domain.EnrichedTable and never
// modifies it. Runner executes all of them for one dataset, isolating failures
// so that one analysis going wrong never prevents the others from completing.
//
// Percentiles use linear interpolation between order statistics
// (Hyndman and Fan type 7): for sorted x of length n and fraction q,
// h = (n-1)q and the result is x[⌊h⌋] + (h-⌊h⌋)(x[⌊h⌋+1]-x[⌊h⌋]).
package analytics
