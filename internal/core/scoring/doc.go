// Package scoring implements the multi-signal relationship metrics for
// note pairs: chunk-level cosine similarity, entity and tag set
// similarity, weighted feature fusion with guardrail and thresholds,
// cross-chunk match discovery, and the explain summary.
//
// Every function in this package is pure and total over its documented
// input domain. Missing signals, empty sets, and dimension-mismatched
// vectors degrade to the metric's zero value; nothing here returns an
// error or panics. This keeps per-candidate scoring embarrassingly
// parallel for callers.
package scoring
