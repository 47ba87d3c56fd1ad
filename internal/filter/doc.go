// Package filter stabilizes the raw gaze stream.
//
// A filter is a small chain of stages applied to every pushed sample:
//   - Ordering: samples with a timestamp not newer than the previous one are ignored
//   - Outlier gate: isolated jumps are rejected, confirmed saccades restart the window
//   - Averaging: arithmetic mean (simple) or recency-weighted mean (weighted)
//   - Fixation: low dispersion sustained for a minimum duration
//
// Advance is called once per frame even when no sample arrived, so that a
// tracker that stops reporting is detected and the point is invalidated
// instead of freezing at its last position.
package filter
