package driver

import (
	"encoding/json"
	"fmt"

	"blend65/internal/diag"
	"blend65/internal/observ"
	"blend65/internal/source"
)

// timingPayload is the machine-readable note attached to the timings
// diagnostic.
type timingPayload struct {
	Kind    string               `json:"kind"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic attaches the timing report as an info
// diagnostic with a machine-readable JSON note. The report must
// survive noisy batches, so a full bag grows instead of dropping it.
func appendTimingDiagnostic(bag *diag.Bag, kind string, report observ.Report) {
	if bag == nil {
		return
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS)
	data, err := json.Marshal(timingPayload{
		Kind:    kind,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
