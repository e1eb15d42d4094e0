package driver

import (
	"encoding/json"
	"fmt"

	"druk/internal/diag"
	"druk/internal/observ"
	"druk/internal/source"
)

// appendTimingDiagnostic records report as an ObsTimings note whose single
// note carries the JSON payload. It is appended even when the bag is full.
func appendTimingDiagnostic(bag *diag.Bag, report observ.Report) {
	if bag == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings: total %.2f ms", report.TotalMS)
	if report.Path != "" {
		msg += " for " + report.Path
	}
	entry := diag.New(diag.SevNote, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
