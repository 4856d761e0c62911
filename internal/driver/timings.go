package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"docl/internal/diag"
	"docl/internal/observ"
	"docl/internal/source"
)

// timingPayload is the JSON note carried by an ObsTimings diagnostic.
type timingPayload struct {
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
	observ.Report
}

func (p timingPayload) message() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "timings (%s): total %.2f ms", p.Kind, p.TotalMS)
	if p.Path != "" {
		fmt.Fprintf(&sb, " (%s)", p.Path)
	}
	return sb.String()
}

// appendTimingDiagnostic adds p to bag as an info diagnostic, ignoring the
// bag's limit.
func appendTimingDiagnostic(bag *diag.Bag, p timingPayload) {
	if bag == nil {
		return
	}
	if p.Kind == "" {
		p.Kind = "pipeline"
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	bag.Force(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, p.message()).
		WithNote(source.Span{}, string(data)))
}

// timingsFromDiagnostic decodes the payload of an ObsTimings diagnostic.
func timingsFromDiagnostic(d diag.Diagnostic) (timingPayload, bool) {
	var p timingPayload
	if d.Code != diag.ObsTimings || len(d.Notes) == 0 {
		return p, false
	}
	if err := json.Unmarshal([]byte(d.Notes[0].Msg), &p); err != nil {
		return timingPayload{}, false
	}
	return p, true
}
