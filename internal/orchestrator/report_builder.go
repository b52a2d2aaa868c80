package orchestrator

import (
	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/report"
)

// reportBuilder accumulates the same Header/Line messages the Collector
// prints into per-file results for the report exporter, without
// duplicating the collector's own formatting or counters.
type reportBuilder struct {
	order  []string
	byPath map[string]*report.FileResult
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{byPath: make(map[string]*report.FileResult)}
}

func (b *reportBuilder) observe(msg engine.OutputMessage) {
	switch msg.Kind {
	case engine.MsgHeader:
		if _, ok := b.byPath[msg.Path]; !ok {
			b.byPath[msg.Path] = &report.FileResult{Path: msg.Path}
			b.order = append(b.order, msg.Path)
		}
	case engine.MsgLine:
		fr := b.byPath[msg.Path]
		if fr == nil {
			fr = &report.FileResult{Path: msg.Path}
			b.byPath[msg.Path] = fr
			b.order = append(b.order, msg.Path)
		}
		fr.Lines = append(fr.Lines, engine.MatchRecord{LineIndex: msg.LineIndex, OriginalLine: msg.StyledLine})
	}
}

func (b *reportBuilder) results() []report.FileResult {
	out := make([]report.FileResult, 0, len(b.order))
	for _, path := range b.order {
		out = append(out, *b.byPath[path])
	}
	return out
}
