package namesync

import (
	"strings"

	"github.com/scgolang/wingsync/metrics"
	"github.com/scgolang/wingsync/wingosc"
)

// OffName marks a strip whose output is disabled. The recorder keeps its
// current name for it.
const OffName = wingosc.GroupOff

// Strip is a recorder strip and the name it should get.
type Strip struct {
	Index int
	Name  string
}

// Strips returns the named outputs in index order. Aggregate names that
// skipped the suffix step get their L/R suffix here.
func Strips(l *Ledger) []Strip {
	var strips []Strip
	for out := 1; out <= l.Len(); out++ {
		f := l.Fact(out)
		if !f.HasName {
			continue
		}
		name := f.Name
		if wingosc.IsAggregate(f.Group) {
			if suffix := wingosc.StereoSuffix(f.Input); !strings.HasSuffix(name, suffix) {
				name += suffix
			}
		}
		strips = append(strips, Strip{Index: out, Name: name})
	}
	return strips
}

// push renames every strip on the recorder and closes the link once all
// sends have completed.
func (s *Session) push(strips []Strip) (acked, failed int) {
	for _, strip := range strips {
		if err := s.link.RenameStrip(strip.Index, strip.Name); err != nil {
			failed++
			s.log.Error().Err(err).Int("strip", strip.Index).Msg("rename failed")
			s.report("✗ LiveTrax strip %d not renamed: %v", strip.Index, err)
			continue
		}
		acked++
		if strip.Name == OffName {
			continue
		}
		metrics.StripsRenamed.Inc()
		s.report("→ LiveTrax strip %d renamed %q", strip.Index, strip.Name)
	}
	if acked == len(strips) {
		s.report("🎉 All strips renamed")
	}
	if err := s.link.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing transport")
	}
	return acked, failed
}
