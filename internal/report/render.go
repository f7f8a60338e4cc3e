package report

import (
	"fmt"
	"io"

	"github.com/verte-zerg/settei/internal/model"
	"github.com/verte-zerg/settei/internal/stats"
)

// Render writes the share text, optionally followed by the posterior table
// and any goal notes.
func Render(w io.Writer, r model.Report, withTable bool) error {
	if _, err := fmt.Fprintln(w, r.Share); err != nil {
		return err
	}
	if !withTable {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := stats.RenderPosteriorTable(w, r.Settings, r.Posterior); err != nil {
		return err
	}
	for _, g := range []model.GoalResult{r.Broad, r.Narrow} {
		if g.Note == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "Note (%s): %s\n", g.Goal.Label, g.Note); err != nil {
			return err
		}
	}
	return nil
}
