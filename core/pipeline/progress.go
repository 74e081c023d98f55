package pipeline

import (
	"io"

	"github.com/schollz/progressbar/v2"
)

// NewProgressBar returns a ProgressFunc drawing a terminal progress bar on w.
// The bar is created on the first call, once the total is known.
func NewProgressBar(w io.Writer, description string) ProgressFunc {
	var bar *progressbar.ProgressBar
	last := 0

	return func(done, total int) {
		if total <= 0 {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(
				total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription(description),
			)
		}
		if done > last {
			_ = bar.Add(done - last)
			last = done
		}
		if done == total {
			_ = bar.Finish()
			_, _ = io.WriteString(w, "\n")
		}
	}
}
