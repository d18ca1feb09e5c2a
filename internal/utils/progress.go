package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescDownloading = "Downloading"
)

// NewProgressBar creates a consistently styled progress bar on stderr.
//
// Use total -1 for an unknown total (spinner mode). A zero total also
// renders as a spinner since the bar needs a positive maximum. When enabled is false the
// bar renders nothing but can still be advanced, so callers need no branches.
//
// Example:
//
//	bar := utils.NewProgressBar(len(sources), utils.DescDownloading, true)
//	defer bar.Finish()
//
//	for _, source := range sources {
//	    // Load source
//	    bar.Add(1)
//	}
func NewProgressBar(total int, description string, enabled bool) *progressbar.ProgressBar {
	var out io.Writer = os.Stderr
	if !enabled {
		out = io.Discard
	}

	if total <= 0 {
		total = -1
	}

	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
