package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	psio "github.com/pkositsyn/phonecheck/internal/io"
)

type ReadResetCounter interface {
	psio.ReadResetter
	LinesRead() int
}

// Interval between progress redraws.
var Interval = time.Second

// TrackProgress counts the input lines up front and then redraws
// "msg: done/total" on out until ctx is cancelled. It must be called before
// reading starts. When any input cannot be rewound the total is unknown and
// only "msg: done" is shown.
func TrackProgress(ctx context.Context, wg *sync.WaitGroup, out io.Writer, msg string, files ...ReadResetCounter) error {
	totalLines := -1
	if allSeekable(files) {
		totalLines = 0
		for _, file := range files {
			n, err := psio.LineCount(file)
			if err != nil {
				return err
			}
			totalLines += n
		}
	}

	line := func(cur int) string {
		if totalLines < 0 {
			return fmt.Sprintf("\r%s: %d", msg, cur)
		}
		return fmt.Sprintf("\r%s: %d/%d", msg, cur, totalLines)
	}

	wg.Go(func() {
		var curCounter int
		for {
			select {
			case <-ctx.Done():
				lineLen := len(line(curCounter))
				fmt.Fprintf(out, "\r%s\r", strings.Repeat(" ", lineLen))
				return
			case <-time.After(Interval):
			}

			curCounter = 0
			for _, file := range files {
				curCounter += file.LinesRead()
			}

			fmt.Fprint(out, line(curCounter))
		}
	})

	return nil
}

func allSeekable(files []ReadResetCounter) bool {
	for _, file := range files {
		if !file.Seekable() {
			return false
		}
	}
	return true
}
