package logging

import (
	"fmt"
	"log/slog"
	"time"
)

// Now is the clock used by Time.
var Now = time.Now

// Time logs "starting" and returns the func that logs "finished" with the
// elapsed seconds. When suppressed nothing is logged.
//
//	defer logging.Time(logger, false)()
func Time(logger *slog.Logger, suppressed bool) func() {
	if suppressed {
		return func() {}
	}
	logger.Info("starting")
	start := Now()
	return func() {
		logger.Info(fmt.Sprintf("finished (took %.3fs)", Now().Sub(start).Seconds()))
	}
}
