package testutil

import (
	"time"
)

// ScaledMs returns ms milliseconds, scaled by the WEBSH_TEST_TIME_SCALE
// environment variable. If the variable does not exist, the scale defaults to
// 1.
func ScaledMs(ms int) time.Duration {
	return Scaled(time.Duration(ms) * time.Millisecond)
}
