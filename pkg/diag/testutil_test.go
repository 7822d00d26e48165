package diag

import (
	"strings"
	"testing"

	"webshell/pkg/testutil"
)

var dedent = testutil.Dedent

func lines(lines ...string) string {
	return strings.Join(lines, "\n")
}

func setCulpritMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &culpritStart, start)
	testutil.Set(t, &culpritEnd, end)
}

func setMessageMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &messageStart, start)
	testutil.Set(t, &messageEnd, end)
}
