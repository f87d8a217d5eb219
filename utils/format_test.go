package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Time(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{2*time.Minute + 3*time.Second, "2m 3.00s"},
		{5*time.Hour + 4*time.Minute + 1*time.Second, "5h 4m 1.00s"},
		{50*time.Hour + 30*time.Second, "2d 2h 0m 30.00s"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatTime(tc.d))
	}
}

func TestFormat_DecorateText(t *testing.T) {
	assert.Equal(t, ErrorColor+"failed"+DefaultColor, DecorateText("failed", ErrorMessage))
	assert.Equal(t, WarningColor+"skipped"+DefaultColor, DecorateText("skipped", WarningMessage))
	assert.Equal(t, "plain", DecorateText("plain", MessageType(42)))
}

func TestSpinner_SharedByJobs(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "working", time.Millisecond, false)

	s.Start()
	s.Start()
	s.SetMessage("still working")
	time.Sleep(5 * time.Millisecond)

	s.Stop("first done")
	s.Stop("second done")
	// Extra stops are ignored.
	s.Stop("ignored")

	out := buf.String()
	assert.Contains(t, out, "working")
	assert.Contains(t, out, "first done\n")
	assert.True(t, strings.HasSuffix(out, "second done"))
	assert.NotContains(t, out, "ignored")
}
