package progressbar

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)
	assert.Equal(t, 0.0, p.Progress())

	p.Increment()
	p.Increment()
	assert.Equal(t, 0.5, p.Progress())
	assert.Equal(t, 5, strings.Count(p.String(), "█"))
	assert.Contains(t, p.String(), "50.00%")

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	assert.Equal(t, 1.0, p.Progress())

	p.Display()
	p.Close()
	assert.Contains(t, out.String(), "100.00%")
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestManualProgressBarWidth(t *testing.T) {
	p := NewManualProgressBar(&bytes.Buffer{}, 10, 3)

	for i := 0; i <= 3; i++ {
		bar := strings.SplitN(p.String(), "|", 3)[1]
		assert.Equal(t, 10, utf8.RuneCountInString(bar), "after %d", i)
		p.Increment()
	}
}
