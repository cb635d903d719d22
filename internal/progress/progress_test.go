package progress

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerTicksConcurrently(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTrackerTo(&buf, "Reading", 100)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Tick()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, int(tr.bar.State().CurrentNum))
	tr.FinishSuccess()
}

func TestTrackerFinishError(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTrackerTo(&buf, "Reading", 2)
	tr.Tick()
	tr.FinishError(errors.New("permission denied"))

	assert.Contains(t, buf.String(), "Reading error: permission denied")
}
