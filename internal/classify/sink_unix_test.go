//go:build unix

package classify

import (
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_FIFODestination(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "w.fifo")
	require.NoError(t, syscall.Mkfifo(fifo, 0644))

	received := make(chan string, 1)
	go func() {
		r, err := os.Open(fifo)
		if err != nil {
			received <- "open: " + err.Error()
			return
		}
		defer r.Close()
		data, _ := io.ReadAll(r)
		received <- string(data)
	}()

	// Opening the write end blocks until the reader is there.
	sink, err := OpenFileSink([]string{fifo})
	require.NoError(t, err)

	d := NewDispatcher([]string{"m1.stl", "m2.stl"}, Bindings{"W": fifo}, sink, 0)
	out, err := d.Classify("W")
	require.NoError(t, err)
	assert.Equal(t, Recorded, out)
	assert.Equal(t, 1, d.Index())

	require.NoError(t, sink.Close())
	assert.Equal(t, "m1.stl\n", <-received)
}
