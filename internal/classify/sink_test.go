package classify

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestFileSink_ScenarioOnDisk(t *testing.T) {
	dir := t.TempDir()
	w := filepath.Join(dir, "w.txt")
	a := filepath.Join(dir, "a.txt")

	sink, err := OpenFileSink([]string{w, a})
	require.NoError(t, err)
	defer sink.Close()

	d := NewDispatcher([]string{"m1.stl", "m2.stl"}, Bindings{"W": w, "A": a}, sink, 0)

	_, err = d.Classify("W")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1.stl"}, readLines(t, w))

	_, err = d.Classify("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2.stl"}, readLines(t, a))
	assert.True(t, d.Exhausted())
}

func TestFileSink_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.txt")
	require.NoError(t, os.WriteFile(path, []byte("old.stl\n"), 0644))

	sink, err := OpenFileSink([]string{path})
	require.NoError(t, err)
	require.NoError(t, sink.Append(path, "new.stl"))
	require.NoError(t, sink.Close())

	assert.Equal(t, []string{"old.stl", "new.stl"}, readLines(t, path))
}

func TestFileSink_OpenFailure(t *testing.T) {
	_, err := OpenFileSink([]string{filepath.Join(t.TempDir(), "missing", "dir", "w.txt")})
	assert.Error(t, err)
}

func TestFileSink_WriteFailureAfterClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.txt")

	sink, err := OpenFileSink([]string{path})
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	d := NewDispatcher([]string{"m1.stl"}, Bindings{"W": path}, sink, 0)
	_, err = d.Classify("W")
	assert.ErrorIs(t, err, ErrWriteFailure)
	assert.Zero(t, d.Index())
}

func TestFileSink_UnknownDestination(t *testing.T) {
	sink, err := OpenFileSink(nil)
	require.NoError(t, err)
	assert.Error(t, sink.Append("nowhere.txt", "a.stl"))
}

// flakyFile fails Sync or writes only part of the line for the first calls.
type flakyFile struct {
	*os.File
	syncFailures int
	shortWrites  int
}

func (f *flakyFile) Write(p []byte) (int, error) {
	if f.shortWrites > 0 {
		f.shortWrites--
		n, _ := f.File.Write(p[:len(p)/2])
		return n, errors.New("no space left on device")
	}
	return f.File.Write(p)
}

func (f *flakyFile) Sync() error {
	if f.syncFailures > 0 {
		f.syncFailures--
		return errors.New("sync: input/output error")
	}
	return f.File.Sync()
}

func openFlaky(t *testing.T, path string, ff *flakyFile) *FileSink {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("old.stl\n"), 0644))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	ff.File = f

	sink := &FileSink{files: map[string]*destination{}}
	require.NoError(t, sink.add(path, ff))
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestFileSink_FailedAppendRollsBack(t *testing.T) {
	tests := []struct {
		name string
		file *flakyFile
	}{
		{"sync failure", &flakyFile{syncFailures: 2}},
		{"partial write", &flakyFile{shortWrites: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "w.txt")
			sink := openFlaky(t, path, tt.file)
			d := NewDispatcher([]string{"m1.stl", "m2.stl"}, Bindings{"W": path}, sink, 0)

			for i := 0; i < 2; i++ {
				_, err := d.Classify("W")
				require.ErrorIs(t, err, ErrWriteFailure)
				assert.Zero(t, d.Index())
				assert.Equal(t, []string{"old.stl"}, readLines(t, path))
			}

			out, err := d.Classify("W")
			require.NoError(t, err)
			assert.Equal(t, Recorded, out)
			assert.Equal(t, 1, d.Index())
			assert.Equal(t, []string{"old.stl", "m1.stl"}, readLines(t, path))
		})
	}
}
