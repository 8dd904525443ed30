package classify

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// appendFile is the part of *os.File the sink needs.
type appendFile interface {
	io.Writer
	Sync() error
	Truncate(size int64) error
	Stat() (os.FileInfo, error)
	Close() error
}

type destination struct {
	file appendFile
	// Regular files are synced and rolled back on failure. Pipes, ttys and
	// devices can be neither, so their entries are written once and not synced.
	regular bool
}

// FileSink appends paths to plain text files, one path per line.
// Each destination is opened once in append mode and every entry is written
// with a single write call. A failed append leaves a regular file exactly as
// it was, so a retry records the entry once.
type FileSink struct {
	mu    sync.Mutex
	files map[string]*destination
}

// OpenFileSink opens (creating if needed) every destination for appending.
func OpenFileSink(dests []string) (*FileSink, error) {
	s := &FileSink{files: make(map[string]*destination, len(dests))}
	for _, dest := range dests {
		if _, ok := s.files[dest]; ok {
			continue
		}
		f, err := os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("opening %s: %w", dest, err)
		}
		if err := s.add(dest, f); err != nil {
			f.Close()
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *FileSink) add(dest string, f appendFile) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", dest, err)
	}
	s.files[dest] = &destination{file: f, regular: info.Mode().IsRegular()}
	return nil
}

// Append implements Appender.
func (s *FileSink) Append(dest, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.files[dest]
	if !ok {
		return fmt.Errorf("destination %s not open", dest)
	}

	line := []byte(path + "\n")
	if !d.regular {
		n, err := d.file.Write(line)
		if err == nil && n != len(line) {
			err = io.ErrShortWrite
		}
		return err
	}

	info, err := d.file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", dest, err)
	}
	end := info.Size()

	n, err := d.file.Write(line)
	if err == nil && n != len(line) {
		err = fmt.Errorf("short write to %s: %d of %d bytes", dest, n, len(line))
	}
	if err == nil {
		err = d.file.Sync()
	}
	if err != nil {
		if terr := d.file.Truncate(end); terr != nil {
			return errors.Join(err, fmt.Errorf("rolling back %s: %w", dest, terr))
		}
		return err
	}
	return nil
}

// Close closes every destination.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for dest, d := range s.files {
		if err := d.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", dest, err))
		}
		delete(s.files, dest)
	}
	return errors.Join(errs...)
}
