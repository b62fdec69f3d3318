// Copyright (c) 2025 BVK Chaitanya

// Package logdir writes logs into a directory as a series of
// size-capped files, so that a long-lived data directory never fills
// up with one unbounded log.
package logdir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// FileNameReuseInterval is how long a fresh Backend keeps appending
	// to an existing file instead of starting a new one. Repeated short
	// invocations (the pricer runs as a batch command) share one file
	// per interval instead of leaving a file per run.
	FileNameReuseInterval = time.Hour

	// FileNameTimeLocation is the timezone for the timestamp embedded
	// in log file names.
	FileNameTimeLocation = time.UTC

	// FileSizeLimitMB caps the size of a single log file.
	FileSizeLimitMB int64 = 100

	// FileMode is the permissions value for created log files.
	FileMode = os.FileMode(0600)
)

// Backend is an io.Writer that appends to the current log file and
// rolls over to a new file when the size cap is reached.
type Backend struct {
	fp *os.File

	size int64

	dirname, logname string
}

func New(dirname, logname string) (*Backend, error) {
	fp, size, err := openFile(dirname, logname, FileNameReuseInterval)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	b := &Backend{
		fp:      fp,
		size:    size,
		dirname: dirname,
		logname: logname,
	}
	return b, nil
}

func (b *Backend) Close() {
	b.fp.Close()
	b.fp = nil
}

func limitBytes() int64 {
	return FileSizeLimitMB * 1024 * 1024
}

// fileName builds "{logname}-{timestamp}.log". Truncating the
// timestamp makes runs within the reuse interval resolve to the same
// name.
func fileName(logname string, at time.Time, truncate time.Duration) string {
	at = at.In(FileNameTimeLocation)
	if truncate != 0 {
		at = at.Truncate(truncate)
	}
	uniq := fmt.Sprintf("%d%02d%02d-%02d%02d%02d.%09d", at.Year(), at.Month(), at.Day(), at.Hour(), at.Minute(), at.Second(), at.Nanosecond())
	return fmt.Sprintf("%s-%s.log", logname, uniq)
}

func openFile(dirname, logname string, truncate time.Duration) (*os.File, int64, error) {
	filename := fileName(logname, time.Now(), truncate)
	fp, err := os.OpenFile(filepath.Join(dirname, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, FileMode)
	if err != nil {
		return nil, -1, fmt.Errorf("could not open/create log file: %w", err)
	}
	finfo, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, -1, fmt.Errorf("could not get file size: %w", err)
	}
	size := finfo.Size()
	if size >= limitBytes() {
		// The reused file is already full; retry with an untruncated
		// timestamp, which is always a new name.
		fp.Close()
		return openFile(dirname, logname, 0)
	}
	return fp, size, nil
}

func (b *Backend) Write(data []byte) (int, error) {
	if b.size+int64(len(data)) > limitBytes() {
		fp, size, err := openFile(b.dirname, b.logname, FileNameReuseInterval)
		if err != nil {
			return 0, fmt.Errorf("could not open new log file: %w", err)
		}
		b.fp.Close()
		b.fp, b.size = fp, size
	}
	n, err := b.fp.Write(data)
	b.size += int64(n)
	return n, err
}
