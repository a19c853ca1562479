// Package logrotate redirects the logs output to rotated files
package logrotate

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type logrotator struct {
	lock   sync.Mutex
	file   *lumberjack.Logger
	closed bool
}

// Initialize creates a lumberjack log rotator and redirects logs output to it.
// maxAge is the number of days to retain old files, maxSize is in megabytes.
// If extraSink is provided, the logs are written to it as well.
// Call Close on the returned closer before exiting the process,
// the logs output is restored to stderr.
func Initialize(logFolder, baseFilename string, maxAge, maxSize int, extraSink io.Writer) (io.Closer, error) {
	err := os.MkdirAll(logFolder, 0755)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	l := &logrotator{
		file: &lumberjack.Logger{
			Filename: filepath.Join(logFolder, baseFilename+".log"),
			MaxAge:   maxAge,
			MaxSize:  maxSize,
		},
	}

	var out io.Writer = l.file
	if extraSink != nil {
		out = io.MultiWriter(l.file, extraSink)
	}
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(out, false))

	return l, nil
}

// Close restores the output and closes the current log file
func (l *logrotator) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.closed {
		return errors.New("already closed")
	}
	l.closed = true

	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	return errors.WithStack(l.file.Close())
}
