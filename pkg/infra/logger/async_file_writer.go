package logger

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	logQueueDepth = 1000
	flushInterval = 2 * time.Second
)

// AsyncFileWriter decouples request handlers from disk. Lines are queued on
// a channel and drained by a background goroutine; a full queue drops the
// line rather than blocking the caller.
type AsyncFileWriter struct {
	mu     sync.Mutex
	out    *bufio.Writer
	file   *os.File
	queue  chan []byte
	closed chan struct{}
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	w := &AsyncFileWriter{
		out:    bufio.NewWriterSize(file, bufferSize),
		file:   file,
		queue:  make(chan []byte, logQueueDepth),
		closed: make(chan struct{}),
	}
	go w.run()

	return w, nil
}

func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	// logrus reuses p after Write returns.
	line := make([]byte, len(p))
	copy(line, p)

	select {
	case w.queue <- line:
		return len(p), nil
	default:
		return 0, nil
	}
}

func (w *AsyncFileWriter) run() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case line := <-w.queue:
			w.mu.Lock()
			_, _ = w.out.Write(line)
			w.mu.Unlock()

		case <-ticker.C:
			w.flush()

		case <-w.closed:
			w.flush()
			return
		}
	}
}

func (w *AsyncFileWriter) flush() {
	w.mu.Lock()
	_ = w.out.Flush()
	w.mu.Unlock()
}

func (w *AsyncFileWriter) Close() {
	close(w.closed)
	w.flush()
	_ = w.file.Close()
}
