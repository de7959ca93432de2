package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 5
	logMaxAgeDays = 28
)

// SafeFileWriter is an append-only line writer with buffering and periodic
// flush. The file is rotated by size; old files are gzipped.
type SafeFileWriter struct {
	mu       sync.Mutex
	writer   *bufio.Writer
	file     *lumberjack.Logger
	ticker   *time.Ticker
	done     chan struct{}
	closed   bool
	logger   *zap.Logger
	filePath string

	writtenLines uint64
	flushCount   uint64
}

// NewSafeFileWriter opens filePath for appending, creating parent directories.
// A non-positive flushInterval disables the background flush.
func NewSafeFileWriter(filePath string, flushInterval time.Duration, logger *zap.Logger) (*SafeFileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}

	sfw := &SafeFileWriter{
		writer:   bufio.NewWriter(file),
		file:     file,
		done:     make(chan struct{}),
		logger:   logger,
		filePath: filePath,
	}

	if flushInterval > 0 {
		sfw.ticker = time.NewTicker(flushInterval)
		go sfw.periodicFlush()
	}

	return sfw, nil
}

// WriteLine writes line followed by a newline.
func (sfw *SafeFileWriter) WriteLine(line []byte) error {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()

	if sfw.closed {
		return fmt.Errorf("write to closed file %s", sfw.filePath)
	}
	if _, err := sfw.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	if err := sfw.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	sfw.writtenLines++
	return nil
}

// Flush writes buffered data to the file.
func (sfw *SafeFileWriter) Flush() error {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()
	return sfw.flushLocked()
}

func (sfw *SafeFileWriter) flushLocked() error {
	if sfw.closed {
		return nil
	}
	if err := sfw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	sfw.flushCount++
	return nil
}

func (sfw *SafeFileWriter) periodicFlush() {
	for {
		select {
		case <-sfw.ticker.C:
			if err := sfw.Flush(); err != nil {
				sfw.logger.Error("Periodic flush failed",
					zap.String("file", sfw.filePath),
					zap.Error(err))
			}
		case <-sfw.done:
			return
		}
	}
}

// Close flushes and closes the file. Closing twice is a no-op.
func (sfw *SafeFileWriter) Close() error {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()

	if sfw.closed {
		return nil
	}
	close(sfw.done)
	if sfw.ticker != nil {
		sfw.ticker.Stop()
	}

	if err := sfw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	sfw.closed = true
	if err := sfw.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// GetStats returns the number of lines written and flushes performed.
func (sfw *SafeFileWriter) GetStats() (lines, flushes uint64) {
	sfw.mu.Lock()
	defer sfw.mu.Unlock()
	return sfw.writtenLines, sfw.flushCount
}
