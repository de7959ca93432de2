package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LogEntry is one decoded log line kept for the logs screen.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer keeps the most recent log entries in memory. Entries pushed out
// of the ring are appended to a spill file, so the file plus the ring always
// hold the full history. It implements zapcore.WriteSyncer.
type LogBuffer struct {
	mu      sync.Mutex
	ring    []LogEntry
	next    int
	full    bool
	spill   *SafeFileWriter
	logger  *zap.Logger
	total   uint64
	spilled uint64
}

// NewLogBuffer creates a ring of maxSize entries spilling to spillFilePath.
func NewLogBuffer(maxSize int, spillFilePath string, flushInterval time.Duration, logger *zap.Logger) (*LogBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid log buffer size %d", maxSize)
	}
	spill, err := NewSafeFileWriter(spillFilePath, flushInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open spill file: %w", err)
	}

	return &LogBuffer{
		ring:   make([]LogEntry, maxSize),
		spill:  spill,
		logger: logger,
	}, nil
}

// Write decodes zap JSON lines and adds them to the buffer. Lines that are
// not JSON are kept verbatim as the message.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := lb.Add(decodeEntry(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Sync flushes the spill file.
func (lb *LogBuffer) Sync() error {
	return lb.spill.Flush()
}

// Add appends an entry, spilling the oldest one when the ring is full.
func (lb *LogBuffer) Add(entry LogEntry) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if lb.full {
		if err := lb.spillEntry(lb.ring[lb.next]); err != nil {
			return err
		}
		lb.spilled++
	}

	lb.ring[lb.next] = entry
	lb.next = (lb.next + 1) % len(lb.ring)
	if lb.next == 0 {
		lb.full = true
	}
	lb.total++
	return nil
}

func (lb *LogBuffer) spillEntry(entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	return lb.spill.WriteLine(data)
}

// Recent returns up to limit of the newest entries, oldest first.
// A non-positive limit returns everything in memory.
func (lb *LogBuffer) Recent(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	entries := lb.orderedLocked()
	if limit > 0 && limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

func (lb *LogBuffer) orderedLocked() []LogEntry {
	if !lb.full {
		return append([]LogEntry(nil), lb.ring[:lb.next]...)
	}
	out := make([]LogEntry, 0, len(lb.ring))
	out = append(out, lb.ring[lb.next:]...)
	return append(out, lb.ring[:lb.next]...)
}

// GetStats returns the number of entries added and spilled so far.
func (lb *LogBuffer) GetStats() (total, spilled uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.total, lb.spilled
}

// Close writes the entries still in memory to the spill file and closes it.
func (lb *LogBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	for _, entry := range lb.orderedLocked() {
		if err := lb.spillEntry(entry); err != nil {
			lb.logger.Error("Failed to spill entry during close", zap.Error(err))
		}
	}
	return lb.spill.Close()
}

func decodeEntry(line []byte) LogEntry {
	raw := make(map[string]interface{})
	if err := json.Unmarshal(line, &raw); err != nil {
		return LogEntry{Level: "info", Message: string(line)}
	}

	entry := LogEntry{Fields: make(map[string]interface{})}
	for key, value := range raw {
		switch key {
		case "time":
			if s, ok := value.(string); ok {
				entry.Timestamp, _ = time.Parse("2006-01-02T15:04:05.000Z0700", s)
			}
		case "level":
			entry.Level, _ = value.(string)
		case "logger":
			entry.Logger, _ = value.(string)
		case "msg":
			entry.Message, _ = value.(string)
		default:
			entry.Fields[key] = value
		}
	}
	if len(entry.Fields) == 0 {
		entry.Fields = nil
	}
	return entry
}
