package logger

import (
	"encoding/json"
	"sync"
)

const recentLogLimit = 500

// Broadcaster fans a message out to the connected UI clients. The websocket
// hub satisfies this; the log feed ignores send errors since the console and
// file writers remain authoritative.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// LogEntry is one log event as the UI consumes it.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LogFeed is the writer leg of the logger that serves the web UI. Every
// zerolog event lands here as one JSON line; the feed keeps a bounded window
// of recent entries for the log pane and pushes each new entry to the hub as
// a "logs:entry" message.
type LogFeed struct {
	recent *ring[LogEntry]

	mu  sync.RWMutex
	hub Broadcaster
}

// NewLogFeed creates a feed retaining up to limit entries; zero or negative
// means the default window.
func NewLogFeed(limit int) *LogFeed {
	if limit <= 0 {
		limit = recentLogLimit
	}
	return &LogFeed{recent: newRing[LogEntry](limit)}
}

// SetHub attaches the websocket hub. Entries written before the hub exists
// stay in the window and reach the UI through Recent.
func (f *LogFeed) SetHub(hub Broadcaster) {
	f.mu.Lock()
	f.hub = hub
	f.mu.Unlock()
}

// Write implements io.Writer for the zerolog pipeline. Lines that are not
// JSON are dropped here and carried by the other writers.
func (f *LogFeed) Write(p []byte) (int, error) {
	entry, ok := parseEntry(p)
	if !ok {
		return len(p), nil
	}

	f.recent.push(entry)

	f.mu.RLock()
	hub := f.hub
	f.mu.RUnlock()
	if hub != nil {
		_ = hub.Broadcast("logs:entry", entry)
	}
	return len(p), nil
}

// Recent returns the retained entries, oldest first.
func (f *LogFeed) Recent() []LogEntry {
	return f.recent.snapshot()
}

// parseEntry splits one zerolog JSON line into the UI shape: the well-known
// keys become fields of the entry, everything else lands in Fields.
func parseEntry(line []byte) (LogEntry, bool) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return LogEntry{}, false
	}

	entry := LogEntry{Fields: map[string]any{}}
	for k, v := range raw {
		switch k {
		case "time":
			entry.Timestamp, _ = v.(string)
		case "level":
			entry.Level, _ = v.(string)
		case "component":
			entry.Component, _ = v.(string)
		case "message":
			entry.Message, _ = v.(string)
		default:
			entry.Fields[k] = v
		}
	}
	return entry, true
}
