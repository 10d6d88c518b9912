// Package notify carries transient user-facing messages ("toasts") from the
// API client and views to whatever surface is showing them.
package notify

import (
	"fmt"
	"io"
	"sync"

	"freeswitch-admin-console/internal/logger"
)

// Level of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelLoading Level = "loading"
	// LevelDestroy marks the removal of a keyed message in a Recorder log.
	LevelDestroy Level = "destroy"
)

// Notifier shows transient messages to the user
type Notifier interface {
	Success(content string)
	Error(content string)
	Warning(content string)
	Info(content string)
	// Loading shows a message that stays until Destroy is called with the same key.
	Loading(content, key string)
	Destroy(key string)
}

// Message is one recorded notification event
type Message struct {
	Level   Level  `json:"level"`
	Content string `json:"content"`
	Key     string `json:"key,omitempty"`
}

// Recorder keeps every notification in order. It backs the web console pages
// and tests.
type Recorder struct {
	mu     sync.Mutex
	events []Message
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, m)
}

func (r *Recorder) Success(content string) { r.add(Message{Level: LevelSuccess, Content: content}) }
func (r *Recorder) Error(content string)   { r.add(Message{Level: LevelError, Content: content}) }
func (r *Recorder) Warning(content string) { r.add(Message{Level: LevelWarning, Content: content}) }
func (r *Recorder) Info(content string)    { r.add(Message{Level: LevelInfo, Content: content}) }

func (r *Recorder) Loading(content, key string) {
	r.add(Message{Level: LevelLoading, Content: content, Key: key})
}

func (r *Recorder) Destroy(key string) {
	r.add(Message{Level: LevelDestroy, Key: key})
}

// Events returns a copy of the full event log
func (r *Recorder) Events() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.events))
	copy(out, r.events)
	return out
}

// Messages returns the non-loading messages in the order they were shown
func (r *Recorder) Messages() []Message {
	var out []Message
	for _, m := range r.Events() {
		if m.Level == LevelLoading || m.Level == LevelDestroy {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Active returns loading messages that have not been destroyed yet
func (r *Recorder) Active() []Message {
	var active []Message
	for _, m := range r.Events() {
		switch m.Level {
		case LevelLoading:
			active = append(active, m)
		case LevelDestroy:
			kept := active[:0]
			for _, a := range active {
				if a.Key != m.Key {
					kept = append(kept, a)
				}
			}
			active = kept
		}
	}
	return active
}

// Count returns how many events of level were recorded
func (r *Recorder) Count(level Level) int {
	n := 0
	for _, m := range r.Events() {
		if m.Level == level {
			n++
		}
	}
	return n
}

// LogNotifier writes notifications to the structured log. It is the fallback
// when no interactive surface is attached.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.New()
	}
	return &LogNotifier{log: log.WithField("component", "notify")}
}

func (n *LogNotifier) Success(content string) { n.log.Infof("Success: %s", content) }
func (n *LogNotifier) Error(content string)   { n.log.Errorf("Error: %s", content) }
func (n *LogNotifier) Warning(content string) { n.log.Warnf("Warning: %s", content) }
func (n *LogNotifier) Info(content string)    { n.log.Infof("Info: %s", content) }
func (n *LogNotifier) Loading(content, key string) {
	n.log.WithField("key", key).Debugf("Loading: %s", content)
}
func (n *LogNotifier) Destroy(key string) {}

// Writer prints notifications to a terminal
type Writer struct {
	out io.Writer
	// ShowLoading also prints loading messages
	ShowLoading bool
}

// NewWriter creates a Writer printing to out
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Success(content string) { fmt.Fprintf(w.out, "OK    %s\n", content) }
func (w *Writer) Error(content string)   { fmt.Fprintf(w.out, "ERROR %s\n", content) }
func (w *Writer) Warning(content string) { fmt.Fprintf(w.out, "WARN  %s\n", content) }
func (w *Writer) Info(content string)    { fmt.Fprintf(w.out, "INFO  %s\n", content) }

func (w *Writer) Loading(content, key string) {
	if w.ShowLoading {
		fmt.Fprintf(w.out, "...   %s\n", content)
	}
}

func (w *Writer) Destroy(key string) {}

// Multi fans every notification out to several notifiers
type Multi []Notifier

func (m Multi) Success(content string) {
	for _, n := range m {
		n.Success(content)
	}
}

func (m Multi) Error(content string) {
	for _, n := range m {
		n.Error(content)
	}
}

func (m Multi) Warning(content string) {
	for _, n := range m {
		n.Warning(content)
	}
}

func (m Multi) Info(content string) {
	for _, n := range m {
		n.Info(content)
	}
}

func (m Multi) Loading(content, key string) {
	for _, n := range m {
		n.Loading(content, key)
	}
}

func (m Multi) Destroy(key string) {
	for _, n := range m {
		n.Destroy(key)
	}
}
