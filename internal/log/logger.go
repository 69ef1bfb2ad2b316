// Package log provides the application logger: console output plus an
// append-only log file in JSON or text form.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	logJSON bool
	logText bool
}

func New(logFilePath string, logJSON, logText bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{
		console: os.Stdout,
		file:    file,
		logJSON: logJSON,
		logText: logText,
	}, nil
}

// Discard returns a logger that writes nowhere. Useful for tests and for
// components that treat logging as optional.
func Discard() *Logger {
	return &Logger{console: io.Discard}
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type LogEntry struct {
	Timestamp time.Time        `json:"timestamp"`
	Level     string           `json:"level"`
	Message   string           `json:"message"`
	Source    string           `json:"source,omitempty"`
	Dest      string           `json:"dest,omitempty"`
	Action    types.CopyAction `json:"action,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func (l *Logger) Info(msg string) {
	l.log(LogEntry{Timestamp: time.Now(), Level: "INFO", Message: msg})
}

func (l *Logger) Warn(msg string) {
	l.log(LogEntry{Timestamp: time.Now(), Level: "WARN", Message: msg})
}

func (l *Logger) Error(msg string, err error) {
	entry := LogEntry{Timestamp: time.Now(), Level: "ERROR", Message: msg}
	if err != nil {
		entry.Error = err.Error()
	}
	l.log(entry)
}

// LogCopy records one per-file copy outcome.
func (l *Logger) LogCopy(source, dest string, action types.CopyAction, err error) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   fmt.Sprintf("%s: %s -> %s", action, filepath.Base(source), dest),
		Source:    source,
		Dest:      dest,
		Action:    action,
	}
	if err != nil {
		entry.Level = "ERROR"
		entry.Error = err.Error()
	}
	l.log(entry)
}

func (l *Logger) log(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	if l.logJSON {
		data, _ := json.Marshal(entry)
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}

	if l.logText {
		line := fmt.Sprintf("[%s] %s %s",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.Message,
		)
		if entry.Error != "" {
			line += " - Error: " + entry.Error
		}
		l.file.WriteString(line + "\n")
	}
}

// Progress writes an in-place console progress line.
func (l *Logger) Progress(current, total int, filename string) {
	fmt.Fprintf(l.console, "\r[%d/%d] %s", current, total, filename)
}

// CopySummary prints the end-of-run copy summary to the console.
func (l *Logger) CopySummary(result types.CopyResult) {
	fmt.Fprintln(l.console, "\n=== FotoFusion Copy Summary ===")
	fmt.Fprintf(l.console, "Total photos:   %d\n", result.TotalItems)
	fmt.Fprintf(l.console, "Included:       %d\n", result.IncludedItems)
	fmt.Fprintf(l.console, "Excluded:       %d\n", result.ExcludedItems)
	fmt.Fprintf(l.console, "Copied:         %d\n", result.Succeeded)
	fmt.Fprintf(l.console, "Skipped:        %d\n", result.SkippedExists)
	fmt.Fprintf(l.console, "Failed:         %d\n", result.Failed)
	fmt.Fprintf(l.console, "Folders:        %d\n", result.FoldersCopied)
	fmt.Fprintf(l.console, "Duration:       %s\n", result.EndTime.Sub(result.StartTime).Round(time.Second))
	fmt.Fprintln(l.console, "===============================")
}

// VerifySummary prints the end-of-run verification summary to the console.
func (l *Logger) VerifySummary(result types.VerificationResult) {
	fmt.Fprintln(l.console, "\n=== FotoFusion Verify Summary ===")
	fmt.Fprintf(l.console, "Verified:       %d\n", result.Verified)
	fmt.Fprintf(l.console, "Failed:         %d\n", result.Failed)
	fmt.Fprintf(l.console, "Missing:        %d\n", result.Missing)
	fmt.Fprintf(l.console, "Size match:     %d\n", result.SizeMatch)
	fmt.Fprintf(l.console, "Size mismatch:  %d\n", result.SizeMismatch)
	fmt.Fprintf(l.console, "Hash match:     %d\n", result.HashMatch)
	fmt.Fprintf(l.console, "Hash mismatch:  %d\n", result.HashMismatch)
	fmt.Fprintf(l.console, "Duration:       %s\n", result.EndTime.Sub(result.StartTime).Round(time.Second))
	fmt.Fprintln(l.console, "=================================")
}
