package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/lintgate/internal/models"
)

// FileLogger logs gate runs to files in a log directory.
// Each run gets a timestamped run-YYYYMMDD-HHMMSS.log file, and latest.log
// is a symlink to the most recent one.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLoggerWithDir creates a new FileLogger with level "info".
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a new FileLogger writing into logDir.
// It creates the directory if needed, opens the run log and repoints latest.log.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== lintgate Run Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// RunFile returns the path of the current run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	formatted := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message)
	fl.writeRunLog(formatted)
}

// LogOutcome writes the run summary, the file set and the captured linter
// output. It is written regardless of level: the run log exists to hold it.
func (fl *FileLogger) LogOutcome(outcome *models.Outcome) {
	if outcome == nil {
		return
	}

	ts := time.Now().Format("15:04:05")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n[%s] === RUN SUMMARY ===\n", ts))
	sb.WriteString(fmt.Sprintf("[%s] Run ID:     %s\n", ts, outcome.RunID))
	sb.WriteString(fmt.Sprintf("[%s] Roots:      %s\n", ts, strings.Join(outcome.Roots, ", ")))
	sb.WriteString(fmt.Sprintf("[%s] Files:      %d\n", ts, len(outcome.Files)))
	if outcome.Invoked {
		sb.WriteString(fmt.Sprintf("[%s] Command:    %s %s\n", ts, outcome.Linter, strings.Join(flagArgs(outcome.Args), " ")))
	}
	sb.WriteString(fmt.Sprintf("[%s] Findings:   %d\n", ts, len(outcome.Findings)))
	sb.WriteString(fmt.Sprintf("[%s] Exit code:  %d\n", ts, outcome.ExitCode))
	sb.WriteString(fmt.Sprintf("[%s] Total time: %.1fs\n", ts, outcome.Duration.Seconds()))
	sb.WriteString(fmt.Sprintf("[%s] Status:     %s\n", ts, outcome.Status()))
	if outcome.Error != "" {
		sb.WriteString(fmt.Sprintf("[%s] Error:      %s\n", ts, outcome.Error))
	}

	if len(outcome.Files) > 0 {
		sb.WriteString("\n=== Files ===\n")
		for _, f := range outcome.Files {
			sb.WriteString(f)
			sb.WriteString("\n")
		}
	}

	if outcome.Output != "" {
		sb.WriteString("\n=== Linter Output ===\n")
		sb.WriteString(outcome.Output)
		if !strings.HasSuffix(outcome.Output, "\n") {
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nCompleted at: %s\n", time.Now().Format(time.RFC3339)))

	fl.writeRunLog(sb.String())
}

// flagArgs drops the file operands, keeping only leading flags.
func flagArgs(args []string) []string {
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			return args[:i]
		}
	}
	return args
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
