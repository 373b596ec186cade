package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"camstation/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to per-level files and the console.
type Logger struct {
	sugar  *zap.SugaredLogger
	logDir string
	files  []*os.File
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	l := &Logger{logDir: cfg.LogDirectory}

	consoleEncoderCfg := zap.NewProductionEncoderConfig()
	consoleEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Environment == "development" {
		consoleEncoderCfg = zap.NewDevelopmentEncoderConfig()
		consoleEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	fileEncoderCfg := zap.NewProductionEncoderConfig()
	fileEncoderCfg.TimeKey = "timestamp"
	fileEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderCfg), zapcore.Lock(os.Stdout), level),
	}

	// one file per level, each accepting only its own level (error also takes fatal/panic)
	perLevel := []struct {
		name    string
		enabler zap.LevelEnablerFunc
	}{
		{InfoFile, func(lvl zapcore.Level) bool { return lvl >= level && lvl <= zapcore.InfoLevel }},
		{WarningFile, func(lvl zapcore.Level) bool { return lvl == zapcore.WarnLevel }},
		{ErrorFile, func(lvl zapcore.Level) bool { return lvl >= zapcore.ErrorLevel }},
	}
	for _, pl := range perLevel {
		file, err := l.openLogFile(filepath.Join(l.logDir, pl.name))
		if err != nil {
			l.closeFiles()
			return nil, err
		}
		l.files = append(l.files, file)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderCfg), zapcore.Lock(file), pl.enabler))
	}

	base := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	l.sugar = base.Sugar()
	return l, nil
}

// NewNop returns a Logger that discards everything. Useful in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// openLogFile opens or creates a log file for appending.
func (l *Logger) openLogFile(filename string) (*os.File, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filename, err)
	}
	return file, nil
}

func (l *Logger) closeFiles() {
	for _, f := range l.files {
		f.Close()
	}
	l.files = nil
}

// Debug writes a formatted debug-level log entry (console and info file).
func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Dir returns the directory holding the per-level log files.
func (l *Logger) Dir() string {
	return l.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.logDir == "" {
		return nil
	}
	filePath := filepath.Join(l.logDir, filepath.Base(fileName))
	if err := os.Truncate(filePath, 0); err != nil {
		l.Error("Error truncating log file %s: %v", fileName, err)
		return err
	}

	l.Info("File content has been cleared: %s", fileName)
	return nil
}

// Sync flushes buffered entries and closes the log files.
func (l *Logger) Sync() error {
	err := l.sugar.Sync()
	l.closeFiles()
	return err
}
