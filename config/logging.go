package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const defaultLogFile = "logs/agency-api.log"

// LogWriter receives application, gin and gorm logs.
var LogWriter io.Writer = os.Stdout

// LogFilePath is LOG_FILE, or logs/agency-api.log relative to the working
// directory.
func LogFilePath() string {
	if Current != nil && Current.LogFile != "" {
		return Current.LogFile
	}
	return filepath.FromSlash(defaultLogFile)
}

// InitLogging tees the standard logger into the log file. When the file
// cannot be opened logging stays on stdout and the returned file is nil.
func InitLogging() (*os.File, io.Writer) {
	path := LogFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("Warning: cannot create log directory for %s: %v", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: cannot open log file %s, logging to stdout only: %v", path, err)
		LogWriter = os.Stdout
	} else {
		LogWriter = io.MultiWriter(os.Stdout, f)
	}
	log.SetOutput(LogWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f, LogWriter
}
