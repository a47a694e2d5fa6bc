package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger for debug messages
var (
	isVerbose = false
	logFile   *os.File
	logMu     sync.Mutex
)

// Log prints debug messages to the log file if verbose mode is enabled
func Log(text string, args ...interface{}) {
	logMu.Lock()
	defer logMu.Unlock()

	if isVerbose && logFile != nil {
		stamp := time.Now().Format("15:04:05")
		fmt.Fprintf(logFile, stamp+" "+text+"\n", args...)
	}
}

// InitLogger initializes the logging system. An empty dir uses the system
// temp directory.
func InitLogger(verbose bool, dir string) {
	logMu.Lock()
	isVerbose = verbose
	logMu.Unlock()

	if !verbose {
		return
	}

	if dir == "" {
		dir = os.TempDir()
	}

	// Create log filename with current date
	now := time.Now()
	logFileName := filepath.Join(dir, fmt.Sprintf("taskdesk_%s.log", now.Format("2006-01-02")))

	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log file: %v\n", err)
		return
	}

	logMu.Lock()
	logFile = f
	logMu.Unlock()

	Log("Verbose logging enabled")
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
