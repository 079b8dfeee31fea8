package main

import (
	"io"
	"log"
	"os"
)

// defaultLogFile keeps only the current run: it is truncated at startup.
const defaultLogFile = "reach_monitor.log"

// setupLogging mirrors all log output to the log file alongside the console.
// A file that cannot be opened degrades to console-only logging.
func setupLogging(filename string) {
	log.SetFlags(log.LstdFlags)

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		log.Printf("⚠️  Cannot open log file %s, logging to console only: %v", filename, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
}
