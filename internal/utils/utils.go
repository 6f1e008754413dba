package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

func SetLogLevel(level string) {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		log.Fatal("Bad error level string")
	}
}

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetIDFromURL extracts the document ID from a Google Sheets URL.
func SpreadsheetIDFromURL(url string) (string, error) {
	m := spreadsheetIDRe.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("bad Google Sheet URL: %s", url)
	}
	return m[1], nil
}

// Normalize lowercases and trims a string for loose lookups.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
