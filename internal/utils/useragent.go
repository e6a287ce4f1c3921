package utils

import (
	"fmt"
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceSummary builds a short human-readable description of the booking
// client from its User-Agent header, stored on the booking for support
// lookups ("which device did this guest book from"). Returns nil for an
// empty or bot User-Agent.
func DeviceSummary(userAgent string) *string {
	trimmed := strings.TrimSpace(userAgent)
	if trimmed == "" {
		return nil
	}

	parser := ua.New(trimmed)
	if parser.Bot() {
		return nil
	}

	device := "desktop"
	if parser.Mobile() {
		device = "mobile"
	}

	browser, version := parser.Browser()
	os := parser.OSInfo().FullName
	if os == "" {
		os = "unknown OS"
	}

	var summary string
	if browser != "" {
		summary = fmt.Sprintf("%s / %s %s / %s", device, browser, version, os)
	} else {
		summary = fmt.Sprintf("%s / %s", device, os)
	}
	return &summary
}
