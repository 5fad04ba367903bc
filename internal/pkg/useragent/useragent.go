// Package useragent derives coarse browser and OS names from a raw
// User-Agent header. The matching is intentionally crude; the result is
// recorded on user records for the admin console, not used for content
// negotiation.
package useragent

import "strings"

// Info is the parsed view of a User-Agent string.
type Info struct {
	// Browser is the detected browser name, or "Unknown".
	Browser string

	// OS is the detected operating system name, or "Unknown".
	OS string

	// Device is the raw User-Agent string.
	Device string
}

// Parse inspects a User-Agent string and returns the browser, OS and
// raw device strings. Order matters: Chrome ships a Safari token, Edge
// ships a Chrome token, so the more specific names are checked first.
func Parse(ua string) Info {
	info := Info{Browser: "Unknown", OS: "Unknown", Device: ua}

	switch {
	case strings.Contains(ua, "Firefox"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "SamsungBrowser"):
		info.Browser = "Samsung Internet"
	case strings.Contains(ua, "Opera") || strings.Contains(ua, "OPR"):
		info.Browser = "Opera"
	case strings.Contains(ua, "Trident"):
		info.Browser = "Internet Explorer"
	case strings.Contains(ua, "Edge"):
		info.Browser = "Edge"
	case strings.Contains(ua, "Chrome"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "Safari"):
		info.Browser = "Safari"
	}

	switch {
	case strings.Contains(ua, "Win"):
		info.OS = "Windows"
	case strings.Contains(ua, "like Mac"):
		info.OS = "iOS"
	case strings.Contains(ua, "Mac"):
		info.OS = "MacOS"
	case strings.Contains(ua, "Android"):
		info.OS = "Android"
	case strings.Contains(ua, "Linux"):
		info.OS = "Linux"
	}

	return info
}
