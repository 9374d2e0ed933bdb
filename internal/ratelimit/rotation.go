package ratelimit

import "math/rand"

// UserAgents is a fixed pool of modern desktop browser strings rotated across
// outbound requests, grounded on linkedin_guest_api.py's USER_AGENTS.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// Viewport is a common desktop screen size used by the browser validator (C6).
type Viewport struct {
	Width  int
	Height int
}

// Viewports is a small pool of common desktop sizes.
var Viewports = []Viewport{
	{Width: 1920, Height: 1080},
	{Width: 1536, Height: 864},
	{Width: 1440, Height: 900},
	{Width: 1366, Height: 768},
}

// RandomUserAgent draws uniformly from the user-agent pool.
func RandomUserAgent() string {
	return UserAgents[rand.Intn(len(UserAgents))]
}

// RandomViewport draws uniformly from the viewport pool.
func RandomViewport() Viewport {
	return Viewports[rand.Intn(len(Viewports))]
}

// BrowserHeaders builds a desktop-browser-like header set for an outbound
// fetch, grounded on linkedin_guest_api.py's _get_headers.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":                RandomUserAgent(),
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Accept-Encoding":           "gzip, deflate, br",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Cache-Control":             "max-age=0",
	}
}
