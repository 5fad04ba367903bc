package useragent

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		ua          string
		wantBrowser string
		wantOS      string
	}{
		{
			name:        "chrome on windows",
			ua:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantBrowser: "Chrome",
			wantOS:      "Windows",
		},
		{
			name:        "firefox on linux",
			ua:          "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantBrowser: "Firefox",
			wantOS:      "Linux",
		},
		{
			name:        "safari on ios",
			ua:          "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
			wantBrowser: "Safari",
			wantOS:      "iOS",
		},
		{
			name:        "chrome on android",
			ua:          "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			wantBrowser: "Chrome",
			wantOS:      "Android",
		},
		{
			name:        "edge beats its chrome token",
			ua:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edge/120.0.0.0",
			wantBrowser: "Edge",
			wantOS:      "Windows",
		},
		{
			name:        "samsung internet",
			ua:          "Mozilla/5.0 (Linux; Android 13; SM-S918B) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/23.0 Chrome/115.0.0.0 Mobile Safari/537.36",
			wantBrowser: "Samsung Internet",
			wantOS:      "Android",
		},
		{
			name:        "opera via opr token",
			ua:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0",
			wantBrowser: "Opera",
			wantOS:      "Windows",
		},
		{
			name:        "safari on mac",
			ua:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
			wantBrowser: "Safari",
			wantOS:      "MacOS",
		},
		{
			name:        "internet explorer",
			ua:          "Mozilla/5.0 (Windows NT 10.0; WOW64; Trident/7.0; rv:11.0) like Gecko",
			wantBrowser: "Internet Explorer",
			wantOS:      "Windows",
		},
		{
			name:        "empty",
			ua:          "",
			wantBrowser: "Unknown",
			wantOS:      "Unknown",
		},
		{
			name:        "curl",
			ua:          "curl/8.4.0",
			wantBrowser: "Unknown",
			wantOS:      "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Parse(tt.ua)
			if info.Browser != tt.wantBrowser {
				t.Errorf("browser = %q, want %q", info.Browser, tt.wantBrowser)
			}
			if info.OS != tt.wantOS {
				t.Errorf("os = %q, want %q", info.OS, tt.wantOS)
			}
			if info.Device != tt.ua {
				t.Errorf("device must keep the raw string, got %q", info.Device)
			}
		})
	}
}
