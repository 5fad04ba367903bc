package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/config"
)

func newTestScraper(t *testing.T, handler http.HandlerFunc) *TelegramScraper {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewTelegramScraper(config.ScrapeConfig{
		ProxyURL: server.URL + "/raw?url=%s",
		Timeout:  time.Second,
	}, zerolog.Nop())
}

func TestExtractImage(t *testing.T) {
	const imageURL = "https://cdn.example.com/post-photo.jpg"
	var gotTarget string
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("url")
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="FAZAN.CLOUD">
			<meta property="og:image" content="` + imageURL + `">
		</head></html>`))
	})

	got, err := scraper.ExtractImage(context.Background(), "https://t.me/fazancloud/42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != imageURL {
		t.Errorf("got %q, want %q", got, imageURL)
	}
	if gotTarget != "https://t.me/fazancloud/42" {
		t.Errorf("post URL must pass through the proxy query, got %q", gotTarget)
	}
}

func TestExtractImage_InvalidURL(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid URLs must be rejected before any fetch")
	})

	for _, link := range []string{
		"https://example.com/post/1",
		"https://t.me/channelonly",
		"not a url",
		"",
	} {
		if _, err := scraper.ExtractImage(context.Background(), link); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("link %q: expected ErrInvalidURL, got %v", link, err)
		}
	}
}

func TestExtractImage_NoImage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no og:image tag", `<html><head><title>post</title></head></html>`},
		{"telegram logo placeholder", `<meta property="og:image" content="https://telegram.org/img/t_logo.png">`},
		{"twitter card placeholder", `<meta property="og:image" content="https://cdn.example.com/twitter_card_post.png">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			if _, err := scraper.ExtractImage(context.Background(), "https://t.me/fazancloud/42"); !errors.Is(err, ErrNoImage) {
				t.Fatalf("expected ErrNoImage, got %v", err)
			}
		})
	}
}

func TestExtractImage_ProxyFailure(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := scraper.ExtractImage(context.Background(), "https://t.me/fazancloud/42")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
