// Package scrape extracts preview images from public Telegram posts.
// Admins paste a t.me post link when creating a product; the scraper
// pulls the post's Open Graph image to use as the product photo.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/config"
)

var (
	// ErrInvalidURL is returned for links that are not public t.me posts.
	ErrInvalidURL = errors.New("not a valid telegram post URL")

	// ErrNoImage is returned when the post has no usable preview image.
	ErrNoImage = errors.New("no image found in telegram post")
)

// postPattern matches public post links like t.me/channel/123.
var postPattern = regexp.MustCompile(`t\.me/[\w\d_]+/\d+`)

// ogImagePattern extracts the Open Graph image URL from post HTML.
var ogImagePattern = regexp.MustCompile(`<meta property="og:image" content="([^"]+)"`)

// TelegramScraper fetches t.me posts through a CORS-friendly proxy.
type TelegramScraper struct {
	client   *resty.Client
	proxyURL string
	logger   zerolog.Logger
}

// NewTelegramScraper creates a new scraper.
func NewTelegramScraper(cfg config.ScrapeConfig, logger zerolog.Logger) *TelegramScraper {
	client := resty.New().SetTimeout(cfg.Timeout)

	return &TelegramScraper{
		client:   client,
		proxyURL: cfg.ProxyURL,
		logger:   logger.With().Str("service", "scrape").Logger(),
	}
}

// ExtractImage returns the Open Graph image URL of a public post.
// The Telegram logo and generic twitter card placeholders do not count
// as post images.
func (s *TelegramScraper) ExtractImage(ctx context.Context, postURL string) (string, error) {
	if !postPattern.MatchString(postURL) {
		return "", ErrInvalidURL
	}

	target := fmt.Sprintf(s.proxyURL, url.QueryEscape(postURL))

	resp, err := s.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return "", fmt.Errorf("failed to fetch telegram post: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("telegram post fetch returned status %d", resp.StatusCode())
	}

	match := ogImagePattern.FindStringSubmatch(string(resp.Body()))
	if len(match) < 2 {
		return "", ErrNoImage
	}

	imageURL := match[1]
	if strings.Contains(imageURL, "telegram.org/img/t_logo") || strings.Contains(imageURL, "twitter_card") {
		return "", ErrNoImage
	}

	return imageURL, nil
}
