// Package ai provides the Gemini gateway for FAZAN.CLOUD.
//
// Every operation degrades instead of failing: when the API key is
// missing, the request errors out or the model returns nothing, the
// caller gets a fixed user-facing string (or an empty match) and the
// real error goes to the log. The storefront never surfaces transport
// errors to shoppers.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/config"
	"github.com/narama3535-tech/fazancloud/internal/domain"
)

// Fallback texts returned when generation fails or comes back empty.
const (
	reportEmptyText  = "Система не может сформировать отчет. Данные повреждены."
	reportErrorText  = "Ошибка соединения с ядром AI (Проверьте API Key)."
	dossierEmptyText = "Данные недоступны."
	dossierErrorText = "Ошибка анализа профиля."
	adviceEmptyText  = "Сорри, что-то я задумался. Спроси еще раз?"
	adviceErrorText  = "Бро, связь с космосом прервалась. Попробуй позже."
)

// maxReportLogs bounds how many recent log lines go into the report prompt.
const maxReportLogs = 50

// Gateway calls the Gemini generateContent API.
type Gateway struct {
	client *resty.Client
	cfg    config.AIConfig
	logger zerolog.Logger
}

// NewGateway creates a new Gemini gateway.
func NewGateway(cfg config.AIConfig, logger zerolog.Logger) *Gateway {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Gateway{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("service", "ai").Logger(),
	}
}

// Request/response shapes for the generateContent endpoint.

type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// text concatenates the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// generate performs one generateContent call and returns the model text.
func (g *Gateway) generate(ctx context.Context, req generateRequest) (string, error) {
	if g.cfg.APIKey == "" {
		return "", fmt.Errorf("ai gateway disabled: no API key configured")
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.cfg.APIKey).
		SetBody(&req).
		Post("/v1beta/models/" + g.cfg.Model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode(), resp.String())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	return gr.text(), nil
}

// AdminReport analyzes system logs and user data for the owner console.
func (g *Gateway) AdminReport(ctx context.Context, query string, logs []*domain.LogEntry, users []*domain.User) string {
	recent := logs
	if len(recent) > maxReportLogs {
		recent = recent[:maxReportLogs]
	}
	var logLines strings.Builder
	for _, l := range recent {
		fmt.Fprintf(&logLines, "[%s] %s (%s)\n", l.Type, l.Message, l.Username)
	}

	admins := 0
	for _, u := range users {
		if u.Role == domain.RoleAdmin {
			admins++
		}
	}
	userStats := fmt.Sprintf("Total Users: %d. Admins: %d.", len(users), admins)

	prompt := fmt.Sprintf(`You are "Fazan OS", a high-tech security and business AI for the "FAZAN.CLOUD" vape shop system.
You are talking to the OWNER. Be precise, analytical, and slightly cyber-punk/military style.

Context Data:
%s

Recent System Logs (Last 50):
%s

Owner's Question: "%s"

Task:
Analyze the data. Identify security threats, sales opportunities, or system anomalies.
If the owner asks to generate a report, format it with bullet points.
If there are multiple failed logins from one user, flag it as a threat.`, userStats, logLines.String(), query)

	text, err := g.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		g.logger.Error().Err(err).Msg("admin report generation failed")
		return reportErrorText
	}
	if text == "" {
		return reportEmptyText
	}
	return text
}

// UserDossier builds a behavioral profile of one user for the owner console.
func (g *Gateway) UserDossier(ctx context.Context, user *domain.User) string {
	behavior := "No recorded behavior."
	if len(user.BehaviorLog) > 0 {
		var b strings.Builder
		for _, entry := range user.BehaviorLog {
			target := entry.Target
			if target == "" {
				target = "N/A"
			}
			fmt.Fprintf(&b, "[%s] Action: %s, Target: %s\n",
				time.UnixMilli(entry.Timestamp).Format("15:04:05"), entry.Action, target)
		}
		behavior = b.String()
	}

	prompt := fmt.Sprintf(`ACT AS "FAZAN WATCHDOG", A SURVEILLANCE AI.

TARGET SUBJECT: %s
ROLE: %s
LOCATION: %s
DEVICE: %s

BEHAVIOR LOGS:
%s

TASK:
Generate a concise psychological and commercial profile of this user for the shop owner.

INCLUDE:
1. **Buying Potential**: (0-100%%)
2. **Psychotype**: (e.g., "Window Shopper", "Competitor Spy", "Whale", "Impulsive")
3. **Interests**: Based on viewed products or searches.
4. **Threat Assessment**: Is this user trying to hack or spam?

STYLE:
Military/Cyberpunk dossier.`, user.Username, user.Role, user.Location, user.Device, behavior)

	text, err := g.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		g.logger.Error().Err(err).Str("username", user.Username).Msg("user dossier generation failed")
		return dossierErrorText
	}
	if text == "" {
		return dossierEmptyText
	}
	return text
}

// Advice answers a shopper's question as the storefront sales assistant.
// The request carries the googleSearch tool so the model can ground
// answers about devices not in the catalog.
func (g *Gateway) Advice(ctx context.Context, query string, products []*domain.Product) string {
	var catalog strings.Builder
	for _, p := range products {
		fmt.Fprintf(&catalog, "- %s (%s): Desc: %s. In Stock: %t\n", p.Name, p.Category, p.Description, p.InStock)
	}

	prompt := fmt.Sprintf(`System Instruction:
You are "Fazan", a cool, knowledgeable, and human-like sales assistant at the "FAZAN.CLOUD" premium vape shop.

Personality:
- You speak Russian.
- You are casual but professional ("ты" or "вы" depending on context, but polite).
- You use emojis occasionally to keep the vibe friendly.
- You DO NOT sound like a robot. You sound like a guy who knows everything about vaping.

Capabilities:
- You have access to Google Search to find real-time info about vaping trends, news, or specific device specs if not in the catalog.
- You have access to the SHOP CATALOG below.

Catalog Context:
%s

User Query: "%s"

Rules:
1. Prioritize selling items from the Catalog Context.
2. If the user asks to "google" something or for general info, use the googleSearch tool.
3. If the user asks about non-vaping topics (politics, math), jokingly refuse: "Бро, я тут только по пару. Давай про жижки?"
4. STRICTLY 18+. Never recommend to minors.`, catalog.String(), query)

	text, err := g.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Tools:    []tool{{GoogleSearch: &struct{}{}}},
	})
	if err != nil {
		g.logger.Error().Err(err).Msg("advice generation failed")
		return adviceErrorText
	}
	if text == "" {
		return adviceEmptyText
	}
	return text
}

// VisualMatch matches a base64-encoded JPEG against the catalog and
// returns the matching product ID, or "" when nothing matches. Errors
// are logged and reported as no match.
func (g *Gateway) VisualMatch(ctx context.Context, imageBase64 string, products []*domain.Product) string {
	var list strings.Builder
	for _, p := range products {
		fmt.Fprintf(&list, "ID: %s, Name: %s\n", p.ID, p.Name)
	}

	prompt := fmt.Sprintf("Look at this image. Match it to one of the following products:\n%s\nReturn ONLY the ID of the matching product. If no close match is found, return \"null\".", list.String())

	text, err := g.generate(ctx, generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: "image/jpeg", Data: imageBase64}},
			{Text: prompt},
		}}},
	})
	if err != nil {
		g.logger.Error().Err(err).Msg("visual match failed")
		return ""
	}

	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return ""
	}
	return strings.Trim(text, `'"`)
}
