// Package clipper imports recipes from the web into the meal template
// library: fetch the page, strip it down to readable text, and have the
// model extract a structured template from it.
package clipper

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"diet-planner/internal/jsonrepair"
	"diet-planner/internal/llm"
	"diet-planner/internal/nutrition"
	"diet-planner/internal/planner"
)

//go:embed clip_prompt.md
var clipPromptText string

var clipPrompt = template.Must(template.New("clip").Parse(clipPromptText))

// Page text beyond this is noise for extraction purposes.
const maxPageText = 12000

// Clipper fetches recipe pages and turns them into meal templates.
type Clipper struct {
	httpClient *http.Client
	textGen    llm.TextGenerator
	logger     *zap.Logger
}

// NewClipper creates a Clipper using the given model client.
func NewClipper(textGen llm.TextGenerator, logger *zap.Logger) *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		textGen:    textGen,
		logger:     logger.Named("clipper"),
	}
}

// ClipRecipe fetches the page at url and extracts a meal template from it.
func (c *Clipper) ClipRecipe(ctx context.Context, url string) (planner.MealTemplate, error) {
	pageText, err := c.fetchPageText(ctx, url)
	if err != nil {
		return planner.MealTemplate{}, err
	}

	var promptBuf strings.Builder
	if err := clipPrompt.Execute(&promptBuf, struct{ PageText string }{PageText: pageText}); err != nil {
		return planner.MealTemplate{}, fmt.Errorf("failed to build extraction prompt: %w", err)
	}

	resp, err := c.textGen.GenerateContent(ctx, promptBuf.String())
	if err != nil {
		return planner.MealTemplate{}, fmt.Errorf("failed to extract recipe from %s: %w", url, err)
	}

	doc, err := jsonrepair.Extract(resp.Content)
	if err != nil {
		return planner.MealTemplate{}, fmt.Errorf("failed to parse extracted recipe: %w", err)
	}

	var tmpl planner.MealTemplate
	if err := json.Unmarshal(doc, &tmpl); err != nil {
		return planner.MealTemplate{}, fmt.Errorf("failed to decode extracted recipe: %w", err)
	}
	if tmpl.Name == "" {
		return planner.MealTemplate{}, fmt.Errorf("extracted recipe from %s has no name", url)
	}
	if !nutrition.KnownMealType(tmpl.MealType) {
		c.logger.Warn("unrecognized meal type on clipped recipe, defaulting to dinner",
			zap.String("url", url), zap.String("meal_type", string(tmpl.MealType)))
		tmpl.MealType = nutrition.MealDinner
	}

	c.logger.Info("clipped recipe",
		zap.String("url", url),
		zap.String("name", tmpl.Name),
		zap.String("meal_type", string(tmpl.MealType)))
	return tmpl, nil
}

func (c *Clipper) fetchPageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "diet-planner/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page %s: %w", url, err)
	}
	return extractText(doc), nil
}

// extractText strips non-content markup and collapses the remaining text.
func extractText(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, aside, iframe, form, noscript").Remove()
	doc.Find("[class*='ad'], [id*='ad-'], [class*='cookie'], [class*='newsletter']").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	text := strings.Join(strings.Fields(body.Text()), " ")
	if len(text) > maxPageText {
		text = text[:maxPageText]
	}
	return text
}
