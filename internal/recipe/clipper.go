package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fridge-planner/internal/plan"
)

// Clipper imports recipe display data from an arbitrary web page so it can
// be assigned to a plan slot without the recipe existing in the backend
// catalog.
type Clipper struct {
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper() *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Clip fetches the URL and extracts a plan snapshot: title and image from
// OpenGraph tags, nutrition from schema.org Recipe JSON-LD when the page
// carries it. Missing nutrition fields stay zero.
func (c *Clipper) Clip(ctx context.Context, url string) (*plan.RecipeSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	snapshot := &plan.RecipeSnapshot{
		Name:  metaContent(doc, "og:title"),
		Image: metaContent(doc, "og:image"),
	}
	if snapshot.Name == "" {
		snapshot.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if snapshot.Name == "" {
		return nil, fmt.Errorf("page has no usable title")
	}

	applyNutrition(doc, snapshot)
	return snapshot, nil
}

func metaContent(doc *goquery.Document, property string) string {
	sel := fmt.Sprintf(`meta[property=%q]`, property)
	content, _ := doc.Find(sel).First().Attr("content")
	return strings.TrimSpace(content)
}

// ldRecipe is the subset of a schema.org Recipe object the clipper reads.
type ldRecipe struct {
	Type      any `json:"@type"`
	Nutrition struct {
		Calories            string `json:"calories"`
		ProteinContent      string `json:"proteinContent"`
		CarbohydrateContent string `json:"carbohydrateContent"`
	} `json:"nutrition"`
}

func applyNutrition(doc *goquery.Document, snapshot *plan.RecipeSnapshot) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rec, ok := decodeRecipeLD(s.Text())
		if !ok {
			return true
		}
		snapshot.Calories = leadingNumber(rec.Nutrition.Calories)
		snapshot.Protein = leadingNumber(rec.Nutrition.ProteinContent)
		snapshot.Carbs = leadingNumber(rec.Nutrition.CarbohydrateContent)
		return false
	})
}

func decodeRecipeLD(raw string) (ldRecipe, bool) {
	// Pages embed either a single object or an array of them.
	raw = strings.TrimSpace(raw)
	var candidates []ldRecipe
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
			return ldRecipe{}, false
		}
	} else {
		var one ldRecipe
		if err := json.Unmarshal([]byte(raw), &one); err != nil {
			return ldRecipe{}, false
		}
		candidates = append(candidates, one)
	}

	for _, c := range candidates {
		if isRecipeType(c.Type) {
			return c, true
		}
	}
	return ldRecipe{}, false
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// leadingNumber parses values like "240 calories" or "4 g" down to their
// numeric prefix.
func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
