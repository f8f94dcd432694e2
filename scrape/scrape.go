// Package scrape turns a published recipe page into a Recipe. It reads
// schema.org microdata first and falls back to common class names.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"recipebox/models"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoRecipe = errors.New("no recipe found on page")

var (
	spaceRe = regexp.MustCompile(`\s+`)
	countRe = regexp.MustCompile(`\d+`)
	// quantity, optional unit, name: "1 1/2 cups flour", "3 eggs"
	ingredientRe = regexp.MustCompile(`^((?:\d+[\d/.]*|[½¼¾⅓⅔⅛])(?:\s+\d+/\d+)?)\s+(?:(` + unitPattern + `)\.?\s+)?(.+)$`)
)

const unitPattern = `(?i:cups?|tablespoons?|tbsps?|teaspoons?|tsps?|grams?|g|kg|kilograms?|ml|l|liters?|litres?|ounces?|oz|pounds?|lbs?|lb|pinch(?:es)?|cloves?|cans?|slices?|sticks?|bunch(?:es)?)`

type Scraper struct {
	client    *http.Client
	userAgent string
}

func New(timeout time.Duration, userAgent string) *Scraper {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		userAgent: userAgent,
	}
}

// Fetch downloads rawURL and parses it. Transient failures (network errors,
// 429 and 5xx) are retried with a short backoff.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (models.Recipe, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return models.Recipe{}, fmt.Errorf("invalid recipe url %q", rawURL)
	}

	var resp *http.Response
	backoffs := []time.Duration{0, 500 * time.Millisecond, 1 * time.Second, 2 * time.Second}
	for i, d := range backoffs {
		if d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return models.Recipe{}, ctx.Err()
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return models.Recipe{}, err
		}
		if s.userAgent != "" {
			req.Header.Set("User-Agent", s.userAgent)
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err = s.client.Do(req)
		if err != nil {
			if i < len(backoffs)-1 {
				continue
			}
			return models.Recipe{}, fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if i < len(backoffs)-1 {
				continue
			}
			return models.Recipe{}, fmt.Errorf("fetch %s: server error: %s", rawURL, resp.Status)
		}
		break
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return models.Recipe{}, fmt.Errorf("fetch %s: bad status %d: %s", rawURL, resp.StatusCode, string(b))
	}
	return Parse(resp.Body, resp.Request.URL)
}

// Parse extracts a recipe from an HTML document. base resolves relative
// image links and becomes the recipe's OriginalURL.
func Parse(r io.Reader, base *url.URL) (models.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("parse html: %w", err)
	}

	scope := itemScope{sel: doc.Find(`[itemtype*="schema.org/Recipe"]`).First()}
	if scope.sel.Length() == 0 {
		scope = itemScope{sel: doc.Selection, page: true}
	}

	recipe := models.Recipe{
		Name:        firstText(scope.prop("name"), doc.Find(`h1`)),
		Category:    firstText(scope.prop("recipeCategory")),
		Description: firstText(scope.prop("description")),
	}
	if recipe.Name == "" {
		recipe.Name = metaContent(doc, "og:title")
	}
	if recipe.Name == "" {
		recipe.Name = condense(doc.Find("title").First().Text())
	}
	if recipe.Description == "" {
		recipe.Description = metaContent(doc, "og:description", "description")
	}
	if y := firstText(scope.prop("recipeYield")); y != "" {
		recipe.Servings = atoiSafe(countRe.FindString(y))
	}
	if img := metaContent(doc, "og:image"); img != "" {
		recipe.ImageURL = resolve(base, img)
	}
	if base != nil {
		recipe.OriginalURL = base.String()
	}

	ingredients := scope.prop("recipeIngredient").AddSelection(scope.prop("ingredients"))
	for _, line := range listText(scope.sel, ingredients, `[class*="ingredient"] li`) {
		recipe.Ingredients = append(recipe.Ingredients, ParseIngredient(line))
	}
	for i, line := range listText(scope.sel, scope.prop("recipeInstructions"), `[class*="instruction"] li, [class*="direction"] li, [class*="method"] li`) {
		recipe.Instructions = append(recipe.Instructions, models.Instruction{Number: i + 1, Instruction: line})
	}

	if recipe.Name == "" && len(recipe.Ingredients) == 0 {
		return models.Recipe{}, ErrNoRecipe
	}
	recipe.Normalize()
	return recipe, nil
}

// ParseIngredient splits a free-text ingredient line into quantity, unit and
// name. Lines without a leading quantity keep the whole text as the name.
func ParseIngredient(line string) models.Ingredient {
	line = condense(line)
	m := ingredientRe.FindStringSubmatch(line)
	if m == nil {
		return models.Ingredient{Name: line}
	}
	unit := strings.ToLower(m[2])
	if unit == "" {
		unit = "-"
	}
	return models.Ingredient{Quantity: m[1], Unit: unit, Name: m[3]}
}

// itemScope is the element a recipe's properties are read from. Outside a
// microdata item the whole page is the scope.
type itemScope struct {
	sel  *goquery.Selection
	page bool
}

// prop finds the itemprop name elements that belong to this item, skipping
// those of nested items such as an author or a review.
func (s itemScope) prop(name string) *goquery.Selection {
	found := s.sel.Find(fmt.Sprintf(`[itemprop=%q]`, name))
	if s.page {
		return found
	}
	return found.FilterFunction(func(_ int, el *goquery.Selection) bool {
		return el.Parent().Closest("[itemscope]").IsSelection(s.sel)
	})
}

// listText collects the text of items matched by primary, descending into
// list items when a match is a container. fallback is searched within scope
// when primary matches nothing.
func listText(scope, primary *goquery.Selection, fallback string) []string {
	sel := primary
	if sel.Length() == 0 {
		sel = scope.Find(fallback)
	}
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if items := s.Find("li"); items.Length() > 0 {
			items.Each(func(_ int, li *goquery.Selection) {
				if t := condense(li.Text()); t != "" {
					out = append(out, t)
				}
			})
			return
		}
		if t := condense(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// firstText returns the first non-empty text among the candidates.
func firstText(candidates ...*goquery.Selection) string {
	for _, c := range candidates {
		if t := condense(c.First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func metaContent(doc *goquery.Document, names ...string) string {
	for _, n := range names {
		sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, n, n)).First()
		if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
			return condense(v)
		}
	}
	return ""
}

func condense(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func resolve(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
