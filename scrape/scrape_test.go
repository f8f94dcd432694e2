package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"recipebox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const microdataPage = `<!doctype html>
<html><head>
<title>Best Dal | Cooking Site</title>
<meta property="og:image" content="/img/dal.jpg">
</head><body>
<div itemscope itemtype="https://schema.org/Recipe">
  <h2 itemprop="name">Red Lentil   Dal</h2>
  <span itemprop="recipeCategory">Dinner</span>
  <p itemprop="description">Weeknight dal.</p>
  <span itemprop="recipeYield">Serves 4 people</span>
  <ul>
    <li itemprop="recipeIngredient">1 cup red lentils</li>
    <li itemprop="recipeIngredient">3 cloves garlic</li>
    <li itemprop="recipeIngredient">2 tomatoes</li>
    <li itemprop="recipeIngredient">salt to taste</li>
  </ul>
  <ol itemprop="recipeInstructions">
    <li>Rinse the lentils.</li>
    <li>Simmer   with garlic
        for 20 minutes.</li>
  </ol>
</div>
</body></html>`

const plainPage = `<html><head>
<meta property="og:title" content="Grandma's Pancakes">
<meta name="description" content="Fluffy.">
</head><body>
<div class="recipe-ingredients"><ul><li>2 cups flour</li><li>1 1/2 tbsp sugar</li></ul></div>
<div class="recipe-directions"><ol><li>Mix.</li><li>Fry.</li></ol></div>
</body></html>`

func mustURL(t *testing.T, s string) *url.URL {
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestParseMicrodata(t *testing.T) {
	r, err := Parse(strings.NewReader(microdataPage), mustURL(t, "https://cook.example.com/recipes/dal"))
	require.NoError(t, err)

	assert.Equal(t, "Red Lentil Dal", r.Name)
	assert.Equal(t, "Dinner", r.Category)
	assert.Equal(t, "Weeknight dal.", r.Description)
	assert.Equal(t, 4, r.Servings)
	assert.Equal(t, "https://cook.example.com/img/dal.jpg", r.ImageURL)
	assert.Equal(t, "https://cook.example.com/recipes/dal", r.OriginalURL)

	assert.Equal(t, []models.Ingredient{
		{Quantity: "1", Unit: "cup", Name: "red lentils"},
		{Quantity: "3", Unit: "cloves", Name: "garlic"},
		{Quantity: "2", Unit: "-", Name: "tomatoes"},
		{Name: "salt to taste"},
	}, r.Ingredients)
	assert.Equal(t, []models.Instruction{
		{Number: 1, Instruction: "Rinse the lentils."},
		{Number: 2, Instruction: "Simmer with garlic for 20 minutes."},
	}, r.Instructions)
	assert.NotNil(t, r.FavoritedBy)
}

func TestParseSkipsNestedItemProperties(t *testing.T) {
	page := `<html><body>
<article itemscope itemtype="https://schema.org/Recipe">
  <div itemprop="author" itemscope itemtype="https://schema.org/Person">
    <span itemprop="name">Jane Cook</span>
    <p itemprop="description">Food writer.</p>
  </div>
  <h1 itemprop="name">Shakshuka</h1>
  <p itemprop="description">Eggs in spiced tomato.</p>
  <div itemprop="review" itemscope itemtype="https://schema.org/Review">
    <span itemprop="recipeYield">Serves 12</span>
  </div>
  <span itemprop="recipeYield">Serves 2</span>
  <li itemprop="recipeIngredient">4 eggs</li>
</article>
</body></html>`
	r, err := Parse(strings.NewReader(page), nil)
	require.NoError(t, err)

	assert.Equal(t, "Shakshuka", r.Name)
	assert.Equal(t, "Eggs in spiced tomato.", r.Description)
	assert.Equal(t, 2, r.Servings)
	assert.Equal(t, []models.Ingredient{{Quantity: "4", Unit: "-", Name: "eggs"}}, r.Ingredients)
}

func TestParseFallbackSelectors(t *testing.T) {
	r, err := Parse(strings.NewReader(plainPage), nil)
	require.NoError(t, err)

	assert.Equal(t, "Grandma's Pancakes", r.Name)
	assert.Equal(t, "Fluffy.", r.Description)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "2 cups flour", r.Ingredients[0].String())
	assert.Equal(t, "1 1/2 tbsp sugar", r.Ingredients[1].String())
	require.Len(t, r.Instructions, 2)
	assert.Equal(t, "Fry.", r.Instructions[1].Instruction)
	assert.Empty(t, r.OriginalURL)
}

func TestParseNoRecipe(t *testing.T) {
	_, err := Parse(strings.NewReader(`<html><body><p>hello</p></body></html>`), nil)
	assert.True(t, errors.Is(err, ErrNoRecipe))
}

func TestParseIngredient(t *testing.T) {
	cases := map[string]models.Ingredient{
		"2 cups flour":      {Quantity: "2", Unit: "cups", Name: "flour"},
		"1 1/2 tsp. salt":   {Quantity: "1 1/2", Unit: "tsp", Name: "salt"},
		"½ lb ground beef":  {Quantity: "½", Unit: "lb", Name: "ground beef"},
		"3 eggs":            {Quantity: "3", Unit: "-", Name: "eggs"},
		"2 garlic bulbs":    {Quantity: "2", Unit: "-", Name: "garlic bulbs"},
		"  fresh   basil  ": {Name: "fresh basil"},
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseIngredient(in), in)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(microdataPage))
	}))
	defer srv.Close()

	s := New(5*time.Second, "test-agent")
	r, err := s.Fetch(context.Background(), srv.URL+"/dal")
	require.NoError(t, err)
	assert.Equal(t, "Red Lentil Dal", r.Name)
	assert.Equal(t, srv.URL+"/dal", r.OriginalURL)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(5*time.Second, "").Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchRejectsNonHTTP(t *testing.T) {
	_, err := New(time.Second, "").Fetch(context.Background(), "file:///etc/passwd")
	assert.Error(t, err)
}
