package news

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-advisor-bot/internal/logger"
	"stock-advisor-bot/internal/types"
)

// Scraper pulls recent headlines for a symbol from Indian financial news
// sites. Headlines feed the LLM prompt as context; scraping failures
// degrade to an empty slice and never fail a user query.
type Scraper struct {
	sources []Source
	timeout time.Duration
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	articles  []types.NewsArticle
	fetchedAt time.Time
}

// Source defines one news site and the selectors to read it.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced with the lowercase symbol
	Selectors  Selectors
	RateLimit  time.Duration
}

// Selectors are the CSS selectors for extracting article data.
type Selectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Summary          string
	PublishedAt      string
}

// NewScraper creates a scraper with the default sources.
func NewScraper(timeout, ttl time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
		ttl:     ttl,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{symbol}.html",
			Selectors: Selectors{
				ArticleContainer: "li.clearfix",
				Title:            "h2 a, h3 a",
				URL:              "h2 a, h3 a",
				Summary:          "p",
				PublishedAt:      "span.ago",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{symbol}",
			Selectors: Selectors{
				ArticleContainer: "div.story-box",
				Title:            "a",
				URL:              "a",
				Summary:          "p",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Headlines returns up to maxArticles recent headlines for a symbol.
// Results are cached per symbol; the error return is always nil today
// but kept so callers handle future hard failures.
func (s *Scraper) Headlines(ctx context.Context, symbol string, maxArticles int) ([]types.NewsArticle, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))

	s.mu.Lock()
	entry, ok := s.cache[key]
	s.mu.Unlock()

	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return capArticles(entry.articles, maxArticles), nil
	}

	logger.Info(ctx, "Scraping headlines", "symbol", key, "sources", len(s.sources))

	perSource := maxArticles / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []types.NewsArticle
	for _, source := range s.sources {
		if ctx.Err() != nil {
			break
		}
		articles, err := s.scrapeSource(ctx, source, key, perSource)
		if err != nil {
			logger.Warn(ctx, "Failed to scrape source", "source", source.Name, "symbol", key, "error", err)
			continue
		}
		all = append(all, articles...)

		time.Sleep(source.RateLimit)
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{articles: all, fetchedAt: s.now()}
	s.mu.Unlock()

	logger.Info(ctx, "Headline scraping completed", "symbol", key, "articles", len(all))
	return capArticles(all, maxArticles), nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, symbol string, maxArticles int) ([]types.NewsArticle, error) {
	var articles []types.NewsArticle

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}

		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL == "" {
			return
		}
		if !strings.HasPrefix(articleURL, "http") {
			articleURL = source.BaseURL + articleURL
		}

		articles = append(articles, types.NewsArticle{
			Source:      source.Name,
			Title:       title,
			URL:         articleURL,
			Summary:     strings.TrimSpace(e.ChildText(source.Selectors.Summary)),
			PublishedAt: strings.TrimSpace(e.ChildText(source.Selectors.PublishedAt)),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Debug(ctx, "Scraping error", "source", source.Name, "url", r.Request.URL.String(), "error", err)
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()

	// Listing pages often carry truncated blurbs; pull the page
	// description for articles that came back without one.
	for i := range articles {
		if articles[i].Summary == "" {
			articles[i].Summary = s.fetchSummary(ctx, articles[i].URL)
		}
	}

	return articles, nil
}

// fetchSummary loads an article page and extracts its description.
func (s *Scraper) fetchSummary(ctx context.Context, articleURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: s.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}

	first := strings.TrimSpace(doc.Find("article p, div.story-content p").First().Text())
	if len(first) > 300 {
		first = first[:300]
	}
	return first
}

func capArticles(articles []types.NewsArticle, max int) []types.NewsArticle {
	if len(articles) > max {
		return articles[:max]
	}
	return articles
}

func domainOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
