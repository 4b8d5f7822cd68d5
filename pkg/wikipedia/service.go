package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

var (
	// ErrNoRandom is returned when a list=random response carries no page.
	ErrNoRandom = errors.New("no random page in response")
	// ErrNoPage is returned when a page query response carries no page.
	ErrNoPage = errors.New("no page in response")
)

// ArticleService collects article extracts across language editions.
// All requests are issued one after another.
type ArticleService struct {
	log    *slog.Logger
	client *Client
}

// NewArticleService makes a service on top of the given API client.
func NewArticleService(lg *slog.Logger, client *Client) *ArticleService {
	return &ArticleService{log: lg, client: client}
}

// RandomArticleIDs picks count random main-namespace articles, one request each.
func (s *ArticleService) RandomArticleIDs(ctx context.Context, lang string, count int) ([]int, error) {
	ids := make([]int, 0, max(count, 0))
	for i := 0; i < count; i++ {
		resp, err := s.client.FetchRandom(ctx, lang)
		if err != nil {
			return nil, fmt.Errorf("fetch random article %d/%d: %w", i+1, count, err)
		}
		if len(resp.Query.Random) == 0 {
			return nil, fmt.Errorf("fetch random article %d/%d: %w", i+1, count, ErrNoRandom)
		}

		picked := resp.Query.Random[0]
		s.log.Debug("random article picked",
			slog.Int("n", i+1),
			slog.Int("id", picked.ID),
			slog.String("title", picked.Title),
		)
		ids = append(ids, picked.ID)
	}
	return ids, nil
}

// FetchArticle loads the article in the primary language and then, in langlink
// order, its counterparts in each of the target languages it links to.
func (s *ArticleService) FetchArticle(ctx context.Context, id int, primary string, targets []string) (*Record, error) {
	resp, err := s.client.FetchArticle(ctx, primary, id)
	if err != nil {
		return nil, fmt.Errorf("fetch %s article %d: %w", primary, id, err)
	}
	page, err := singlePage(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %s article %d: %w", primary, id, err)
	}

	rec := NewRecord()
	rec.Set(primary, Entry{Content: page.Extract, Type: page.WikibaseItem()})

	links := LangLinks(page.LangLinks, targets)
	s.log.Debug("article fetched",
		slog.Int("id", id),
		slog.String("title", page.Title),
		slog.Int("langlinks", len(links)),
	)

	for _, link := range links {
		entry, err := s.fetchTranslation(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("fetch %s counterpart of article %d: %w", link.Lang, id, err)
		}
		rec.Set(link.Lang, entry)
	}
	return rec, nil
}

func (s *ArticleService) fetchTranslation(ctx context.Context, link LangLink) (Entry, error) {
	resp, err := s.client.FetchExtract(ctx, link.Lang, link.Title)
	if err != nil {
		return Entry{}, err
	}
	page, err := singlePage(resp)
	if err != nil {
		return Entry{}, err
	}

	content, typ := ContentNotAvailable, MetadataNotAvailable
	if page.Extract != nil {
		content = *page.Extract
	}
	if item := page.WikibaseItem(); item != nil {
		typ = *item
	}
	return Entry{Content: &content, Type: &typ}, nil
}

// LangLinks keeps the links pointing to one of the target languages, in the
// order the API returned them. A language linked twice keeps its first link.
func LangLinks(links []LangLink, targets []string) []LangLink {
	filtered := lo.Filter(links, func(l LangLink, _ int) bool { return lo.Contains(targets, l.Lang) })
	return lo.UniqBy(filtered, func(l LangLink) string { return l.Lang })
}

// singlePage returns the page of a single-page query. Should the API return
// several, the one with the lowest key wins.
func singlePage(resp *PageAPIResponse) (Page, error) {
	if len(resp.Query.Pages) == 0 {
		return Page{}, ErrNoPage
	}
	keys := lo.Keys(resp.Query.Pages)
	sort.Strings(keys)
	return resp.Query.Pages[keys[0]], nil
}
