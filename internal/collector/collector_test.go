package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"wikidump/internal/dump"
	"wikidump/pkg/wikipedia"
)

type hostRewriter struct{ base *url.URL }

func (r hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	c := req.Clone(req.Context())
	c.URL.Path = "/" + req.URL.Host + req.URL.Path
	c.URL.Scheme = r.base.Scheme
	c.URL.Host = r.base.Host
	c.Host = r.base.Host
	return http.DefaultTransport.RoundTrip(c)
}

func TestCollector_Run_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en.wikipedia.org/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("list") == "random":
			_, _ = w.Write([]byte(`{"batchcomplete":"","query":{"random":[{"id":42,"ns":0,"title":"Article"}]}}`))
		case q.Get("pageids") == "42":
			_, _ = w.Write([]byte(`{"query":{"pages":{"42":{"pageid":42,"ns":0,"title":"Article",
				"extract":"An article.","pageprops":{"wikibase_item":"Q42"},
				"langlinks":[{"lang":"sv","url":"https://sv.wikipedia.org/wiki/Artikel","langname":"Swedish","*":"Artikel"}]}}}}`))
		default:
			t.Errorf("unexpected en request: %s", r.URL.RawQuery)
		}
	})
	mux.HandleFunc("/sv.wikipedia.org/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Artikel", r.URL.Query().Get("titles"))
		_, _ = w.Write([]byte(`{"query":{"pages":{"1":{"pageid":1,"ns":0,"title":"Artikel","extract":"En artikel på svenska."}}}}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	client := wikipedia.NewClient(http.Client{Transport: hostRewriter{base: u}}, "test-agent")

	pub := &mockPublisher{}
	c := &Collector{
		Logger:    slog.Default(),
		Articles:  wikipedia.NewArticleService(slog.Default(), client),
		Publisher: pub,
	}

	out := filepath.Join(t.TempDir(), "wikipedia_dumps", "wikipedia_articles.json")
	records, err := c.Run(context.Background(), Params{
		Lang:    "en",
		Targets: []string{"sv", "fi", "de", "cs"},
		Count:   1,
		Output:  out,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	saved, err := dump.Load(out)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, []string{"en", "sv"}, saved[0].Languages())

	sv, ok := saved[0].Get("sv")
	require.True(t, ok)
	assert.Equal(t, "En artikel på svenska.", *sv.Content)
	assert.Equal(t, wikipedia.MetadataNotAvailable, *sv.Type)

	en, ok := saved[0].Get("en")
	require.True(t, ok)
	assert.Equal(t, "An article.", *en.Content)
	assert.Equal(t, "Q42", *en.Type)

	assert.Equal(t, []int{42}, pub.ids)
}

type mockArticles struct {
	ids       []int
	randomErr error
	fetchErr  map[int]error
	fetched   []int
}

func (m *mockArticles) RandomArticleIDs(_ context.Context, _ string, count int) ([]int, error) {
	if m.randomErr != nil {
		return nil, m.randomErr
	}
	return m.ids[:count], nil
}

func (m *mockArticles) FetchArticle(_ context.Context, id int, primary string, targets []string) (*wikipedia.Record, error) {
	m.fetched = append(m.fetched, id)
	if err := m.fetchErr[id]; err != nil {
		return nil, err
	}
	content := "article"
	rec := wikipedia.NewRecord()
	rec.Set(primary, wikipedia.Entry{Content: &content})
	for _, t := range targets {
		rec.Set(t, wikipedia.Entry{})
	}
	return rec, nil
}

type mockPublisher struct {
	ids []int
	err error
}

func (m *mockPublisher) Publish(_ context.Context, id int, _ wikipedia.Record) error {
	if m.err != nil {
		return m.err
	}
	m.ids = append(m.ids, id)
	return nil
}

func TestCollector_Run(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name        string
		articles    *mockArticles
		publisher   *mockPublisher
		count       int
		wantErr     error
		wantFetched []int
		wantLen     int
	}{
		{
			name:        "collects all articles in order",
			articles:    &mockArticles{ids: []int{3, 1, 2}},
			count:       3,
			wantFetched: []int{3, 1, 2},
			wantLen:     3,
		},
		{
			name:        "publishes each article",
			articles:    &mockArticles{ids: []int{5, 6}},
			publisher:   &mockPublisher{},
			count:       2,
			wantFetched: []int{5, 6},
			wantLen:     2,
		},
		{
			name:     "random id failure aborts",
			articles: &mockArticles{randomErr: errBoom},
			count:    2,
			wantErr:  errBoom,
		},
		{
			name:        "article failure aborts the run",
			articles:    &mockArticles{ids: []int{1, 2, 3}, fetchErr: map[int]error{2: errBoom}},
			count:       3,
			wantErr:     errBoom,
			wantFetched: []int{1, 2},
		},
		{
			name:        "publish failure aborts the run",
			articles:    &mockArticles{ids: []int{1, 2}},
			publisher:   &mockPublisher{err: errBoom},
			count:       2,
			wantErr:     errBoom,
			wantFetched: []int{1},
		},
		{
			name:     "zero articles writes an empty dump",
			articles: &mockArticles{},
			count:    0,
			wantLen:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Collector{Logger: slog.Default(), Articles: tt.articles}
			if tt.publisher != nil {
				c.Publisher = tt.publisher
			}

			out := filepath.Join(t.TempDir(), "out", "articles.json")
			records, err := c.Run(context.Background(), Params{
				Lang:    "en",
				Targets: []string{"sv"},
				Count:   tt.count,
				Output:  out,
			})
			assert.Equal(t, tt.wantFetched, tt.articles.fetched)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				_, statErr := os.Stat(out)
				assert.True(t, os.IsNotExist(statErr), "no partial output expected")
				return
			}

			require.NoError(t, err)
			assert.Len(t, records, tt.wantLen)
			for _, rec := range records {
				_, ok := rec.Get("en")
				assert.True(t, ok, "primary language is always present")
			}

			saved, err := dump.Load(out)
			require.NoError(t, err)
			assert.Len(t, saved, tt.wantLen)
			if tt.publisher != nil {
				assert.Equal(t, tt.wantFetched, tt.publisher.ids)
			}
		})
	}
}

func TestCollector_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	articles := &mockArticles{ids: []int{1, 2}}
	c := &Collector{Logger: slog.Default(), Articles: articles}

	out := filepath.Join(t.TempDir(), "articles.json")
	_, err := c.Run(ctx, Params{Lang: "en", Count: 2, Output: out})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, articles.fetched)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
