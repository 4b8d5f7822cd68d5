// Package collector runs a full collection: random articles, their
// counterparts in other languages, and the resulting dump file.
package collector

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"wikidump/internal/dump"
	"wikidump/pkg/wikipedia"
)

// Articles fetches random article ids and multilingual records.
type Articles interface {
	RandomArticleIDs(ctx context.Context, lang string, count int) ([]int, error)
	FetchArticle(ctx context.Context, id int, primary string, targets []string) (*wikipedia.Record, error)
}

// Publisher receives every record as soon as it has been collected.
type Publisher interface {
	Publish(ctx context.Context, id int, rec wikipedia.Record) error
}

// Params of a single run.
type Params struct {
	Lang    string
	Targets []string
	Count   int
	Output  string
}

// Collector wires the article source, an optional publisher and the dump writer.
type Collector struct {
	Logger    *slog.Logger
	Articles  Articles
	Publisher Publisher // optional
}

// Run collects Count random articles and writes them to Output. The first
// error aborts the run and nothing is written.
func (c *Collector) Run(ctx context.Context, p Params) ([]wikipedia.Record, error) {
	start := time.Now()
	lg := c.Logger

	lg.InfoCtx(ctx, "fetching random article ids",
		slog.String("lang", p.Lang),
		slog.Int("count", p.Count),
	)
	ids, err := c.Articles.RandomArticleIDs(ctx, p.Lang, p.Count)
	if err != nil {
		return nil, fmt.Errorf("random article ids: %w", err)
	}

	records := make([]wikipedia.Record, 0, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collection interrupted after %d articles: %w", i, err)
		}

		rec, err := c.Articles.FetchArticle(ctx, id, p.Lang, p.Targets)
		if err != nil {
			return nil, fmt.Errorf("article %d: %w", id, err)
		}

		if c.Publisher != nil {
			if err := c.Publisher.Publish(ctx, id, *rec); err != nil {
				return nil, fmt.Errorf("publish article %d: %w", id, err)
			}
		}

		records = append(records, *rec)
		lg.InfoCtx(ctx, "article processed",
			slog.Int("n", i+1),
			slog.Int("of", len(ids)),
			slog.Int("id", id),
			slog.Any("languages", rec.Languages()),
		)
	}

	if err := dump.Save(records, p.Output); err != nil {
		return nil, fmt.Errorf("save articles: %w", err)
	}

	lg.InfoCtx(ctx, "articles saved",
		slog.String("path", p.Output),
		slog.Int("articles", len(records)),
		slog.Duration("took", time.Since(start)),
	)
	return records, nil
}
