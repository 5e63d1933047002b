package table

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/parse"
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

// Source lists and opens the files of a feed.
type Source interface {
	Filenames() []string
	Open(name string) (io.ReadCloser, error)
}

// FeedLoader loads all tables of a feed concurrently.
type FeedLoader struct {
	Schemas *schema.Set
	Workers int
	Logger  *slog.Logger
}

// NewFeedLoader returns a loader for set using up to workers goroutines.
// workers <= 0 uses GOMAXPROCS.
func NewFeedLoader(set *schema.Set, workers int, logger *slog.Logger) *FeedLoader {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedLoader{Schemas: set, Workers: workers, Logger: logger}
}

// Load reads every table of the schema set from src. Each table reports into
// a private notice container; those are merged into sink in filename order
// after unknown-file notices, so the result does not depend on scheduling.
// A failure while loading one table only affects that table. The returned
// error is non-nil only if ctx is done.
func (fl *FeedLoader) Load(ctx context.Context, src Source, p *parse.Parser, sink notice.Sink) (*Feed, error) {
	present := make(map[string]string)
	var unknown []string
	for _, name := range src.Filenames() {
		if ts, ok := fl.Schemas.Get(name); ok {
			present[ts.Filename] = name
		} else {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		sink.Add(notice.UnknownFile.New(name))
	}

	tables := fl.Schemas.All()
	containers := make([]*Container, len(tables))
	sinks := make([]*notice.Container, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fl.Workers)
	for i, ts := range tables {
		sinks[i] = notice.NewContainer()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name, ok := present[ts.Filename]
			containers[i] = fl.loadTable(ts, src, name, ok, p, sinks[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	for _, s := range sinks {
		for _, n := range s.Notices() {
			sink.Add(n)
		}
	}
	return NewFeed(fl.Schemas, containers...), nil
}

// loadTable loads one file, turning panics and read failures into notices and
// a MissingFile container.
func (fl *FeedLoader) loadTable(ts *schema.TableSchema, src Source, name string, present bool, p *parse.Parser, sink *notice.Container) (c *Container) {
	loader := NewLoader(p, fl.Logger)
	if !present {
		return loader.LoadMissing(ts, sink)
	}

	defer func() {
		if r := recover(); r != nil {
			fl.Logger.Error("panic while loading table", "filename", ts.Filename, "panic", r)
			sink.Add(notice.RuntimeExceptionInLoader.New(ts.Filename, panicType(r), fmt.Sprint(r)))
			c = ForStatus(ts, MissingFile)
		}
	}()

	rc, err := src.Open(name)
	if err != nil {
		sink.Add(notice.IOError.New(ts.Filename, fmt.Sprintf("%T", err), err.Error()))
		return ForStatus(ts, MissingFile)
	}
	defer rc.Close()

	return loader.Load(ts, rc, sink)
}

func panicType(r any) string {
	if err, ok := r.(error); ok {
		return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	}
	return "panic"
}
