package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/booklinks/internal/corpus"
	"github.com/hyperifyio/booklinks/internal/deadref"
	"github.com/hyperifyio/booklinks/internal/heading"
	"github.com/hyperifyio/booklinks/internal/resolve"
	"github.com/hyperifyio/booklinks/internal/rewrite"
)

type App struct {
	cfg     Config
	out     io.Writer
	dead    *deadref.Collector
	summary Summary
}

// Summary describes a finished run.
type Summary struct {
	Documents  int
	Headings   int
	Collisions int
	Rewritten  int
	Links      int
	Dead       []string
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &App{cfg: cfg, out: out, dead: deadref.NewCollector()}, nil
}

func (a *App) Close() {
	// nothing yet
}

// Summary returns the outcome of the last Run.
func (a *App) Summary() Summary {
	return a.summary
}

// Run indexes every heading of the corpus, then rewrites each document
// against the finished index. Fatal input problems (missing paths, missing
// whitelist, existing export target) are reported before any file changes.
func (a *App) Run(ctx context.Context) error {
	var whitelist []string
	if trim(a.cfg.WhitelistPath) != "" {
		wl, err := LoadWhitelist(a.cfg.WhitelistPath)
		if err != nil {
			return err
		}
		whitelist = wl
		log.Debug().Int("entries", len(wl)).Str("path", a.cfg.WhitelistPath).Msg("whitelist loaded")
	}
	if trim(a.cfg.SaveFlagsPath) != "" {
		if err := deadref.CheckTarget(a.cfg.SaveFlagsPath); err != nil {
			return err
		}
	}

	srcs, err := corpus.Collect(a.cfg.Paths, a.cfg.AnyExtension)
	if err != nil {
		return err
	}
	docs, err := corpus.Load(srcs)
	if err != nil {
		return err
	}

	ix, collisions := a.buildIndex(docs)
	a.summary = Summary{Documents: len(docs), Headings: ix.Len(), Collisions: collisions}
	if a.cfg.References {
		if err := writeIndex(a.out, ix); err != nil {
			return err
		}
	}

	results, err := a.rewriteAll(ctx, docs, resolve.New(ix, whitelist))
	if err != nil {
		return err
	}

	for i, res := range results {
		if a.cfg.detectDead() {
			a.dead.Add(res.Dead...)
		}
		if len(res.Dead) > 0 {
			log.Debug().Str("document", res.DocumentID).Strs("dead", res.Dead).Msg("unresolved mentions")
		}
		if a.cfg.DryRun {
			if !a.cfg.Quiet {
				writePreview(a.out, res.DocumentID, res.Previews)
			}
			a.summary.Links += res.Links
			continue
		}
		if !res.Changed {
			continue
		}
		if err := corpus.Write(docs[i], res.Text); err != nil {
			return err
		}
		a.summary.Rewritten++
		a.summary.Links += res.Links
		log.Debug().Str("document", res.DocumentID).Int("links", res.Links).Msg("document rewritten")
	}

	if err := a.reportDead(); err != nil {
		return err
	}

	log.Info().
		Int("documents", a.summary.Documents).
		Int("headings", a.summary.Headings).
		Int("rewritten", a.summary.Rewritten).
		Int("links", a.summary.Links).
		Int("dead", len(a.summary.Dead)).
		Bool("dry_run", a.cfg.DryRun).
		Msg("cross-references done")
	return nil
}

// buildIndex is phase one; it must see the whole corpus before any document
// is resolved.
func (a *App) buildIndex(docs []corpus.Document) (*heading.Index, int) {
	reserved := a.cfg.ReservedTitles
	if reserved == nil {
		reserved = heading.DefaultReserved
	}
	b := heading.NewBuilder(reserved)
	for _, d := range docs {
		b.AddDocument(d.ID, d.Text)
	}
	ix := b.Index()
	cols := b.Collisions()
	if len(cols) > 0 {
		log.Warn().Int("count", len(cols)).Msg("duplicate headings across documents; the later document wins")
	}
	log.Debug().Int("headings", ix.Len()).Int("documents", len(docs)).Msg("heading index built")
	return ix, len(cols)
}

// rewriteAll is phase two. Documents are independent; results keep corpus
// order.
func (a *App) rewriteAll(ctx context.Context, docs []corpus.Document, r *resolve.Resolver) ([]rewrite.Result, error) {
	mode := rewrite.Apply
	if a.cfg.DryRun {
		mode = rewrite.DryRun
	}
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]rewrite.Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = rewrite.Page(d.ID, d.Text, r, mode, resolve.Replaced{})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rewrite documents: %w", err)
	}
	return results, nil
}

func (a *App) reportDead() error {
	if !a.cfg.detectDead() {
		return nil
	}
	keys := a.dead.Sorted()
	a.summary.Dead = keys
	if path := trim(a.cfg.SaveFlagsPath); path != "" {
		if len(keys) == 0 {
			log.Info().Str("path", path).Msg("no dead references; nothing exported")
			return nil
		}
		if err := deadref.Export(path, keys); err != nil {
			return err
		}
		log.Info().Str("path", path).Int("count", len(keys)).Msg("dead references exported")
		return nil
	}
	if !a.cfg.Quiet {
		writeDeadLinks(a.out, keys)
	}
	return nil
}
