package adimport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
	"github.com/heartmarshall/adcatalog-backend/pkg/ctxutil"
	"github.com/heartmarshall/adcatalog-backend/pkg/slug"
)

// Result holds the outcome counts of a run.
type Result struct {
	Created  int
	Updated  int
	Skipped  int
	DryRun   bool
	Duration time.Duration
}

// Pipeline imports ad rows into the catalog.
type Pipeline struct {
	log    *slog.Logger
	stores Stores
	tx     TxScope
	report Reporter
	cfg    Config
}

// NewPipeline creates a new Pipeline. A nil report discards diagnostics.
func NewPipeline(log *slog.Logger, stores Stores, tx TxScope, report Reporter, cfg Config) *Pipeline {
	if report == nil {
		report = discardReporter{}
	}
	return &Pipeline{
		log:    log.With("component", "adimport"),
		stores: stores,
		tx:     tx,
		report: report,
		cfg:    cfg,
	}
}

// RunFile reads path with LoadFile and runs the import over it.
func (p *Pipeline) RunFile(ctx context.Context, path string) (Result, error) {
	table, err := LoadFile(path, p.cfg)
	if err != nil {
		return Result{}, err
	}
	return p.Run(ctx, path, table)
}

// LoadFile reads every record of path and checks the header for the required
// columns. A missing file yields ErrFileNotFound. It touches no store, so
// callers can reject bad input before connecting to the database.
func LoadFile(path string, cfg Config) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformedInput, path, err)
	}

	table, err := ReadTable(f, cfg.delimiter())
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if _, err := ResolveColumns(table.Header); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Run imports every record of table. source names the input in diagnostics.
//
// Structural problems are reported before the transactional scope opens.
// Invalid rows are skipped and counted. Any store error aborts the run and
// rolls back everything written so far.
func (p *Pipeline) Run(ctx context.Context, source string, table *Table) (Result, error) {
	start := time.Now()

	cols, err := ResolveColumns(table.Header)
	if err != nil {
		return Result{}, err
	}

	runID := uuid.New()
	ctx = ctxutil.WithRunID(ctx, runID)

	p.report.Loaded(len(table.Records), source, table.Delimiter)
	p.log.InfoContext(ctx, "import started",
		slog.String("source", source),
		slog.Int("rows", len(table.Records)),
		slog.String("delimiter", string(table.Delimiter)),
		slog.Bool("dry_run", p.cfg.DryRun),
		slog.Bool("append_tags", p.cfg.AppendTags),
	)

	res := Result{DryRun: p.cfg.DryRun}

	err = p.tx.RunInScope(ctx, p.cfg.DryRun, func(ctx context.Context) error {
		for i, record := range table.Records {
			line := i + 2

			row, err := ParseRow(cols, record, line)
			if err != nil {
				var rowErr *RowError
				if !errors.As(err, &rowErr) {
					return err
				}
				res.Skipped++
				p.report.Skipped(rowErr.Line, rowErr.Reason)
				p.log.DebugContext(ctx, "row skipped", slog.Int("line", line), slog.String("reason", rowErr.Reason))
				continue
			}

			outcome, err := p.importRow(ctx, row)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}

			switch outcome {
			case domain.ImportOutcomeCreated:
				res.Created++
			case domain.ImportOutcomeUpdated:
				res.Updated++
			}
			p.report.Imported(line, outcome, row.Title)
		}
		return nil
	})
	if err != nil {
		p.log.ErrorContext(ctx, "import failed", slog.String("error", err.Error()))
		return Result{}, err
	}

	res.Duration = time.Since(start)
	p.log.InfoContext(ctx, "import completed",
		slog.Int("created", res.Created),
		slog.Int("updated", res.Updated),
		slog.Int("skipped", res.Skipped),
		slog.Bool("dry_run", res.DryRun),
		slog.Duration("duration", res.Duration),
	)

	return res, nil
}

// importRow resolves the brand, agency and tags of row and upserts the ad.
func (p *Pipeline) importRow(ctx context.Context, row Row) (domain.ImportOutcome, error) {
	brand, _, err := p.stores.Brands.GetOrCreate(ctx, row.Brand, slug.Make(row.Brand))
	if err != nil {
		return "", fmt.Errorf("resolve brand %q: %w", row.Brand, err)
	}

	var agencyID *uuid.UUID
	if row.Agency != "" {
		agency, _, err := p.stores.Agencies.GetOrCreate(ctx, row.Agency, slug.Make(row.Agency))
		if err != nil {
			return "", fmt.Errorf("resolve agency %q: %w", row.Agency, err)
		}
		agencyID = &agency.ID
	}

	adID, created, err := p.stores.Ads.Upsert(ctx, &domain.Ad{
		Title:       row.Title,
		BrandID:     brand.ID,
		AgencyID:    agencyID,
		Year:        row.Year,
		VideoID:     row.VideoID,
		VideoURL:    domain.CanonicalVideoURL(row.VideoID),
		DurationSec: row.DurationSec,
		TagsRaw:     row.TagsRaw,
	})
	if err != nil {
		return "", fmt.Errorf("upsert ad %s: %w", row.VideoID, err)
	}

	tagIDs, err := p.resolveTags(ctx, row)
	if err != nil {
		return "", err
	}

	if p.cfg.AppendTags {
		if _, err := p.stores.Ads.AddTags(ctx, adID, tagIDs); err != nil {
			return "", fmt.Errorf("add tags: %w", err)
		}
	} else if err := p.stores.Ads.ReplaceTags(ctx, adID, tagIDs); err != nil {
		return "", fmt.Errorf("replace tags: %w", err)
	}

	if created {
		return domain.ImportOutcomeCreated, nil
	}
	return domain.ImportOutcomeUpdated, nil
}

// resolveTags returns the IDs of row's tags, creating missing ones.
// Names without a usable slug are dropped; names sharing a slug collapse to one tag.
func (p *Pipeline) resolveTags(ctx context.Context, row Row) ([]uuid.UUID, error) {
	if len(row.Tags) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(row.Tags))
	seen := make(map[string]struct{}, len(row.Tags))
	for _, name := range row.Tags {
		s := slug.Make(name)
		if s == "" {
			p.log.WarnContext(ctx, "tag dropped: empty slug", slog.Int("line", row.Line), slog.String("tag", name))
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}

		t, _, err := p.stores.Tags.GetOrCreate(ctx, name, s)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}
