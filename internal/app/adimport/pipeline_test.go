package adimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
	"github.com/heartmarshall/adcatalog-backend/pkg/ctxutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// recordingReporter collects diagnostics in arrival order.
type recordingReporter struct {
	events []string
}

func (r *recordingReporter) Loaded(rows int, source string, delim rune) {
	r.events = append(r.events, fmt.Sprintf("loaded %d %s %c", rows, source, delim))
}

func (r *recordingReporter) Skipped(line int, reason string) {
	r.events = append(r.events, fmt.Sprintf("skip %d %s", line, reason))
}

func (r *recordingReporter) Imported(line int, outcome domain.ImportOutcome, title string) {
	r.events = append(r.events, fmt.Sprintf("%s %d %s", outcome, line, title))
}

func readTable(t *testing.T, input string) *Table {
	t.Helper()
	tbl, err := ReadTable(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	return tbl
}

const sampleCSV = `title,brand,youtube,agency,year,duration_sec,tags
Big Game,Acme,https://www.youtube.com/watch?v=dQw4w9WgXcQ,Wieden,2021,60,"funny, cars"
,Acme,dQw4w9WgXcQ,,,,
Second,Acme,https://vimeo.com/1,,,,
Third,Globex,https://youtu.be/9bZkp7q19f0,,1999x,,Cars
`

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	rep := &recordingReporter{}
	tx := passthroughScope()
	p := NewPipeline(testLogger(), store.stores(), tx, rep, Config{})

	res, err := p.Run(context.Background(), "ads.csv", readTable(t, sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Created != 2 || res.Updated != 0 || res.Skipped != 2 || res.DryRun {
		t.Errorf("unexpected result: %+v", res)
	}

	wantEvents := []string{
		"loaded 4 ads.csv ,",
		"CREATED 2 Big Game",
		"skip 3 missing title",
		"skip 4 invalid YouTube URL/ID: https://vimeo.com/1",
		"CREATED 5 Third",
	}
	if !reflect.DeepEqual(rep.events, wantEvents) {
		t.Errorf("events:\n%q\nwant:\n%q", rep.events, wantEvents)
	}

	ad := store.ads["dQw4w9WgXcQ"]
	if ad == nil {
		t.Fatal("ad not stored")
	}
	if ad.VideoURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("video url: %q", ad.VideoURL)
	}
	if ad.AgencyID == nil || *ad.AgencyID != store.agencies["Wieden"].ID {
		t.Error("agency not linked")
	}
	if ad.Year == nil || *ad.Year != 2021 || ad.DurationSec == nil || *ad.DurationSec != 60 {
		t.Errorf("year/duration: %v %v", ad.Year, ad.DurationSec)
	}
	if ad.TagsRaw != "funny, cars" {
		t.Errorf("tags raw: %q", ad.TagsRaw)
	}
	if got := store.tagSlugs("dQw4w9WgXcQ"); !reflect.DeepEqual(got, []string{"funny", "cars"}) {
		t.Errorf("tags: %v", got)
	}

	third := store.ads["9bZkp7q19f0"]
	if third.AgencyID != nil || third.Year != nil {
		t.Errorf("third ad: agency %v year %v", third.AgencyID, third.Year)
	}
	if len(store.tags) != 2 {
		t.Errorf("expected tag 'cars' to be shared, got %d tags", len(store.tags))
	}

	if slug := store.brands["Acme"].Slug; slug == nil || *slug != "acme" {
		t.Errorf("brand slug: %v", slug)
	}

	calls := tx.RunInScopeCalls()
	if len(calls) != 1 || calls[0].Discard {
		t.Errorf("scope calls: %+v", calls)
	}
	if _, ok := ctxutil.RunIDFromCtx(calls[0].Ctx); !ok {
		t.Error("run id missing from scope context")
	}
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	p := NewPipeline(testLogger(), store.stores(), passthroughScope(), nil, Config{})

	if _, err := p.Run(context.Background(), "a", readTable(t, sampleCSV)); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := p.Run(context.Background(), "a", readTable(t, sampleCSV))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if res.Created != 0 || res.Updated != 2 || res.Skipped != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(store.ads) != 2 || len(store.brands) != 2 || len(store.agencies) != 1 || len(store.tags) != 2 {
		t.Errorf("entity counts changed: ads=%d brands=%d agencies=%d tags=%d",
			len(store.ads), len(store.brands), len(store.agencies), len(store.tags))
	}
}

func TestPipeline_Run_TagModes(t *testing.T) {
	t.Parallel()

	first := "title,brand,youtube,tags\nA,B,dQw4w9WgXcQ,\"one, two\"\n"
	second := "title,brand,youtube,tags\nA,B,dQw4w9WgXcQ,\"two, three\"\n"

	tests := []struct {
		name   string
		append bool
		want   []string
		call   string
	}{
		{"replace", false, []string{"two", "three"}, "ReplaceTags"},
		{"append", true, []string{"one", "two", "three"}, "AddTags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newMemStore()
			ctx := context.Background()

			seed := NewPipeline(testLogger(), store.stores(), passthroughScope(), nil, Config{})
			if _, err := seed.Run(ctx, "first", readTable(t, first)); err != nil {
				t.Fatalf("seed: %v", err)
			}

			p := NewPipeline(testLogger(), store.stores(), passthroughScope(), nil, Config{AppendTags: tt.append})
			res, err := p.Run(ctx, "second", readTable(t, second))
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if res.Updated != 1 {
				t.Errorf("unexpected result: %+v", res)
			}
			if got := store.tagSlugs("dQw4w9WgXcQ"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tags: got %v, want %v", got, tt.want)
			}
			calls := store.calls()
			if last := calls[len(calls)-1]; last != tt.call {
				t.Errorf("last call: got %s, want %s", last, tt.call)
			}
		})
	}
}

func TestPipeline_Run_TagSlugHandling(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	p := NewPipeline(testLogger(), store.stores(), passthroughScope(), nil, Config{})

	input := "title,brand,youtube,tags\nA,B,dQw4w9WgXcQ,\"Car, car!, ★, Crème\"\n"
	if _, err := p.Run(context.Background(), "x", readTable(t, input)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.tagSlugs("dQw4w9WgXcQ"); !reflect.DeepEqual(got, []string{"car", "creme"}) {
		t.Errorf("tags: %v", got)
	}
}

func TestPipeline_Run_DryRun(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	tx := passthroughScope()
	p := NewPipeline(testLogger(), store.stores(), tx, nil, Config{DryRun: true})

	res, err := p.Run(context.Background(), "x", readTable(t, sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.DryRun || res.Created != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
	if calls := tx.RunInScopeCalls(); len(calls) != 1 || !calls[0].Discard {
		t.Errorf("expected a discarded scope, got %+v", calls)
	}
}

func TestPipeline_Run_DuplicateVideoInFile(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	p := NewPipeline(testLogger(), store.stores(), passthroughScope(), nil, Config{})

	input := "title,brand,youtube\nFirst,B,dQw4w9WgXcQ\nSecond,B,https://youtu.be/dQw4w9WgXcQ\n"
	res, err := p.Run(context.Background(), "x", readTable(t, input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if got := store.ads["dQw4w9WgXcQ"].Title; got != "Second" {
		t.Errorf("last row should win, got title %q", got)
	}
}

func TestPipeline_Run_MissingColumns(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	tx := passthroughScope()
	rep := &recordingReporter{}
	p := NewPipeline(testLogger(), store.stores(), tx, rep, Config{})

	_, err := p.Run(context.Background(), "x", readTable(t, "title,agency\nA,B\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "brand, youtube") {
		t.Errorf("error should name missing columns: %v", err)
	}
	if len(tx.RunInScopeCalls()) != 0 || len(store.calls()) != 0 || len(rep.events) != 0 {
		t.Error("nothing should run before the header is resolved")
	}
}

func TestPipeline_Run_EmptyInput(t *testing.T) {
	t.Parallel()

	p := NewPipeline(testLogger(), newMemStore().stores(), passthroughScope(), nil, Config{})
	_, err := p.Run(context.Background(), "x", readTable(t, ""))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestPipeline_Run_StoreErrors(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("boom")

	tests := []struct {
		name   string
		set    func(m *memStore)
		target error
	}{
		{"brand", func(m *memStore) { m.brandErr = storeErr }, storeErr},
		{"agency", func(m *memStore) { m.agencyErr = storeErr }, storeErr},
		{"tag", func(m *memStore) { m.tagErr = storeErr }, storeErr},
		{"upsert conflict", func(m *memStore) { m.upsertErr = domain.ErrAlreadyExists }, domain.ErrAlreadyExists},
		{"links", func(m *memStore) { m.linkErr = storeErr }, storeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newMemStore()
			tt.set(store)

			var scopeErr error
			tx := &txScopeMock{
				RunInScopeFunc: func(ctx context.Context, _ bool, fn func(ctx context.Context) error) error {
					scopeErr = fn(ctx)
					return scopeErr
				},
			}
			p := NewPipeline(testLogger(), store.stores(), tx, nil, Config{})

			_, err := p.Run(context.Background(), "x", readTable(t, sampleCSV))
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if !strings.HasPrefix(err.Error(), "line 2: ") {
				t.Errorf("error should name the line: %v", err)
			}
			if !errors.Is(scopeErr, tt.target) {
				t.Error("error should propagate out of the scope so it rolls back")
			}
			if IsStructural(err) {
				t.Error("store errors are not structural")
			}
		})
	}
}

func TestPipeline_RunFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ads.csv")
	data := "\ufeffTitle;Brand;URL\nA;B;https://m.youtube.com/shorts/dQw4w9WgXcQ\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	store := newMemStore()
	rep := &recordingReporter{}
	p := NewPipeline(testLogger(), store.stores(), passthroughScope(), rep, Config{})

	res, err := p.RunFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if want := fmt.Sprintf("loaded 1 %s ;", path); rep.events[0] != want {
		t.Errorf("loaded event: got %q, want %q", rep.events[0], want)
	}
}

func TestPipeline_RunFile_NotFound(t *testing.T) {
	t.Parallel()

	tx := passthroughScope()
	p := NewPipeline(testLogger(), newMemStore().stores(), tx, nil, Config{})

	_, err := p.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if !IsStructural(err) {
		t.Error("expected structural error")
	}
	if len(tx.RunInScopeCalls()) != 0 {
		t.Error("scope must not open for a missing file")
	}
}

func TestPipeline_RunFile_ConfiguredDelimiter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ads.tsv")
	if err := os.WriteFile(path, []byte("title\tbrand\tyoutube\nA, B\tC\tdQw4w9WgXcQ\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := newMemStore()
	p := NewPipeline(testLogger(), store.stores(), passthroughScope(), nil, Config{Delimiter: "\t"})

	res, err := p.RunFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created != 1 || store.ads["dQw4w9WgXcQ"].Title != "A, B" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, data string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name   string
		path   string
		target error
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), ErrFileNotFound},
		{"missing columns", write("cols.csv", "title,agency\nA,B\n"), ErrMissingColumns},
		{"empty file", write("empty.csv", ""), ErrMissingColumns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadFile(tt.path, Config{})
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if table != nil {
				t.Error("no table expected on error")
			}
			if !IsStructural(err) {
				t.Error("expected structural error")
			}
		})
	}

	table, err := LoadFile(write("ok.csv", "Title;Brand;Video\nA;B;dQw4w9WgXcQ\n"), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Delimiter != ';' || len(table.Records) != 1 {
		t.Errorf("unexpected table: %+v", table)
	}
}
