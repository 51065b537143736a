// Command import-ads loads ads from a CSV file into the catalog, creating
// brands, agencies and tags as needed and updating ads already known by
// their YouTube video ID.
//
// Usage:
//
//	import-ads [flags] <file>
//
// Flags:
//
//	--dry-run        run everything inside a transaction that is rolled back
//	--append-tags    add tags to existing ones instead of replacing them
//	--delimiter      field delimiter (default: detected from the header)
//	--import-config  path to import YAML config file
//	--version        print version and exit
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres/ad"
	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres/agency"
	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres/brand"
	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres/tag"
	"github.com/heartmarshall/adcatalog-backend/internal/app"
	"github.com/heartmarshall/adcatalog-backend/internal/app/adimport"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// Compile-time interface assertions.
var (
	_ adimport.BrandStore  = (*brand.Repo)(nil)
	_ adimport.AgencyStore = (*agency.Repo)(nil)
	_ adimport.TagStore    = (*tag.Repo)(nil)
	_ adimport.AdStore     = (*ad.Repo)(nil)
	_ adimport.TxScope     = (*postgres.TxManager)(nil)
)

func main() {
	os.Exit(run())
}

func run() int {
	dryRunFlag := flag.Bool("dry-run", false, "roll back all writes at the end of the run")
	appendTagsFlag := flag.Bool("append-tags", false, "add tags instead of replacing existing ones")
	delimiterFlag := flag.String("delimiter", "", "field delimiter (default: detect from header)")
	importConfigFlag := flag.String("import-config", "", "path to import YAML config file")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag {
		fmt.Println(app.BuildVersion())
		return 0
	}

	// Flags may also follow the file name.
	args := flag.Args()
	if len(args) > 1 {
		path := args[0]
		if err := flag.CommandLine.Parse(args[1:]); err != nil {
			return 2
		}
		args = append([]string{path}, flag.Args()...)
	}
	if len(args) != 1 {
		flag.Usage()
		return 2
	}
	path := args[0]

	importCfg, err := adimport.LoadConfig(*importConfigFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load import config: %v\n", err)
		return 1
	}

	// CLI flags override config.
	if *dryRunFlag {
		importCfg.DryRun = true
	}
	if *appendTagsFlag {
		importCfg.AppendTags = true
	}
	if *delimiterFlag != "" {
		importCfg.Delimiter = *delimiterFlag
		if err := importCfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "--delimiter: %v\n", err)
			return 2
		}
	}

	// Reject bad input before loading app config or connecting.
	table, err := adimport.LoadFile(path, *importCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		return 1
	}

	env, err := app.Setup("import-ads")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v\n", err)
		return 1
	}
	logger := env.Log

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := env.Connect(ctx); err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return 1
	}
	defer env.Close()

	pool := env.Pool
	stores := adimport.Stores{
		Brands:   brand.New(pool),
		Agencies: agency.New(pool),
		Tags:     tag.New(pool),
		Ads:      ad.New(pool),
	}
	reporter := adimport.WriterReporter{Out: os.Stdout, Err: os.Stderr}

	pipeline := adimport.NewPipeline(logger, stores, postgres.NewTxManager(pool), reporter, *importCfg)
	res, err := pipeline.Run(ctx, path, table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		switch {
		case adimport.IsStructural(err):
			logger.Error("input rejected", slog.String("error", err.Error()))
		case errors.Is(err, domain.ErrAlreadyExists):
			logger.Error("conflicting catalog data, nothing was written", slog.String("error", err.Error()))
		default:
			logger.Error("import failed, nothing was written", slog.String("error", err.Error()))
		}
		return 1
	}

	adimport.Summary(os.Stdout, res)
	return 0
}
