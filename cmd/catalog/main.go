// Command catalog prints catalog listings as JSON.
//
// Usage:
//
//	catalog recent
//	catalog search [-q text] [-tag slug] [-year n] [-brand slug] [-agency slug] [-page n] [-page-size n]
//	catalog brands | agencies | tags
//	catalog brand <slug> [-page n] [-page-size n]
//	catalog agency <slug> [-page n] [-page-size n]
//	catalog ad <youtube-url-or-id>
//	catalog credit [-company agency-slug] <youtube-url-or-id> <role> <person>
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	postgres "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres/ad"
	catalogrepo "github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres/catalog"
	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres/credit"
	"github.com/heartmarshall/adcatalog-backend/internal/app"
	"github.com/heartmarshall/adcatalog-backend/internal/domain"
	"github.com/heartmarshall/adcatalog-backend/internal/service/catalog"
)

const usage = `usage:
  catalog recent
  catalog search [-q text] [-tag slug] [-year n] [-brand slug] [-agency slug] [-page n] [-page-size n]
  catalog brands | agencies | tags
  catalog brand <slug> [-page n] [-page-size n]
  catalog agency <slug> [-page n] [-page-size n]
  catalog ad <youtube-url-or-id>
  catalog credit [-company agency-slug] <youtube-url-or-id> <role> <person>

credit roles: CD CW AD DIR DOP EDIT CLR PM VFX
`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	if args[0] == "-version" || args[0] == "--version" {
		fmt.Println(app.BuildVersion())
		return 0
	}

	env, err := app.Setup("catalog")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v\n", err)
		return 1
	}
	logger := env.Log

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := env.Connect(ctx); err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return 1
	}
	defer env.Close()

	svc := catalog.NewService(
		logger,
		catalogrepo.New(env.Pool),
		ad.New(env.Pool),
		credit.New(env.Pool),
		postgres.NewTxManager(env.Pool),
		env.Config.Catalog,
	)

	out, err := dispatch(ctx, svc, args[0], args[1:])
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usage)
		return 2
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	case err != nil:
		logger.Error("catalog "+args[0], slog.String("error", err.Error()))
		return 1
	}

	if err := writeJSON(os.Stdout, out); err != nil {
		logger.Error("write output", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, svc *catalog.Service, command string, args []string) (any, error) {
	switch command {
	case "recent":
		return svc.RecentAds(ctx)
	case "brands":
		return svc.Brands(ctx)
	case "agencies":
		return svc.Agencies(ctx)
	case "tags":
		return svc.Tags(ctx)
	case "search":
		input, err := parseSearch(args)
		if err != nil {
			return nil, err
		}
		return svc.Search(ctx, input)
	case "brand":
		input, err := parseDetail(args)
		if err != nil {
			return nil, err
		}
		return svc.BrandDetail(ctx, input)
	case "agency":
		input, err := parseDetail(args)
		if err != nil {
			return nil, err
		}
		return svc.AgencyDetail(ctx, input)
	case "ad":
		if len(args) != 1 {
			return nil, errUsage
		}
		return svc.AdDetail(ctx, args[0])
	case "credit":
		input, err := parseCredit(args)
		if err != nil {
			return nil, err
		}
		added, err := svc.AddCredit(ctx, input)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"added": added}, nil
	default:
		return nil, errUsage
	}
}

func parseSearch(args []string) (catalog.SearchInput, error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	q := fs.String("q", "", "text matched against title, brand and agency")
	tagSlug := fs.String("tag", "", "tag slug")
	year := fs.String("year", "", "release year")
	brandSlug := fs.String("brand", "", "brand slug")
	agencySlug := fs.String("agency", "", "agency slug")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", 0, "page size (default from config)")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return catalog.SearchInput{}, errUsage
	}

	input := catalog.SearchInput{
		Query:      *q,
		TagSlug:    *tagSlug,
		BrandSlug:  *brandSlug,
		AgencySlug: *agencySlug,
		Page:       *page,
		PageSize:   *pageSize,
	}
	// Non-numeric years are ignored rather than rejected.
	if y, err := strconv.Atoi(*year); err == nil && y >= 0 {
		input.Year = &y
	}
	return input, nil
}

func parseDetail(args []string) (catalog.DetailInput, error) {
	if len(args) == 0 {
		return catalog.DetailInput{}, errUsage
	}
	fs := flag.NewFlagSet("detail", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", 0, "page size (default from config)")
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() > 0 {
		return catalog.DetailInput{}, errUsage
	}
	return catalog.DetailInput{Slug: args[0], Page: *page, PageSize: *pageSize}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseCredit(args []string) (catalog.CreditInput, error) {
	fs := flag.NewFlagSet("credit", flag.ContinueOnError)
	company := fs.String("company", "", "agency slug the person worked for")
	if err := fs.Parse(args); err != nil || fs.NArg() != 3 {
		return catalog.CreditInput{}, errUsage
	}
	return catalog.CreditInput{
		VideoRef:   fs.Arg(0),
		Role:       domain.CreditRole(strings.ToUpper(fs.Arg(1))),
		Person:     fs.Arg(2),
		AgencySlug: *company,
	}, nil
}
