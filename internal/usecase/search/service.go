package search

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/region"
	"github.com/kailas-cloud/tradex/internal/logger"
)

// Service handles listing search: validation, compilation and execution of
// filters, plus the plain listing endpoints.
type Service struct {
	schemas         SchemaProvider
	repo            Repository
	hits            HitRecorder
	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(schemas SchemaProvider, repo Repository, hits HitRecorder, defaultPageSize, maxPageSize int) *Service {
	return &Service{
		schemas:         schemas,
		repo:            repo,
		hits:            hits,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Search validates and compiles the filter, then executes it newest-first.
// The schema is fetched fresh per call; it is hot-reloadable operator state.
func (s *Service) Search(ctx context.Context, f domain.Filter) (domain.AdPage, error) {
	sch, err := s.schemas.Fetch(ctx)
	if err != nil {
		return domain.AdPage{}, fmt.Errorf("fetch schema: %w", err)
	}

	if err := Validate(f, sch); err != nil {
		return domain.AdPage{}, err
	}

	pred, err := Compile(f, sch)
	if err != nil {
		return domain.AdPage{}, err
	}

	offset, limit := s.paginate(f.Page, f.PerPage)
	page, err := s.repo.Search(ctx, pred, offset, limit)
	if err != nil {
		return domain.AdPage{}, fmt.Errorf("execute search: %w", err)
	}
	return page, nil
}

// List returns listings, optionally restricted to one listing type.
func (s *Service) List(ctx context.Context, listingType domain.ListingType, pageNum, perPage int) (domain.AdPage, error) {
	offset, limit := s.paginate(pageNum, perPage)
	page, err := s.repo.List(ctx, listingType, offset, limit)
	if err != nil {
		return domain.AdPage{}, fmt.Errorf("list ads: %w", err)
	}
	return page, nil
}

// Get returns a single listing and records a sampled view hit. The hit is a
// side concern; a counter failure never withholds the listing.
func (s *Service) Get(ctx context.Context, id int64) (domain.Ad, error) {
	ad, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Ad{}, err
	}
	if err := s.hits.Hit(ctx, "ad:"+strconv.FormatInt(id, 10)); err != nil {
		logger.FromContext(ctx).Warn("record listing hit failed",
			zap.Int64("listing_id", id), zap.Error(err))
	}
	return ad, nil
}

// Options is the search-options payload: everything a client needs to build
// a filter form.
type Options struct {
	Categories   []string            `json:"categories"`
	ListingTypes []string            `json:"listing_types"`
	Fields       map[string][]string `json:"fields"`
	Regions      []RegionOptions     `json:"regions"`
}

// RegionOptions is a country with its display-abbreviated states.
type RegionOptions struct {
	Name   string   `json:"name"`
	States []string `json:"states"`
}

// Options returns the current filterable values, with state names
// abbreviated for display.
func (s *Service) Options(ctx context.Context) (Options, error) {
	sch, err := s.schemas.Fetch(ctx)
	if err != nil {
		return Options{}, fmt.Errorf("fetch schema: %w", err)
	}

	fields := make(map[string][]string)
	for _, f := range sch.Fields() {
		if len(f.Options) > 0 {
			fields[f.Name] = f.Options
		}
	}

	regions := make([]RegionOptions, 0, len(sch.Regions()))
	for _, r := range sch.Regions() {
		states := make([]string, len(r.States))
		for i, st := range r.States {
			states[i] = region.Abbreviate(st, r.Name)
		}
		regions = append(regions, RegionOptions{Name: r.Name, States: states})
	}

	return Options{
		Categories:   sch.CategoryNames(),
		ListingTypes: []string{string(domain.ListingDealer), string(domain.ListingPrivate)},
		Fields:       fields,
		Regions:      regions,
	}, nil
}

func (s *Service) paginate(pageNum, perPage int) (offset, limit int) {
	if perPage <= 0 {
		perPage = s.defaultPageSize
	}
	if perPage > s.maxPageSize {
		perPage = s.maxPageSize
	}
	if pageNum < 1 {
		pageNum = 1
	}
	return perPage * (pageNum - 1), perPage
}
