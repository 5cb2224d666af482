package usecase

import (
	"strconv"
	"strings"

	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
)

const (
	defaultPage  = 1
	defaultLimit = 6
	maxLimit     = 50
)

// SearchQuery carries the raw, still-stringly-typed filter parameters of
// a search request.
type SearchQuery struct {
	State       string
	City        string
	Location    string
	MinPrice    string
	MaxPrice    string
	Furnishing  string
	Gender      string
	Preferences []string
	SortBy      string
	Page        string
	Limit       string
}

// SearchParams is the normalized output: a store filter, a sort order and
// an offset window.
type SearchParams struct {
	Filter repository.ListingFilter
	Sort   repository.ListingSort
	Page   int
	Limit  int
	Offset int
}

// ParseSearchQuery validates and normalizes raw query parameters. Absent
// parameters are no-ops; parameters that are present but unparsable are a
// VALIDATION_ERROR rather than being silently dropped.
func ParseSearchQuery(q SearchQuery) (*SearchParams, error) {
	params := &SearchParams{
		Filter: repository.ListingFilter{
			State:      strings.TrimSpace(q.State),
			City:       strings.TrimSpace(q.City),
			Location:   strings.TrimSpace(q.Location),
			Furnishing: strings.TrimSpace(q.Furnishing),
			Gender:     strings.TrimSpace(q.Gender),
		},
		Sort:  repository.SortNewest,
		Page:  defaultPage,
		Limit: defaultLimit,
	}

	minPrice, err := parsePrice("minPrice", q.MinPrice)
	if err != nil {
		return nil, err
	}
	params.Filter.MinPrice = minPrice

	maxPrice, err := parsePrice("maxPrice", q.MaxPrice)
	if err != nil {
		return nil, err
	}
	params.Filter.MaxPrice = maxPrice

	for _, pref := range q.Preferences {
		for _, tag := range strings.Split(pref, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Filter.Preferences = append(params.Filter.Preferences, tag)
			}
		}
	}

	if sortBy := strings.TrimSpace(q.SortBy); sortBy != "" {
		switch repository.ListingSort(sortBy) {
		case repository.SortNewest, repository.SortOldest, repository.SortPriceLow, repository.SortPriceHigh:
			params.Sort = repository.ListingSort(sortBy)
		default:
			return nil, errors.Validation("sortBy must be one of: newest, oldest, price-low, price-high", nil)
		}
	}

	if q.Page != "" {
		page, err := strconv.Atoi(q.Page)
		if err != nil || page < 1 {
			return nil, errors.Validation("page must be a positive integer", err)
		}
		params.Page = page
	}

	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil || limit < 1 || limit > maxLimit {
			return nil, errors.Validation("limit must be an integer between 1 and 50", err)
		}
		params.Limit = limit
	}

	params.Offset = (params.Page - 1) * params.Limit

	return params, nil
}

func parsePrice(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Validation(name+" must be a number", err)
	}
	if value < 0 {
		return nil, errors.Validation(name+" must not be negative", nil)
	}

	return &value, nil
}
