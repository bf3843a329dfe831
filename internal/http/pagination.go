package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

var errBadPageParam = errors.New("invalid pagination parameter")

type pageParams struct {
	Page  int
	Limit int
}

func (p pageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePageParams reads page and limit from the query string. Absent
// parameters fall back to defaults; present but malformed ones are an
// error rather than being silently corrected.
func parsePageParams(r *http.Request) (pageParams, error) {
	params := pageParams{Page: defaultPage, Limit: defaultLimit}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return pageParams{}, errBadPageParam
		}
		params.Page = page
	}
	rawLimit := q.Get("limit")
	if rawLimit == "" {
		rawLimit = q.Get("page_size")
	}
	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 1 || limit > maxLimit {
			return pageParams{}, errBadPageParam
		}
		params.Limit = limit
	}
	return params, nil
}

type listResponse struct {
	Items           interface{} `json:"items"`
	PageCount       int         `json:"page_count"`
	HasNext         bool        `json:"has_next"`
	HasPrevious     bool        `json:"has_previous"`
	NextPageURL     *string     `json:"next_page_url"`
	PreviousPageURL *string     `json:"previous_page_url"`
}

// newListResponse builds the pagination envelope. Pages past the end
// yield an empty item list with no next link, not an error.
func newListResponse(r *http.Request, params pageParams, items interface{}, total int) listResponse {
	pageCount := (total + params.Limit - 1) / params.Limit

	resp := listResponse{
		Items:       items,
		PageCount:   pageCount,
		HasNext:     params.Page*params.Limit < total,
		HasPrevious: params.Page > 1 && total > 0,
	}
	if resp.HasNext {
		resp.NextPageURL = pageURL(r, params.Page+1, params.Limit)
	}
	if resp.HasPrevious && params.Page-1 <= pageCount {
		resp.PreviousPageURL = pageURL(r, params.Page-1, params.Limit)
	}
	return resp
}

func pageURL(r *http.Request, page, limit int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s%s?page=%d&limit=%d", scheme, r.Host, r.URL.Path, page, limit)
	return &url
}
