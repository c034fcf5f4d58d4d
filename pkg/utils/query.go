package utils

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"fixtrack/pkg/types"
)

const MaxLimit = 100

// MaxPage верхняя граница номера страницы, (MaxPage-1)*MaxLimit помещается в int32.
const MaxPage = 1_000_000

// ParseFilterFromQuery читает page/limit/search и перечисленные фильтры.
// Фильтр можно передать как ?status=x или как ?filter[status]=x.
func ParseFilterFromQuery(values url.Values, defaultLimit int, filterKeys ...string) types.Filter {
	filterReq := types.Filter{
		Filter: make(map[string]string),
		Limit:  defaultLimit,
		Page:   1,
		Search: strings.TrimSpace(values.Get("search")),
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		switch {
		case errors.Is(err, strconv.ErrRange) && p > 0:
			filterReq.Page = MaxPage
		case err == nil && p > MaxPage:
			filterReq.Page = MaxPage
		case err == nil && p > 0:
			filterReq.Page = p
		}
	}
	filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit

	for _, key := range filterKeys {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			filterReq.Filter[key] = v
			continue
		}
		if v := strings.TrimSpace(values.Get("filter[" + key + "]")); v != "" {
			filterReq.Filter[key] = v
		}
	}

	return filterReq
}
