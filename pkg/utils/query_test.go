package utils

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, _ := url.ParseQuery("page=3&limit=15&search=%20%D0%B8%D0%B2%D0%B0%D0%BD%20&status=closed&filter[service_type]=equipment_repair&ignored=1")

	f := ParseFilterFromQuery(values, 20, "status", "service_type", "missing")

	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 15, f.Limit)
	assert.Equal(t, 30, f.Offset)
	assert.Equal(t, "иван", f.Search)
	assert.Equal(t, "closed", f.Value("status"))
	assert.Equal(t, "equipment_repair", f.Value("service_type"))
	assert.Equal(t, "", f.Value("ignored"))
	assert.Len(t, f.Filter, 2)
}

func TestParseFilterFromQuery_DefaultsAndCaps(t *testing.T) {
	values, _ := url.ParseQuery("page=-1&limit=1000")
	f := ParseFilterFromQuery(values, 20)

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
}

func TestParseFilterFromQuery_HugePageIsClamped(t *testing.T) {
	for _, page := range []string{"9223372036854775807", "99999999999999999999999", "1000001"} {
		values := url.Values{"page": {page}, "limit": {"50"}}
		f := ParseFilterFromQuery(values, 20)

		assert.Equal(t, MaxPage, f.Page, page)
		assert.Equal(t, (MaxPage-1)*50, f.Offset, page)
		assert.Positive(t, f.Offset, page)
	}

	f := ParseFilterFromQuery(url.Values{"page": {"-99999999999999999999999"}}, 20)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 0, f.Offset)
}

func TestEndOfDayAndParseDate(t *testing.T) {
	d, ok := ParseDate("2024-03-05")
	assert.True(t, ok)
	end := EndOfDay(*d)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 999*time.Millisecond, time.Duration(end.Nanosecond()))

	_, ok = ParseDate("05/03/2024")
	assert.False(t, ok)
}

func TestMergeUnique(t *testing.T) {
	assert.Equal(t, []string{"зарядка", "чехол", "кабель"}, MergeUnique([]string{"зарядка", "чехол"}, []string{"чехол", "кабель", "кабель"}))
	assert.Equal(t, []string{}, MergeUnique(nil, nil))
}
