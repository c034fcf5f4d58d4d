package db

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixtrack/internal/entities"
)

func TestApplyOrderFilter_BuildsAllConditions(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tech := uint64(4)
	f := entities.OrderFilter{
		Statuses:     []string{"completed", "closed"},
		ServiceType:  "equipment_repair",
		TechnicianID: &tech,
		Search:       "FIX",
		StartDate:    &start,
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("o.id").From("orders o")
	query, args, err := ApplyPagination(ApplyOrderFilter(builder, f), 20, 40).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "o.status IN ($1,$2)")
	assert.Contains(t, query, "o.service_type = $3")
	assert.Contains(t, query, "o.assigned_technician_id = $4")
	assert.Contains(t, query, "o.ticket_code ILIKE $5")
	assert.Contains(t, query, "o.created_at >= $8")
	assert.Contains(t, query, "LIMIT 20 OFFSET 40")
	assert.Len(t, args, 8)
	assert.Equal(t, "%FIX%", args[4])
}

func TestApplyPagination_NoLimit(t *testing.T) {
	query, _, err := ApplyPagination(sq.Select("1").From("orders o"), 0, 10).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
}
