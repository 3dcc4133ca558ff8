package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/fintrack-ml/internal/model/health"
)

func Test_InMemStorage_ShouldReturnHistoryOldestFirst(t *testing.T) {
	s := NewInMemStorage()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveAssessment(ctx, "u1", health.Assessment{OverallScore: 70, Grade: "B"}, base.AddDate(0, 1, 0)))
	require.NoError(t, s.SaveAssessment(ctx, "u1", health.Assessment{OverallScore: 65, Grade: "B-"}, base))
	require.NoError(t, s.SaveAssessment(ctx, "u2", health.Assessment{OverallScore: 90, Grade: "A+"}, base))

	records, err := s.UserHistory(ctx, "u1", base.AddDate(0, 0, -1))
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, 65.0, records[0].OverallScore)
	assert.Equal(t, 70.0, records[1].OverallScore)
}

func Test_InMemStorage_ShouldFilterByCutoff(t *testing.T) {
	s := NewInMemStorage()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveAssessment(ctx, "u1", health.Assessment{OverallScore: 60, Grade: "C+"}, base.AddDate(0, -8, 0)))
	require.NoError(t, s.SaveAssessment(ctx, "u1", health.Assessment{OverallScore: 72, Grade: "B"}, base))

	records, err := s.UserHistory(ctx, "u1", base.AddDate(0, -6, 0))
	require.NoError(t, err)

	assert.Len(t, records, 1)
	assert.Equal(t, "B", records[0].Grade)
}

func Test_InMemStorage_ShouldReturnEmptyForUnknownUser(t *testing.T) {
	s := NewInMemStorage()

	records, err := s.UserHistory(context.Background(), "nobody", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
