package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"max.ks1230/fintrack-ml/internal/model/health"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

// PostgresStorage persists assessments in the health_assessments table.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) SaveAssessment(ctx context.Context, userID string, a health.Assessment, at time.Time) error {
	query := psql.Insert("health_assessments").
		Columns("user_id", "overall_score", "grade", "assessed_at").
		Values(userID, a.OverallScore, a.Grade, at)

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save assessment")
}

func (s *PostgresStorage) UserHistory(ctx context.Context, userID string, since time.Time) ([]HealthRecord, error) {
	query := psql.Select("user_id", "overall_score", "grade", "assessed_at").
		From("health_assessments").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"assessed_at": since}).
		OrderBy("assessed_at ASC")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get history")
	}
	defer rows.Close()

	recs := make([]HealthRecord, 0)
	for rows.Next() {
		var r HealthRecord
		if err = rows.Scan(&r.UserID, &r.OverallScore, &r.Grade, &r.AssessedAt); err != nil {
			return nil, errors.Wrap(err, "get history")
		}
		recs = append(recs, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get history")
	}
	return recs, nil
}
