package assistantRepository

import (
	"HomeFinder/internal/entity"
	contextPkg "HomeFinder/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type UserPreferenceDB struct {
	UserID                 sql.NullString  `db:"user_id"`
	PreferredPropertyTypes pq.StringArray  `db:"preferred_property_types"`
	PreferredLocations     pq.StringArray  `db:"preferred_locations"`
	PriceMin               sql.NullFloat64 `db:"price_min"`
	PriceMax               sql.NullFloat64 `db:"price_max"`
	PreferredAmenities     pq.StringArray  `db:"preferred_amenities"`
	UpdatedAt              time.Time       `db:"updated_at"`
}

// GetPreference returns an empty profile for users that never set one.
func (r *userRepository) GetPreference(ctx context.Context, userID string) (entity.UserPreference, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var prefDB UserPreferenceDB

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetPreference, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPreference named query preparation err")
		return entity.UserPreference{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&prefDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.UserPreference{UserID: userID}, nil
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPreference execution err")
		return entity.UserPreference{}, err
	}

	return makePreference(prefDB), nil
}

func (r *userRepository) UpsertPreference(ctx context.Context, pref entity.UserPreference) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"user_id":                  pref.UserID,
		"preferred_property_types": pq.Array(nonNil(pref.PreferredPropertyTypes)),
		"preferred_locations":      pq.Array(nonNil(pref.PreferredLocations)),
		"price_min":                nullFloat(pref.PriceMin),
		"price_max":                nullFloat(pref.PriceMax),
		"preferred_amenities":      pq.Array(nonNil(pref.PreferredAmenities)),
		"updated_at":               pref.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryUpsertPreference, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertPreference named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertPreference execution err")
		return err
	}

	return nil
}

func (r *userRepository) SaveProperty(ctx context.Context, saved entity.SavedProperty) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"user_id":     saved.UserID,
		"property_id": saved.PropertyID,
		"created_at":  saved.CreatedAt,
	}

	query, args, err := sqlx.Named(querySaveProperty, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SaveProperty named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SaveProperty execution err")
		return err
	}

	return nil
}

func (r *userRepository) GetSavedProperties(ctx context.Context, userID string, limit int) ([]entity.Property, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
	}

	query, args, err := sqlx.Named(queryGetSavedProperties, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSavedProperties named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	var rows []PropertyDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSavedProperties execution err")
		return nil, err
	}

	return makeProperties(rows), nil
}

func makePreference(p UserPreferenceDB) entity.UserPreference {
	pref := entity.UserPreference{
		UserID:                 p.UserID.String,
		PreferredPropertyTypes: []string(p.PreferredPropertyTypes),
		PreferredLocations:     []string(p.PreferredLocations),
		PreferredAmenities:     []string(p.PreferredAmenities),
		UpdatedAt:              p.UpdatedAt,
	}
	if p.PriceMin.Valid {
		v := p.PriceMin.Float64
		pref.PriceMin = &v
	}
	if p.PriceMax.Valid {
		v := p.PriceMax.Float64
		pref.PriceMax = &v
	}
	return pref
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
