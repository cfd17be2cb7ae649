package assistantRepository

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	contextPkg "HomeFinder/pkg/context"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const defaultCandidateLimit = 50

type PropertyDB struct {
	ID           sql.NullString  `db:"id"`
	Title        sql.NullString  `db:"title"`
	Description  sql.NullString  `db:"description"`
	Location     sql.NullString  `db:"location"`
	Address      sql.NullString  `db:"address"`
	Price        sql.NullFloat64 `db:"price"`
	PropertyType sql.NullString  `db:"property_type"`
	Bedrooms     sql.NullInt64   `db:"bedrooms"`
	Bathrooms    sql.NullInt64   `db:"bathrooms"`
	Amenities    pq.StringArray  `db:"amenities"`
	Rating       sql.NullFloat64 `db:"rating"`
	Images       pq.StringArray  `db:"images"`
	Verified     sql.NullBool    `db:"verified"`
	IsFeatured   sql.NullBool    `db:"is_featured"`
	IsAvailable  sql.NullBool    `db:"is_available"`
	AgentName    sql.NullString  `db:"agent_name"`
	AgentPhone   sql.NullString  `db:"agent_phone"`
	AgentEmail   sql.NullString  `db:"agent_email"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r *propertyRepository) SearchCandidates(ctx context.Context, filter entity.PropertyFilter) ([]entity.Property, error) {
	requestID := contextPkg.GetRequestID(ctx)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	conditions := []string{"is_available = TRUE"}
	argsKV := map[string]interface{}{
		"limit": limit,
	}

	if patterns := locationPatterns(filter.Location); len(patterns) > 0 {
		conditions = append(conditions, "location ILIKE ANY(:location_patterns)")
		argsKV["location_patterns"] = pq.Array(patterns)
	}
	if filter.PropertyType != "" {
		conditions = append(conditions, "property_type = :property_type")
		argsKV["property_type"] = filter.PropertyType
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= :min_price")
		argsKV["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= :max_price")
		argsKV["max_price"] = *filter.MaxPrice
	}
	if filter.Bedrooms != nil {
		conditions = append(conditions, "bedrooms = :bedrooms")
		argsKV["bedrooms"] = *filter.Bedrooms
	}

	query, args, err := sqlx.Named(fmt.Sprintf(querySearchCandidates, strings.Join(conditions, " AND ")), argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SearchCandidates named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	var rows []PropertyDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SearchCandidates execution err")
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"conditions": len(conditions),
		"count":      len(rows),
	}).Debug("SearchCandidates fetched candidates")

	return makeProperties(rows), nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (entity.Property, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var propertyDB PropertyDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetPropertyByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.Property{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&propertyDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Property{}, assistant.ErrPropertyNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.Property{}, err
	}

	return makeProperty(propertyDB), nil
}

// GetByIDs returns the found properties in the order of ids.
func (r *propertyRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Property, error) {
	requestID := contextPkg.GetRequestID(ctx)
	if len(ids) == 0 {
		return nil, nil
	}

	argsKV := map[string]interface{}{
		"ids": pq.Array(ids),
	}

	query, args, err := sqlx.Named(queryGetPropertiesByIDs, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByIDs named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	var rows []PropertyDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByIDs execution err")
		return nil, err
	}

	byID := make(map[string]entity.Property, len(rows))
	for _, p := range makeProperties(rows) {
		byID[p.ID] = p
	}

	ordered := make([]entity.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

func (r *propertyRepository) GetFeatured(ctx context.Context, limit int) ([]entity.Property, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"limit": limit,
	}

	query, args, err := sqlx.Named(queryGetFeaturedProperties, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetFeatured named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	var rows []PropertyDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetFeatured execution err")
		return nil, err
	}

	return makeProperties(rows), nil
}

// locationPatterns turns "great soppo" into ILIKE patterns matching any of its words.
func locationPatterns(location string) []string {
	var patterns []string
	for _, word := range strings.Fields(strings.ToLower(location)) {
		if len(word) < 2 {
			continue
		}
		patterns = append(patterns, "%"+word+"%")
	}
	return patterns
}

func makeProperties(rows []PropertyDB) []entity.Property {
	properties := make([]entity.Property, 0, len(rows))
	for _, row := range rows {
		properties = append(properties, makeProperty(row))
	}
	return properties
}

func makeProperty(p PropertyDB) entity.Property {
	var rating *float64
	if p.Rating.Valid {
		v := p.Rating.Float64
		rating = &v
	}

	return entity.Property{
		ID:           p.ID.String,
		Title:        p.Title.String,
		Description:  p.Description.String,
		Location:     p.Location.String,
		Address:      p.Address.String,
		Price:        p.Price.Float64,
		PropertyType: p.PropertyType.String,
		Bedrooms:     int(p.Bedrooms.Int64),
		Bathrooms:    int(p.Bathrooms.Int64),
		Amenities:    []string(p.Amenities),
		Rating:       rating,
		Images:       []string(p.Images),
		Verified:     p.Verified.Bool,
		IsFeatured:   p.IsFeatured.Bool,
		IsAvailable:  p.IsAvailable.Bool,
		AgentName:    p.AgentName.String,
		AgentPhone:   p.AgentPhone.String,
		AgentEmail:   p.AgentEmail.String,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
