package assistantRepository

import (
	"HomeFinder/internal/entity"
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Conversations: &conversationRepository{q: sqlExecutor, log: r.log},
		Properties:    &propertyRepository{q: sqlExecutor, log: r.log},
		Users:         &userRepository{q: sqlExecutor, log: r.log},
		Interactions:  &interactionRepository{q: sqlExecutor, log: r.log},
		Bookings:      &bookingRepository{q: sqlExecutor, log: r.log},
		Commit:        commitFunc,
		Rollback:      rollbackFunc,
	}, nil
}

type Client struct {
	Conversations interface {
		GetByUserID(ctx context.Context, userID string) (entity.Conversation, error)
		Save(ctx context.Context, conversation entity.Conversation) error
		ArchiveIdle(ctx context.Context, cutoff time.Time) (int64, error)
	}

	Properties interface {
		SearchCandidates(ctx context.Context, filter entity.PropertyFilter) ([]entity.Property, error)
		GetByID(ctx context.Context, id string) (entity.Property, error)
		GetByIDs(ctx context.Context, ids []string) ([]entity.Property, error)
		GetFeatured(ctx context.Context, limit int) ([]entity.Property, error)
	}

	Users interface {
		GetPreference(ctx context.Context, userID string) (entity.UserPreference, error)
		UpsertPreference(ctx context.Context, pref entity.UserPreference) error
		SaveProperty(ctx context.Context, saved entity.SavedProperty) error
		GetSavedProperties(ctx context.Context, userID string, limit int) ([]entity.Property, error)
	}

	Interactions interface {
		Record(ctx context.Context, interaction entity.Interaction) error
	}

	Bookings interface {
		Create(ctx context.Context, booking entity.TourBooking) error
	}

	Commit   func() error
	Rollback func() error
}

type conversationRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type propertyRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type userRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type interactionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type bookingRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
