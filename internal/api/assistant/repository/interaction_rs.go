package assistantRepository

import (
	"HomeFinder/internal/entity"
	contextPkg "HomeFinder/pkg/context"
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *interactionRepository) Record(ctx context.Context, interaction entity.Interaction) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":          interaction.ID,
		"user_id":     interaction.UserID,
		"property_id": interaction.PropertyID,
		"action":      interaction.Action,
		"created_at":  interaction.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateInteraction, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Record named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Record execution err")
		return err
	}

	return nil
}

func (r *bookingRepository) Create(ctx context.Context, booking entity.TourBooking) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":          booking.ID,
		"user_id":     booking.UserID,
		"property_id": booking.PropertyID,
		"details":     booking.Details,
		"status":      string(booking.Status),
		"created_at":  booking.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateBooking, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create booking named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create booking execution err")
		return err
	}

	return nil
}
