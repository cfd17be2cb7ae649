package assistantRepository

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	contextPkg "HomeFinder/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ConversationDB struct {
	ID           sql.NullString `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	Flow         sql.NullString `db:"flow"`
	Step         sql.NullString `db:"step"`
	Context      sql.NullString `db:"context"`
	Archived     sql.NullBool   `db:"archived"`
	CreatedAt    time.Time      `db:"created_at"`
	LastActivity time.Time      `db:"last_activity"`
}

func (r *conversationRepository) GetByUserID(ctx context.Context, userID string) (entity.Conversation, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var conversationDB ConversationDB

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetConversationByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUserID named query preparation err")
		return entity.Conversation{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&conversationDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    userID,
			}).Debug("GetByUserID no conversation found")
			return entity.Conversation{}, assistant.ErrConversationNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUserID execution err")
		return entity.Conversation{}, err
	}

	return r.makeConversation(conversationDB), nil
}

func (r *conversationRepository) Save(ctx context.Context, conversation entity.Conversation) error {
	requestID := contextPkg.GetRequestID(ctx)

	contextJSON, err := json.Marshal(conversation.Context)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal conversation context")
		return err
	}

	argsKV := map[string]interface{}{
		"id":            conversation.ID,
		"user_id":       conversation.UserID,
		"flow":          string(conversation.Flow),
		"step":          string(conversation.Step),
		"context":       string(contextJSON),
		"created_at":    conversation.CreatedAt,
		"last_activity": conversation.LastActivity,
	}

	query, args, err := sqlx.Named(querySaveConversation, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Save named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Save execution err")
		return err
	}

	return nil
}

func (r *conversationRepository) ArchiveIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"cutoff": cutoff,
	}

	query, args, err := sqlx.Named(queryArchiveIdleConversations, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ArchiveIdle named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ArchiveIdle execution err")
		return 0, err
	}

	return result.RowsAffected()
}

func (r *conversationRepository) makeConversation(conversationDB ConversationDB) entity.Conversation {
	var convContext entity.ConversationContext
	if conversationDB.Context.Valid && conversationDB.Context.String != "" {
		if err := json.Unmarshal([]byte(conversationDB.Context.String), &convContext); err != nil {
			r.log.WithFields(logrus.Fields{
				"conversation_id": conversationDB.ID.String,
				"error":           err.Error(),
			}).Warn("Discarding unreadable conversation context")
			convContext = entity.ConversationContext{}
		}
	}

	return entity.Conversation{
		ID:           conversationDB.ID.String,
		UserID:       conversationDB.UserID.String,
		Flow:         entity.Flow(conversationDB.Flow.String),
		Step:         entity.Step(conversationDB.Step.String),
		Context:      convContext,
		Archived:     conversationDB.Archived.Bool,
		CreatedAt:    conversationDB.CreatedAt,
		LastActivity: conversationDB.LastActivity,
	}
}
