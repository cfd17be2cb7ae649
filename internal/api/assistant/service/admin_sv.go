package assistantService

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	contextPkg "HomeFinder/pkg/context"
	"HomeFinder/pkg/nlp"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *assistantService) ParseQuery(ctx context.Context, utterance string) nlp.SearchCriteria {
	criteria := s.parser.ParseQuery(utterance)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"intent":     criteria.Intent,
	}).Debug("Parsed utterance")

	return criteria
}

func (s *assistantService) RankQuery(ctx context.Context, req assistant.RankRequest) (assistant.RankResponse, error) {
	criteria := s.parser.ParseQuery(req.Utterance)

	ranked, err := s.searchRanked(ctx, req.UserID, criteria)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to rank candidates")
		return assistant.RankResponse{}, err
	}

	return assistant.RankResponse{Criteria: criteria, Results: ranked}, nil
}

func (s *assistantService) GetConversation(ctx context.Context, userID string) (entity.Conversation, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return entity.Conversation{}, err
	}

	return repo.Conversations.GetByUserID(ctx, userID)
}

// ArchiveIdle soft-deletes conversations without activity for idleFor. The
// next event from such a user starts over at the welcome flow.
func (s *assistantService) ArchiveIdle(ctx context.Context, idleFor time.Duration) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return 0, err
	}
	defer repo.Rollback()

	archived, err := repo.Conversations.ArchiveIdle(ctx, s.now().Add(-idleFor))
	if err != nil {
		return 0, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit archive")
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"archived":   archived,
	}).Info("Archived idle conversations")

	return archived, nil
}
