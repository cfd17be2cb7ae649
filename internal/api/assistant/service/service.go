package assistantService

import (
	"HomeFinder/internal/api/assistant"
	assistantRepository "HomeFinder/internal/api/assistant/repository"
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/limiter"
	"HomeFinder/pkg/nlp"
	"HomeFinder/pkg/ranking"
	"HomeFinder/pkg/redis"
	"HomeFinder/pkg/s3"
	"HomeFinder/pkg/smtp"
	"HomeFinder/pkg/utils"
	"HomeFinder/pkg/whatsapp"
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type IAssistantService interface {
	// ProcessEvent runs one inbound chat event through the conversation state
	// machine and delivers the replies through sender.
	ProcessEvent(ctx context.Context, sender whatsapp.IWhatsappSender, event assistant.InboundEvent) error
	ParseQuery(ctx context.Context, utterance string) nlp.SearchCriteria
	RankQuery(ctx context.Context, req assistant.RankRequest) (assistant.RankResponse, error)
	GetConversation(ctx context.Context, userID string) (entity.Conversation, error)
	ArchiveIdle(ctx context.Context, idleFor time.Duration) (int64, error)
	// SweepRateLimits drops per-sender rate buckets idle since before now.
	SweepRateLimits(now time.Time) int
	WaitEffects()
}

type Config struct {
	PageSize          int
	CandidateLimit    int
	FeaturedLimit     int
	SavedLimit        int
	CompareLimit      int
	GalleryLimit      int
	ChatRatePerMinute int
	DedupeTTL         time.Duration
	EffectTimeout     time.Duration
	PublicBaseURL     string
}

func DefaultConfig() Config {
	return Config{
		PageSize:          3,
		CandidateLimit:    50,
		FeaturedLimit:     9,
		SavedLimit:        9,
		CompareLimit:      3,
		GalleryLimit:      5,
		ChatRatePerMinute: 30,
		DedupeTTL:         24 * time.Hour,
		EffectTimeout:     30 * time.Second,
		PublicBaseURL:     "https://homefinder.cm",
	}
}

// ConfigFromEnv overlays CHAT_RATE_PER_MINUTE, EVENT_DEDUPE_TTL,
// EFFECT_TIMEOUT and PUBLIC_BASE_URL on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v, err := strconv.Atoi(os.Getenv("CHAT_RATE_PER_MINUTE")); err == nil && v >= 0 {
		cfg.ChatRatePerMinute = v
	}
	if v, err := time.ParseDuration(os.Getenv("EVENT_DEDUPE_TTL")); err == nil && v > 0 {
		cfg.DedupeTTL = v
	}
	if v, err := time.ParseDuration(os.Getenv("EFFECT_TIMEOUT")); err == nil && v > 0 {
		cfg.EffectTimeout = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.PublicBaseURL = v
	}

	return cfg
}

type assistantService struct {
	log      *logrus.Logger
	repo     assistantRepository.Repository
	parser   nlp.IQueryParser
	ranker   ranking.IRanker
	redis    redis.IRedis
	s3Client s3.ItfS3
	mailer   smtp.ItfSmtp
	utils    utils.IUtils
	limiter  *limiter.Keyed
	cfg      Config
	now      func() time.Time
	effects  sync.WaitGroup
}

// NewAssistantService wires the state machine. redisClient, s3Client and
// mailer may be nil, which disables de-duplication, image presigning and
// agent emails respectively.
func NewAssistantService(
	log *logrus.Logger,
	repo assistantRepository.Repository,
	parser nlp.IQueryParser,
	ranker ranking.IRanker,
	redisClient redis.IRedis,
	s3Client s3.ItfS3,
	mailer smtp.ItfSmtp,
	utils utils.IUtils,
	cfg Config,
) IAssistantService {
	return newAssistantService(log, repo, parser, ranker, redisClient, s3Client, mailer, utils, cfg)
}

func newAssistantService(
	log *logrus.Logger,
	repo assistantRepository.Repository,
	parser nlp.IQueryParser,
	ranker ranking.IRanker,
	redisClient redis.IRedis,
	s3Client s3.ItfS3,
	mailer smtp.ItfSmtp,
	utils utils.IUtils,
	cfg Config,
) *assistantService {
	defaults := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = defaults.CandidateLimit
	}
	if cfg.FeaturedLimit <= 0 {
		cfg.FeaturedLimit = defaults.FeaturedLimit
	}
	if cfg.SavedLimit <= 0 {
		cfg.SavedLimit = defaults.SavedLimit
	}
	if cfg.CompareLimit <= 0 {
		cfg.CompareLimit = defaults.CompareLimit
	}
	if cfg.GalleryLimit <= 0 {
		cfg.GalleryLimit = defaults.GalleryLimit
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = defaults.DedupeTTL
	}
	if cfg.EffectTimeout <= 0 {
		cfg.EffectTimeout = defaults.EffectTimeout
	}

	return &assistantService{
		log:      log,
		repo:     repo,
		parser:   parser,
		ranker:   ranker,
		redis:    redisClient,
		s3Client: s3Client,
		mailer:   mailer,
		utils:    utils,
		limiter:  limiter.PerMinute(cfg.ChatRatePerMinute),
		cfg:      cfg,
		now:      time.Now,
	}
}
