package config

import (
	"HomeFinder/database/postgres"
	assistantHandler "HomeFinder/internal/api/assistant/handler"
	assistantRepository "HomeFinder/internal/api/assistant/repository"
	assistantService "HomeFinder/internal/api/assistant/service"
	"HomeFinder/internal/job"
	"HomeFinder/internal/middleware"
	"HomeFinder/pkg/nlp"
	"HomeFinder/pkg/ranking"
	"HomeFinder/pkg/redis"
	"HomeFinder/pkg/s3"
	"HomeFinder/pkg/smtp"
	"HomeFinder/pkg/utils"
	"HomeFinder/pkg/whatsapp"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"os"
	"strings"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	smtpMailer     smtp.ItfSmtp
	whatsappClient whatsapp.IWhatsappClient
	s3Client       s3.ItfS3
	vocabulary     *nlp.Vocabulary
	assistant      assistantService.IAssistantService
	cron           *cron.Cron
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

// WithWhatsappClient pairs the WhatsApp device when WHATSAPP_ENABLED=true.
// Without it the assistant only answers over HTTP and the web socket.
func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		if !strings.EqualFold(os.Getenv("WHATSAPP_ENABLED"), "true") {
			if s.log != nil {
				s.log.Info("WhatsApp transport disabled")
			}
			return nil
		}

		client, err := whatsapp.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

// WithVocabulary loads the keyword tables, overridden by VOCABULARY_FILE when set.
func WithVocabulary() ServerOption {
	return func(s *Server) error {
		path := os.Getenv("VOCABULARY_FILE")
		if path == "" {
			s.vocabulary = nlp.DefaultVocabulary()
			return nil
		}

		vocab, err := nlp.LoadVocabulary(path)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load vocabulary %s: %v", path, err)
			}
			return fmt.Errorf("failed to load vocabulary: %w", err)
		}
		s.vocabulary = vocab
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Assistant Domain
	assistantRepo := assistantRepository.New(s.db, s.log)
	assistantServices := assistantService.NewAssistantService(
		s.log,
		assistantRepo,
		nlp.NewQueryParser(s.vocabulary),
		ranking.New(ranking.DefaultConfig()),
		s.redisServer,
		s.s3Client,
		s.smtpMailer,
		s.utils,
		assistantService.ConfigFromEnv(),
	)
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices, s.utils)

	if s.whatsappClient != nil {
		assistantHandlers.ListenWhatsapp(s.whatsappClient)
	}

	s.assistant = assistantServices
	s.setupHealthCheck()
	s.handlers = append(s.handlers, assistantHandlers)
}

// StartJobs schedules background jobs. It must run after RegisterHandler.
func (s *Server) StartJobs() error {
	if s.assistant == nil {
		return fmt.Errorf("handlers must be registered before jobs")
	}

	c, err := job.StartCronJob(s.log, s.assistant, s.assistant, s.middleware)
	if err != nil {
		return err
	}
	s.cron = c
	return nil
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.whatsappClient != nil {
			_ = s.whatsappClient.Disconnect()
		}
		return err
	}

	return nil
}

// Shutdown stops the jobs and the HTTP server, lets pending effects finish,
// then closes the WhatsApp session and the database.
func (s *Server) Shutdown() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	err := s.engine.Shutdown()

	if s.whatsappClient != nil {
		if dErr := s.whatsappClient.Disconnect(); dErr != nil {
			s.log.Warnf("Failed to disconnect WhatsApp client: %v", dErr)
		}
	}
	if s.assistant != nil {
		s.assistant.WaitEffects()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":  "Server is Healthy!",
			"whatsapp": s.whatsappClient != nil && s.whatsappClient.IsConnected(),
		})
	})
}
