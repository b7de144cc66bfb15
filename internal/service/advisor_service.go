package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/advisor"
	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

const advisorPromptTemplate = `Role: Senior IT Support engineer.
Problem: %s
Category: %s
Asset: %s

Provide short, practical remediation steps as bullet points.`

// SuggestionClient is the outbound text-generation contract.
type SuggestionClient interface {
	Suggest(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}

// AdvisorService produces remediation suggestions for a ticket on explicit
// admin request. Results are cached so repeated clicks on the same ticket do
// not re-spend upstream quota.
type AdvisorService struct {
	client  SuggestionClient
	tickets *TicketService
	cache   *redis.Client
	cfg     config.AdvisorConfig
	logger  *zap.Logger
}

// NewAdvisorService constructs the service. cache may be nil; suggestions
// then go straight to the upstream API every time.
func NewAdvisorService(client SuggestionClient, tickets *TicketService, cache *redis.Client, cfg config.AdvisorConfig, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{
		client:  client,
		tickets: tickets,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
	}
}

// Suggest returns remediation advice for the ticket. Three outcomes reach
// the caller distinctly: a suggestion, a quota-exhausted notice, or a
// generic upstream failure. None of them affect the ticket itself.
func (s *AdvisorService) Suggest(ctx context.Context, ticketID int64) (string, error) {
	if !s.client.Enabled() {
		return "", apperrors.NewUnavailable("ADVISOR_DISABLED", "advisor integration is not configured")
	}

	item, err := s.tickets.Lookup(ctx, ticketID)
	if err != nil {
		return "", err
	}

	cacheKey := fmt.Sprintf("advisor:ticket:%d", ticketID)
	if cached := s.cacheGet(ctx, cacheKey); cached != "" {
		return cached, nil
	}

	suggestion, err := s.client.Suggest(ctx, buildAdvisorPrompt(item.Ticket))
	if err != nil {
		if errors.Is(err, advisor.ErrQuotaExhausted) {
			return "", apperrors.NewUnavailable("ADVISOR_QUOTA_EXHAUSTED", "suggestion quota exhausted, try again later")
		}
		s.logger.Warn("advisor call failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
		return "", apperrors.NewUnavailable("ADVISOR_FAILED", "could not fetch a suggestion")
	}

	s.cacheSet(ctx, cacheKey, suggestion)
	return suggestion, nil
}

func buildAdvisorPrompt(ticket domain.Ticket) string {
	asset := "General"
	if ticket.RelatedAsset != nil && *ticket.RelatedAsset != "" {
		asset = *ticket.RelatedAsset
	}
	return fmt.Sprintf(advisorPromptTemplate, ticket.Description, ticket.Category, asset)
}

func (s *AdvisorService) cacheGet(ctx context.Context, key string) string {
	if s.cache == nil {
		return ""
	}
	val, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("advisor cache read failed", zap.Error(err))
		}
		return ""
	}
	return val
}

func (s *AdvisorService) cacheSet(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL()).Err(); err != nil {
		s.logger.Debug("advisor cache write failed", zap.Error(err))
	}
}
