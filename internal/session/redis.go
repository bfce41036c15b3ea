package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wizard:session:"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger logger.Logger) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		logger: logger.WithComponent("SessionStore"),
	}
}

func NewRedisFromConfig(client *redis.Client, cfg *config.Config, logger logger.Logger) *Redis {
	return NewRedis(client, cfg.Redis.SessionTTL, logger)
}

var _ Store = (*Redis)(nil)

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (r *Redis) Get(ctx context.Context, userID int64) (*domain.WizardSession, error) {
	raw, err := r.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, apperrors.WrapWithCode(err, apperrors.CodeStorage, "get session")
	}

	var s domain.WizardSession
	if err := json.Unmarshal(raw, &s); err != nil {
		r.logger.Warn("Dropping unreadable session", "user_id", userID, "error", err)
		return nil, ErrCorrupt
	}
	if s.UserID != userID || s.State == "" {
		return nil, ErrCorrupt
	}

	return &s, nil
}

func (r *Redis) Save(ctx context.Context, s *domain.WizardSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.client.Set(ctx, key(s.UserID), raw, r.ttl).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeStorage, "save session")
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeStorage, "delete session")
	}
	return nil
}
