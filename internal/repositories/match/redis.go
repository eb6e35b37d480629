package match

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	"github.com/KirkDiggler/not-enough-mana/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/not-enough-mana/internal/redis"
)

const (
	matchKeyPrefix = "match:"
	codeKeyPrefix  = "match:code:"
	activeSetKey   = "match:active"

	// finishedTTL keeps finished matches around long enough to be viewed
	finishedTTL = 24 * time.Hour

	// watchBuffer is how many undelivered updates a slow watcher may lag
	watchBuffer = 16

	// deletedMessage is published when a match is removed
	deletedMessage = ""

	errMatchNil     = "match cannot be nil"
	errMatchIDEmpty = "match ID cannot be empty"
	errCodeEmpty    = "join code cannot be empty"
)

func matchKey(id string) string {
	return matchKeyPrefix + id
}

func codeKey(code string) string {
	return codeKeyPrefix + NormalizeCode(code)
}

func updatesChannel(id string) string {
	return matchKeyPrefix + id + ":updates"
}

// NormalizeCode is the canonical form of a join code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis match repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed match repository. Each match is one JSON
// document; every commit is published on the match's updates channel.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func validateMatch(m *entities.Match) error {
	if m == nil {
		return errors.InvalidArgument(errMatchNil)
	}
	if m.ID == "" {
		return errors.InvalidArgument(errMatchIDEmpty)
	}
	if NormalizeCode(m.Code) == "" {
		return errors.InvalidArgument(errCodeEmpty)
	}
	return nil
}

func ttlFor(m *entities.Match) time.Duration {
	if m.Status == entities.MatchStatusFinished {
		return finishedTTL
	}
	return 0
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateMatch(input.Match); err != nil {
		return nil, err
	}

	m := input.Match.Clone()
	m.Code = NormalizeCode(m.Code)
	m.Version = 1
	now := r.clock.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal match")
	}

	exists, err := r.client.Exists(ctx, matchKey(m.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("match with ID %s already exists", m.ID)
	}

	// The code index doubles as the uniqueness lock
	claimed, err := r.client.SetNX(ctx, codeKey(m.Code), m.ID, ttlFor(m)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to claim join code")
	}
	if !claimed {
		return nil, errors.AlreadyExistsf("join code %s is already in use", m.Code)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, matchKey(m.ID), data, ttlFor(m))
	if m.Status != entities.MatchStatusFinished {
		pipe.SAdd(ctx, activeSetKey, m.ID)
	}
	pipe.Publish(ctx, updatesChannel(m.ID), data)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create match")
	}

	slog.InfoContext(ctx, "match created", "match_id", m.ID, "code", m.Code)
	return &CreateOutput{Match: m}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	m, err := r.load(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Match: m}, nil
}

func (r *redisRepository) GetByCode(ctx context.Context, input GetByCodeInput) (*GetOutput, error) {
	if NormalizeCode(input.Code) == "" {
		return nil, errors.InvalidArgument(errCodeEmpty)
	}

	id, err := r.client.Get(ctx, codeKey(input.Code)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no match with code %s", NormalizeCode(input.Code))
		}
		return nil, errors.Wrapf(err, "failed to resolve join code")
	}

	return r.Get(ctx, GetInput{ID: id})
}

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisRepository) load(ctx context.Context, g getter, id string) (*entities.Match, error) {
	result, err := g.Get(ctx, matchKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("match with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get match")
	}

	var m entities.Match
	if err := json.Unmarshal([]byte(result), &m); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal match")
	}
	return &m, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateMatch(input.Match); err != nil {
		return nil, err
	}

	id := input.Match.ID
	var stored *entities.Match

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Version != input.ExpectedVersion {
			return errors.Aborted("match was changed by another player").
				WithMeta("expected_version", input.ExpectedVersion).
				WithMeta("stored_version", current.Version)
		}

		next := input.Match.Clone()
		next.Code = current.Code
		next.CreatedAt = current.CreatedAt
		next.Version = current.Version + 1
		next.UpdatedAt = r.clock.Now()

		data, err := json.Marshal(next)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal match")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, matchKey(id), data, ttlFor(next))
			if next.Status == entities.MatchStatusFinished {
				pipe.SRem(ctx, activeSetKey, id)
				pipe.Expire(ctx, codeKey(next.Code), finishedTTL)
			} else {
				pipe.SAdd(ctx, activeSetKey, id)
			}
			pipe.Publish(ctx, updatesChannel(id), data)
			return nil
		})
		if err != nil {
			return err
		}
		stored = next
		return nil
	}, matchKey(id))

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, errors.Aborted("match was changed by another player")
		}
		return nil, errors.Wrapf(err, "failed to update match")
	}

	return &UpdateOutput{Match: stored}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	m, err := r.load(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, matchKey(m.ID))
	pipe.Del(ctx, codeKey(m.Code))
	pipe.SRem(ctx, activeSetKey, m.ID)
	pipe.Publish(ctx, updatesChannel(m.ID), deletedMessage)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete match")
	}

	slog.InfoContext(ctx, "match deleted", "match_id", m.ID)
	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListActive(ctx context.Context, _ ListActiveInput) (*ListActiveOutput, error) {
	ids, err := r.client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list active matches")
	}
	sort.Strings(ids)
	return &ListActiveOutput{IDs: ids}, nil
}

func (r *redisRepository) Watch(ctx context.Context, input WatchInput) (*WatchOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMatchIDEmpty)
	}

	sub := r.client.Subscribe(ctx, updatesChannel(input.ID))
	// Wait for the subscription so no publish after return is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.Wrapf(err, "failed to subscribe to match %s", input.ID)
	}

	out := make(chan *entities.Match, watchBuffer)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok || msg.Payload == deletedMessage {
					return
				}
				var m entities.Match
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					slog.WarnContext(ctx, "dropping undecodable match update",
						"match_id", input.ID, "error", err)
					continue
				}
				select {
				case out <- &m:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return &WatchOutput{Updates: out}, nil
}
