package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/czar/internal/models"
)

const (
	// Key prefixes for Redis
	resultKeyPrefix      = "result:"
	channelResultsPrefix = "channel_results:"
	leaderboardPrefix    = "leaderboard:"
	gamesPlayedPrefix    = "games_played:"
	nicksPrefix          = "nicks:"
)

// ErrResultNotFound is returned when a result is not found
var ErrResultNotFound = errors.New("result not found")

// Config holds configuration for the Redis results repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed results repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveResult persists a finished game to Redis
func (r *redisRepository) SaveResult(ctx context.Context, input *SaveResultInput) error {
	if input == nil || input.Result == nil {
		return errors.New("input and result cannot be nil")
	}
	if input.Result.ID == "" || input.Result.ChannelID == "" {
		return errors.New("result ID and channel ID cannot be empty")
	}

	result := input.Result
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	resultKey := resultKeyPrefix + result.ID
	channelKey := channelResultsPrefix + result.ChannelID
	leaderboardKey := leaderboardPrefix + result.ChannelID
	gamesKey := gamesPlayedPrefix + result.ChannelID
	nicksKey := nicksPrefix + result.ChannelID

	// Saving the same result twice must not count its points twice
	exists, err := r.client.Exists(ctx, resultKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, resultKey, resultJSON, 0)
	pipe.ZAdd(ctx, channelKey, redis.Z{
		Score:  float64(result.EndedAt.UnixNano()),
		Member: result.ID,
	})
	if exists == 0 {
		for _, score := range result.Scores {
			pipe.ZIncrBy(ctx, leaderboardKey, float64(score.Points), score.IdentityKey)
			pipe.HIncrBy(ctx, gamesKey, score.IdentityKey, 1)
			if score.Nick != "" {
				pipe.HSet(ctx, nicksKey, score.IdentityKey, score.Nick)
			}
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// GetResult retrieves a finished game by ID from Redis
func (r *redisRepository) GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	resultJSON, err := r.client.Get(ctx, resultKeyPrefix+input.GameID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.GameResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// GetChannelResults retrieves the most recent finished games of a channel
func (r *redisRepository) GetChannelResults(ctx context.Context, input *GetChannelResultsInput) (*GetChannelResultsOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	ids, err := r.client.ZRevRange(ctx, channelResultsPrefix+input.ChannelID, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel results: %w", err)
	}
	if len(ids) == 0 {
		return &GetChannelResultsOutput{Results: []*models.GameResult{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = resultKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	results := make([]*models.GameResult, 0, len(values))
	for _, value := range values {
		str, ok := value.(string)
		if !ok {
			// result expired or was removed
			continue
		}
		var result models.GameResult
		if err := json.Unmarshal([]byte(str), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return &GetChannelResultsOutput{
		Results: results,
	}, nil
}

// GetLeaderboard retrieves the all-time point totals of a channel
func (r *redisRepository) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	scores, err := r.client.ZRevRangeWithScores(ctx, leaderboardPrefix+input.ChannelID, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	if len(scores) == 0 {
		return &GetLeaderboardOutput{Entries: []*models.LeaderboardEntry{}}, nil
	}

	members := make([]string, len(scores))
	for i, z := range scores {
		members[i] = z.Member.(string)
	}

	pipe := r.client.Pipeline()
	nicksCmd := pipe.HMGet(ctx, nicksPrefix+input.ChannelID, members...)
	gamesCmd := pipe.HMGet(ctx, gamesPlayedPrefix+input.ChannelID, members...)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get leaderboard details: %w", err)
	}
	nicks := nicksCmd.Val()
	games := gamesCmd.Val()

	entries := make([]*models.LeaderboardEntry, 0, len(scores))
	for i, z := range scores {
		entry := &models.LeaderboardEntry{
			IdentityKey: members[i],
			Nick:        members[i],
			Points:      int(z.Score),
		}
		if i < len(nicks) {
			if nick, ok := nicks[i].(string); ok {
				entry.Nick = nick
			}
		}
		if i < len(games) {
			if played, ok := games[i].(string); ok {
				entry.Games, _ = strconv.Atoi(played)
			}
		}
		entries = append(entries, entry)
	}

	return &GetLeaderboardOutput{
		Entries: entries,
	}, nil
}
