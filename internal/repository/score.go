package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	leaderboardKey = "leaderboard"
	gameLogsKey    = "game:logs"
)

// ScoreRepository keeps win tallies and the append-only win log.
// Tallies only ever increment; the log grows unbounded, newest first.
type ScoreRepository interface {
	RecordWin(ctx context.Context, winnerID, loserID string) error
	Standings(ctx context.Context) ([]entity.Score, error)
	Logs(ctx context.Context) ([]string, error)
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) RecordWin(ctx context.Context, winnerID, loserID string) error {
	line := fmt.Sprintf("%s won against %s at %s", winnerID, loserID, time.Now().Format(time.RFC1123))

	if err := that.client.LPush(ctx, gameLogsKey, line).Err(); err != nil {
		return fmt.Errorf("failed to push game log: %w", err)
	}

	if err := that.client.ZIncrBy(ctx, leaderboardKey, 1, winnerID).Err(); err != nil {
		return fmt.Errorf("failed to increment win count: %w", err)
	}

	return nil
}

func (that *dbScore) Standings(ctx context.Context) ([]entity.Score, error) {
	members, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	standings := make([]entity.Score, 0, len(members))
	for _, member := range members {
		playerID, ok := member.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected leaderboard member type %T", member.Member)
		}

		standings = append(standings, entity.Score{
			PlayerID: playerID,
			Wins:     int(member.Score),
		})
	}

	return standings, nil
}

func (that *dbScore) Logs(ctx context.Context) ([]string, error) {
	logs, err := that.client.LRange(ctx, gameLogsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game logs: %w", err)
	}

	if logs == nil {
		logs = []string{}
	}

	return logs, nil
}
