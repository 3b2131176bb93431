package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/yoke/internal/state"
)

const sessionsKey = "sessions"

type DBManager struct {
	client *redisClient.Client
}

// NewDBManager connects to the TLS endpoint at addr (host:port).
func NewDBManager(addr, password string) (*DBManager, error) {
	opt, err := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", password, addr))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &DBManager{client: redisClient.NewClient(opt)}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redisClient.Client) *DBManager {
	return &DBManager{client: client}
}

func (redis *DBManager) Ping(ctx context.Context) error {
	return redis.client.Ping(ctx).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

// SaveSessions stores the whole session list.
func (redis *DBManager) SaveSessions(ctx context.Context, sessions []state.Session) error {
	listJSON, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return redis.client.Set(ctx, sessionsKey, listJSON, 0).Err()
}

// LoadSessions returns the stored list, empty when nothing was saved yet.
func (redis *DBManager) LoadSessions(ctx context.Context) ([]state.Session, error) {
	data, err := redis.client.Get(ctx, sessionsKey).Bytes()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return []state.Session{}, nil
		}
		return nil, err
	}
	return decodeSessions(data)
}

func decodeSessions(data []byte) ([]state.Session, error) {
	var list []state.Session
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	if list == nil {
		list = []state.Session{}
	}
	return list, nil
}

func songCountKey(username string) string {
	return "performances:" + username
}

// IncrementSongCount counts one more performance of songID by username.
func (redis *DBManager) IncrementSongCount(ctx context.Context, username string, songID string) error {
	err := redis.client.HIncrBy(ctx, songCountKey(username), songID, 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment song count for user %s and song ID %s: %w", username, songID, err)
	}
	return nil
}

// GetSongCounts retrieves the song counts for a user
func (redis *DBManager) GetSongCounts(ctx context.Context, username string) (map[string]int, error) {
	raw, err := redis.client.HGetAll(ctx, songCountKey(username)).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return map[string]int{}, nil
		}
		return nil, err
	}
	return parseCounts(raw), nil
}

func parseCounts(raw map[string]string) map[string]int {
	result := make(map[string]int, len(raw))
	for songID, count := range raw {
		countInt, err := strconv.Atoi(count)
		if err != nil {
			continue // skip invalid counts
		}
		result[songID] = countInt
	}
	return result
}
