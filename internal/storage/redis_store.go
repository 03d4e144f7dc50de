package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Unnamed1242/mkw-sp/internal/settings"
)

const (
	// Redis key 前缀
	roomSettingsKeyPrefix = "room_settings:"
	sessionKeyPrefix      = "room_session:"

	// 会话记录过期时间
	sessionExpiration = 24 * time.Hour
)

// ErrStaleSettings is returned when stored settings no longer match the registry.
var ErrStaleSettings = errors.New("storage: stored room settings do not match registry")

// RoomSettingsData 房间设置（用于 Redis 序列化），按设置名保存以免注册表顺序变化
type RoomSettingsData struct {
	Settings map[string]uint32 `json:"settings"`
	SavedAt  int64             `json:"saved_at"`
}

// SessionData 最近一次房间会话记录
type SessionData struct {
	SessionID  string
	ServerAddr string
	State      string
	Players    int
	StartedAt  int64
}

// RedisStore Redis 存储
type RedisStore struct {
	client   *redis.Client
	registry *settings.Registry
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, registry *settings.Registry) *RedisStore {
	if registry == nil {
		registry = settings.DefaultRegistry()
	}
	return &RedisStore{client: client, registry: registry}
}

// Ping checks the connection.
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// --- 房间设置 ---

// SaveRoomSettings 保存本地房间设置默认值
func (rs *RedisStore) SaveRoomSettings(ctx context.Context, key string, values settings.Values) error {
	if err := rs.registry.Validate(values); err != nil {
		return err
	}

	data := RoomSettingsData{
		Settings: make(map[string]uint32, len(values)),
		SavedAt:  time.Now().Unix(),
	}
	for i, e := range rs.registry.Entries() {
		data.Settings[e.Name] = values[i]
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间设置失败: %w", err)
	}
	return rs.client.Set(ctx, roomSettingsKeyPrefix+key, jsonData, 0).Err()
}

// LoadRoomSettings 加载房间设置，不存在时返回 nil, nil
func (rs *RedisStore) LoadRoomSettings(ctx context.Context, key string) (settings.Values, error) {
	raw, err := rs.client.Get(ctx, roomSettingsKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var data RoomSettingsData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("反序列化房间设置失败: %w", err)
	}

	values := make(settings.Values, rs.registry.Len())
	for i, e := range rs.registry.Entries() {
		v, ok := data.Settings[e.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrStaleSettings, e.Name)
		}
		values[i] = v
	}
	if err := rs.registry.Validate(values); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStaleSettings, err)
	}
	return values, nil
}

// DeleteRoomSettings 删除房间设置
func (rs *RedisStore) DeleteRoomSettings(ctx context.Context, key string) error {
	return rs.client.Del(ctx, roomSettingsKeyPrefix+key).Err()
}

// --- 会话记录 ---

// SaveSession 保存会话记录
func (rs *RedisStore) SaveSession(ctx context.Context, key string, session *SessionData) error {
	data := map[string]any{
		"session_id":  session.SessionID,
		"server_addr": session.ServerAddr,
		"state":       session.State,
		"players":     session.Players,
		"started_at":  session.StartedAt,
	}

	k := sessionKeyPrefix + key
	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, k, data)
	pipe.Expire(ctx, k, sessionExpiration)
	_, err := pipe.Exec(ctx)
	return err
}

// LoadSession 加载会话记录，不存在时返回 nil, nil
func (rs *RedisStore) LoadSession(ctx context.Context, key string) (*SessionData, error) {
	data, err := rs.client.HGetAll(ctx, sessionKeyPrefix+key).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	players, _ := strconv.Atoi(data["players"])
	startedAt, _ := strconv.ParseInt(data["started_at"], 10, 64)
	return &SessionData{
		SessionID:  data["session_id"],
		ServerAddr: data["server_addr"],
		State:      data["state"],
		Players:    players,
		StartedAt:  startedAt,
	}, nil
}

// DeleteSession 删除会话记录
func (rs *RedisStore) DeleteSession(ctx context.Context, key string) error {
	return rs.client.Del(ctx, sessionKeyPrefix+key).Err()
}
