package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Unnamed1242/mkw-sp/internal/config"
	"github.com/Unnamed1242/mkw-sp/internal/debugapi"
	"github.com/Unnamed1242/mkw-sp/internal/lobby"
	"github.com/Unnamed1242/mkw-sp/internal/logger"
	"github.com/Unnamed1242/mkw-sp/internal/metrics"
	"github.com/Unnamed1242/mkw-sp/internal/profile"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
	"github.com/Unnamed1242/mkw-sp/internal/sound"
	"github.com/Unnamed1242/mkw-sp/internal/storage"
	"github.com/Unnamed1242/mkw-sp/internal/transport"
	"github.com/Unnamed1242/mkw-sp/internal/ui"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	envPath := flag.String("env", ".env", "环境变量文件")
	reset := flag.Bool("reset", false, "清除该档案保存的房间设置和会话记录")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("加载环境变量文件失败: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("环境变量无效: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	if err := logger.Init(cfg.Log.Dir); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	if err := run(cfg, *reset); err != nil {
		logger.LogError("room client exited: %v", err)
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, reset bool) error {
	registry := settings.DefaultRegistry()

	prof, err := profile.FromConfig(cfg.Profile, cfg.Session.LocalPlayers, registry)
	if err != nil {
		return err
	}
	login, err := cfg.Server.LoginInfo()
	if err != nil {
		return err
	}

	store := openStore(cfg.Redis, registry)
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		restoreProfile(ctx, store, prof, reset)
		cancel()
	}

	tcfg := transport.DefaultConfig(cfg.Server.URL())
	tcfg.HandshakeTimeout = cfg.Server.HandshakeTimeoutDuration()
	ctx, cancel := context.WithTimeout(context.Background(), tcfg.HandshakeTimeout)
	tr, err := transport.Dial(ctx, tcfg)
	cancel()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	obs, err := metrics.New("room", reg)
	if err != nil {
		_ = tr.Close()
		return err
	}

	client, err := lobby.NewClient(lobby.ClientConfig{
		LocalPlayers: cfg.Session.LocalPlayers,
		ServerAddr:   cfg.Server.Addr,
		Passcode:     cfg.Server.Passcode,
		LoginInfo:    login,
		Registry:     registry,
	}, tr, prof, lobby.WithObserver(obs))
	if err != nil {
		_ = tr.Close()
		return err
	}

	debug := debugapi.New(reg)
	if cfg.Debug.Addr != "" {
		debug.Start(cfg.Debug.Addr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = debug.Shutdown(ctx)
		}()
	}

	snd := sound.NewManager(cfg.Sound.Dir)
	if cfg.Sound.Enabled {
		if err := snd.Init(); err != nil {
			logger.LogWarn("sound disabled: %v", err)
		}
	}
	defer snd.Close()

	opts := ui.Options{
		TickInterval: cfg.Session.TickInterval(),
		Settings:     prof,
		Publisher:    debug,
		Sound:        snd,
	}
	if store != nil {
		opts.Store = store
	}

	model := ui.NewRoomModel(client, opts)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		_ = client.Close()
		return fmt.Errorf("启动客户端时出错: %w", err)
	}
	return model.Err()
}

// openStore 连接 Redis，失败时返回 nil 并继续运行
func openStore(cfg config.RedisConfig, registry *settings.Registry) *storage.RedisStore {
	if !cfg.Enabled {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	store := storage.NewRedisStore(rdb, registry)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		logger.LogWarn("redis unavailable at %s, settings will not be saved: %v", cfg.Addr, err)
		_ = rdb.Close()
		return nil
	}
	return store
}

// restoreProfile 恢复该档案上次的会话记录和房间设置；reset 时改为清除两者
func restoreProfile(ctx context.Context, store *storage.RedisStore, prof *profile.Profile, reset bool) *storage.SessionData {
	key := prof.Key()
	if reset {
		if err := store.DeleteRoomSettings(ctx, key); err != nil {
			logger.LogWarn("clearing room settings for %q: %v", key, err)
		}
		if err := store.DeleteSession(ctx, key); err != nil {
			logger.LogWarn("clearing session record for %q: %v", key, err)
		}
		logger.LogInfo("cleared stored data for %q", key)
		return nil
	}

	prev, err := store.LoadSession(ctx, key)
	switch {
	case err != nil:
		logger.LogWarn("loading session record for %q: %v", key, err)
	case prev != nil:
		logger.LogInfo("previous session %s on %s left in %s with %d players, started %s",
			prev.SessionID, prev.ServerAddr, prev.State, prev.Players,
			time.Unix(prev.StartedAt, 0).Format(time.DateTime))
	}

	loadStoredSettings(ctx, store, prof)
	return prev
}

// loadStoredSettings 用上次保存的房间设置覆盖配置文件中的默认值
func loadStoredSettings(ctx context.Context, store *storage.RedisStore, prof *profile.Profile) {
	values, err := store.LoadRoomSettings(ctx, prof.Key())
	switch {
	case errors.Is(err, storage.ErrStaleSettings):
		logger.LogWarn("ignoring stored room settings for %q: %v", prof.Key(), err)
	case err != nil:
		logger.LogWarn("loading room settings for %q: %v", prof.Key(), err)
	case values != nil:
		if err := prof.SetRoomSettings(values); err != nil {
			logger.LogWarn("stored room settings rejected: %v", err)
			return
		}
		logger.LogInfo("restored room settings for %q", prof.Key())
	}
}
