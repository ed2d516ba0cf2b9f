package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"example.com/cipher/internal/auth"
	"example.com/cipher/internal/config"
	"example.com/cipher/internal/game"
	"example.com/cipher/internal/httpapi"
	"example.com/cipher/internal/store"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db  *pgxpool.Pool
	rdb *redis.Client

	srv *http.Server
}

type Options struct {
	Static http.Handler // optional; if nil, no frontend is served
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts Options) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// --- Postgres ---
	dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})

	// Quick connectivity checks (fail fast).
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := dbpool.Ping(pingCtx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
	}

	// --- Auth service ---
	authSvc := auth.NewService([]byte(cfg.Auth.Secret))

	// --- Stores ---
	users := store.NewUserStore(dbpool)
	stats := store.NewStatsStore(dbpool)
	messages := store.NewMessageStore(dbpool)

	authH := &httpapi.AuthHandler{
		Users:    users,
		Stats:    stats,
		Auth:     authSvc,
		TokenTTL: cfg.Auth.TokenTTL,
	}
	historyH := &httpapi.HistoryHandler{Messages: messages}

	// --- Game ---
	persist := game.NewRedisRoomStore(rdb, cfg.Redis.RoomTTL)
	gameCfg := game.Config{
		TotalRounds:  cfg.Game.TotalRounds,
		RoundLength:  cfg.Game.RoundLength,
		WordsPerTurn: cfg.Game.WordsPerTurn,
	}
	rooms := game.NewRoomService(gameCfg, persist, log)

	// Room hooks write through to Postgres off the arbiter goroutine.
	rooms.SetMessageHook(func(m game.MessageRecord) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := messages.Append(ctx, store.Message{
				RoomCode:   m.RoomCode,
				PlayerID:   m.PlayerID,
				PlayerName: m.PlayerName,
				Content:    m.Content,
				Type:       string(m.Type),
				Team:       string(m.Team),
				CreatedAt:  m.CreatedAt,
			}); err != nil {
				log.Error("message append failed", "room", m.RoomCode, "err", err)
			}
		}()
	})
	rooms.SetStatsHook(func(roomCode, playerID string, delta game.PlayerStats) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := stats.AddDelta(ctx, playerID, delta.WordsGuessed, delta.TotalPoints, delta.DescriberPoints); err != nil {
				log.Error("stats update failed", "room", roomCode, "player", playerID, "err", err)
			}
		}()
	})

	gameSrv := game.NewServer(rooms, []byte(cfg.Auth.Secret))
	gameSrv.SetHistory(func(ctx context.Context, code string) ([]game.MessageRecord, error) {
		recs, err := messages.Recent(ctx, code, 50)
		if err != nil {
			return nil, err
		}
		out := make([]game.MessageRecord, 0, len(recs))
		for _, m := range recs {
			out = append(out, game.MessageRecord{
				ID:         m.ID,
				RoomCode:   m.RoomCode,
				PlayerID:   m.PlayerID,
				PlayerName: m.PlayerName,
				Content:    m.Content,
				Type:       game.MessageType(m.Type),
				Team:       game.Team(m.Team),
				CreatedAt:  m.CreatedAt,
			})
		}
		return out, nil
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	gameSrv.RegisterRoutes(mux)

	// --- auth routes ---
	mux.HandleFunc("/api/auth/register", authH.Register)
	mux.HandleFunc("/api/auth/login", authH.Login)
	mux.HandleFunc("/api/auth/guest", authH.Guest)
	mux.Handle("/api/me", httpapi.AuthMiddleware(authSvc)(http.HandlerFunc(authH.Me)))
	mux.HandleFunc("/api/history/", historyH.Recent)

	if opts.Static != nil {
		mux.Handle("/", opts.Static)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, db: dbpool, rdb: rdb, srv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

func (a *App) Close(ctx context.Context) error {
	// best-effort
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
