package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	httpadapter "dragonden/internal/adapter/http"
	metricsinmem "dragonden/internal/adapter/metrics/inmemory"
	gormrepo "dragonden/internal/adapter/repo/gorm"
	"dragonden/internal/adapter/repo/memory"
	"dragonden/internal/app/auth"
	"dragonden/internal/app/dragons"
	"dragonden/internal/app/fights"
	"dragonden/internal/app/keeper"
	"dragonden/internal/app/ports"
	"dragonden/internal/app/riders"
	"dragonden/internal/app/shared/ids"
	"dragonden/internal/app/users"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config) (*zap.Logger, error) {
	if cfg.dev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config, log *zap.Logger) error {
	ctx := context.Background()
	st, closeStore, err := buildStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	h := buildHandler(cfg, st, log)
	if err := seed(ctx, cfg, h, log); err != nil {
		closeStore()
		return err
	}

	s := server.New(
		server.WithHostPorts(cfg.Addr),
		server.WithExitWaitTime(5*time.Second),
	)
	s.OnShutdown = append(s.OnShutdown, func(context.Context) { closeStore() })
	h.RegisterRoutes(s)

	log.Info("dragonden listening", zap.String("addr", cfg.Addr), zap.Bool("postgres", cfg.DSN != ""))
	s.Spin()
	return nil
}

type storage struct {
	tx      ports.TxManager
	dragons ports.DragonRepository
	users   ports.UserRepository
	fights  ports.FightRepository
}

// buildStorage picks postgres when a DSN is configured and the in-memory store otherwise.
func buildStorage(ctx context.Context, cfg config, log *zap.Logger) (storage, func(), error) {
	if cfg.DSN == "" {
		log.Warn("DRAGONDEN_DB_DSN not set, using in-memory store")
		store := memory.NewStore()
		return storage{
			tx:      memory.NewTxManager(store),
			dragons: memory.NewDragonRepo(store),
			users:   memory.NewUserRepo(store),
			fights:  memory.NewFightRepo(store),
		}, func() {}, nil
	}

	db, err := gormrepo.OpenPostgres(cfg.DSN, log)
	if err != nil {
		return storage{}, nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return storage{}, nil, fmt.Errorf("postgres handle: %w", err)
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("close postgres", zap.Error(err))
		}
	}
	if cfg.Migrate {
		if err := gormrepo.ApplyMigrations(ctx, db, log); err != nil {
			closeDB()
			return storage{}, nil, fmt.Errorf("apply migrations: %w", err)
		}
	}
	return storage{
		tx:      gormrepo.NewTxManager(db),
		dragons: gormrepo.NewDragonRepo(db),
		users:   gormrepo.NewUserRepo(db),
		fights:  gormrepo.NewFightRepo(db),
	}, closeDB, nil
}

func buildHandler(cfg config, st storage, log *zap.Logger) httpadapter.Handler {
	kpi := metricsinmem.NewRecorder()
	tokens := auth.Tokens{Key: cfg.JWTKey, TTL: cfg.TokenTTL}
	now := time.Now

	return httpadapter.Handler{
		SignupUC: auth.SignupUseCase{Users: st.users, TxManager: st.tx, Metrics: kpi, Now: now, NewID: ids.New},
		LoginUC:  auth.LoginUseCase{Users: st.users, Tokens: tokens, Metrics: kpi, Now: now},
		AuthUC:   auth.VerifyUseCase{Users: st.users, Tokens: tokens, Now: now},
		UsersUC: users.UseCase{
			TxManager: st.tx, Users: st.users, Dragons: st.dragons, Fights: st.fights, Metrics: kpi, Now: now,
		},
		DragonsUC: dragons.UseCase{
			TxManager: st.tx, Dragons: st.dragons, Users: st.users, Fights: st.fights, Metrics: kpi, Now: now, NewID: ids.New,
		},
		RidersUC: riders.UseCase{TxManager: st.tx, Dragons: st.dragons, Users: st.users, Metrics: kpi, Now: now},
		KeeperUC: keeper.UseCase{TxManager: st.tx, Dragons: st.dragons, Users: st.users, Metrics: kpi, Now: now},
		FightsUC: fights.UseCase{
			TxManager: st.tx, Dragons: st.dragons, Users: st.users, Fights: st.fights, Metrics: kpi, Now: now, NewID: ids.New,
		},
		KPI: kpi,
		Log: log,
	}
}

func seed(ctx context.Context, cfg config, h httpadapter.Handler, log *zap.Logger) error {
	if cfg.AdminPassword != "" {
		created, err := auth.SeedAdminUseCase{
			Users:     h.SignupUC.Users,
			TxManager: h.SignupUC.TxManager,
			Now:       h.SignupUC.Now,
			NewID:     h.SignupUC.NewID,
		}.Execute(ctx, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if created {
			log.Info("seeded admin account", zap.String("username", auth.AdminUsername))
		}
	}
	if cfg.SeedDragons {
		n, err := h.DragonsUC.SeedDemo(ctx)
		if err != nil {
			return fmt.Errorf("seed dragons: %w", err)
		}
		if n > 0 {
			log.Info("seeded demo dragons", zap.Int("count", n))
		}
	}
	return nil
}
