package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/eventbus"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/metrics"
	combatmongo "github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/mongodb"
	combatsql "github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/mysql"
	combathttp "github.com/mungus451/starlight-v2-sub001/internal/combat/interfaces/http"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/rng"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/scheduler"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/config"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/idgen"
	sharedmongo "github.com/mungus451/starlight-v2-sub001/internal/shared/infrastructure/mongo"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/infrastructure/db"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/logs"
	"github.com/mungus451/starlight-v2-sub001/internal/shared/serverconfig"
	sharedhttp "github.com/mungus451/starlight-v2-sub001/internal/shared/transport/http"
	"github.com/mungus451/starlight-v2-sub001/modules/kit/logx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, confPath, err := serverconfig.Load("")
	if err != nil {
		panic(err)
	}
	zl, err := logs.Init("engine", conf.Log)
	if err != nil {
		panic(err)
	}
	defer logs.Sync()
	log := logx.NewZapLogger(zl)
	logs.Info("conf loaded", zap.String("path", confPath), zap.String("store", conf.Engine.Store))

	// 只有日志级别允许热更新，平衡表和存储配置改动需要重启。
	err = config.Watch(confPath, func() any { return serverconfig.Default() }, func(v any, err error) {
		if err != nil {
			logs.Warn("reload conf failed", zap.Error(err))
			return
		}
		lvl := logs.SetLevel(v.(*serverconfig.Config).Log.Level)
		logs.Info("log level reloaded", zap.Stringer("level", lvl))
	})
	if err != nil {
		logs.Fatal("watch conf failed", zap.Error(err))
	}

	cfg, err := balance.Load(balancePath(confPath, conf.BalanceFile))
	if err != nil {
		logs.Fatal("load balance failed", zap.Error(err))
	}

	gdb, err := db.Open(conf)
	if err != nil {
		logs.Fatal("open db failed", zap.Error(err))
	}
	if err := combatsql.AutoMigrate(gdb); err != nil {
		logs.Fatal("migrate failed", zap.Error(err))
	}
	repos := combatsql.NewRepos(gdb)

	seeder, err := rng.NewSeeder(conf.Engine.Seed)
	if err != nil {
		logs.Fatal("init rng failed", zap.Error(err))
	}
	ids, err := idgen.NewSnowflake(conf.Engine.NodeID)
	if err != nil {
		logs.Fatal("init id generator failed", zap.Error(err))
	}
	recorder := metrics.NewRecorder()

	subs := []eventbus.Subscriber{eventbus.NewNotificationLog(log)}
	var (
		mongoClient *mongo.Client
		archive     *combatmongo.EventArchive
	)
	if conf.MongoDB.URI != "" {
		var mdb *mongo.Database
		mongoClient, mdb, err = sharedmongo.Open(conf.MongoDB, log.Zap())
		if err != nil {
			logs.Fatal("open mongodb failed", zap.Error(err))
		}
		archive = combatmongo.NewEventArchive(mdb)
		if err := archive.EnsureIndexes(context.Background()); err != nil {
			logs.Warn("ensure event archive indexes failed", zap.Error(err))
		}
		subs = append(subs, archive)
	}

	bus := eventbus.NewBus(eventbus.Options{
		Outbox:      repos.Outbox,
		Subscribers: subs,
		Log:         log,
		MailboxSize: conf.Engine.EventBuffer,
	})

	engine := app.NewEngine(app.Deps{
		Repos:           repos,
		Balance:         cfg,
		Seeder:          seeder,
		IDs:             ids,
		Publisher:       bus,
		Metrics:         recorder,
		Log:             log,
		TickConcurrency: tickConcurrency(conf),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := eventbus.NewRelay(repos.Outbox, bus, 0, log).Redeliver(ctx); err != nil {
		logs.Warn("outbox redelivery failed", zap.Error(err))
	}

	addr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	srv := sharedhttp.NewHttpServer(addr, log, recorder.Handler())
	srv.AddProbe("db", pingDB(gdb))
	if mongoClient != nil {
		srv.AddProbe("mongodb", func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) })
	}
	if archive != nil {
		combathttp.NewEventsHandler(archive, log).Register(srv.Group())
	}
	combathttp.NewReplayHandler(app.NewReplayService(combatsql.NewReportRepo(gdb), cfg), log).Register(srv.Group())
	go func() {
		logs.Info("ops http server started", zap.String("addr", addr))
		if err := srv.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logs.Error("ops http server stopped", zap.Error(err))
			stop()
		}
	}()

	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		scheduler.NewTicker(engine, conf.Engine.TickInterval, log).Run(ctx)
	}()

	<-ctx.Done()
	logs.Info("收到退出信号，准备优雅退出")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	<-tickDone
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logs.Warn("ops http shutdown", zap.Error(err))
	}
	if err := bus.Flush(shutdownCtx); err != nil {
		logs.Warn("event bus flush", zap.Error(err))
	}
	bus.Shutdown()
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// balancePath 相对路径按 conf.yml 所在目录解析。
func balancePath(confPath, file string) string {
	if file == "" {
		file = "balance.yml"
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(confPath), file)
}

// tickConcurrency sqlite 只有一个连接，并发处理账号没有意义。
func tickConcurrency(conf *serverconfig.Config) int {
	if conf.Engine.Store == "sqlite" {
		return 1
	}
	return conf.Engine.TickConcurrency
}

func pingDB(gdb *gorm.DB) sharedhttp.Probe {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
