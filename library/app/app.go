package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/config"
	"github.com/bookwise/library-service/library/internal/handler"
	"github.com/bookwise/library-service/library/internal/model"
	"github.com/bookwise/library-service/library/internal/notify"
	"github.com/bookwise/library-service/library/internal/repository"
	"github.com/bookwise/library-service/library/internal/server"
	"github.com/bookwise/library-service/library/internal/service"
	"github.com/bookwise/library-service/library/migrations"
	"github.com/bookwise/library-service/pkg/auth0"
	"github.com/bookwise/library-service/pkg/kafka"
	"github.com/bookwise/library-service/pkg/logger"
	"github.com/bookwise/library-service/pkg/postgres"
)

const devTokenTTL = 24 * time.Hour

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var (
		pub      notify.Publisher
		producer sarama.SyncProducer
	)
	if cfg.Kafka.Enabled() {
		if err = kafka.CreateTopics(cfg.Kafka, kafka.NotificationTopic); err != nil {
			log.Fatal("kafka.CreateTopics", zap.Error(err))
		}
		producer, err = kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewSyncProducer", zap.Error(err))
		}
		pub = notify.NewKafkaPublisher(producer, kafka.NotificationTopic)
	} else {
		log.Warn("kafka is not configured, notifications are only logged")
		pub = notify.NewLogPublisher(log)
	}
	dispatcher := notify.NewDispatcher(repo, pub, cfg.Notify, log)

	svc := service.NewService(repo, dispatcher, log, service.WithPolicy(cfg.Policy))

	validator, err := auth0.NewValidator(cfg.Auth0)
	if err != nil {
		log.Fatal("auth0.NewValidator", zap.Error(err))
	}
	var opts []handler.Option
	if !cfg.Auth0.Enable {
		opts = append(opts, handler.WithTokenIssuer(func(u model.User) (string, error) {
			return auth0.IssueToken(cfg.Auth0.Secret, u.ID, u.Email, devTokenTTL)
		}))
	}
	h := handler.New(svc, svc, validator, log, opts...)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	jobDone := make(chan struct{})
	go func() {
		defer close(jobDone)
		runReengage(jobCtx, svc, cfg.Jobs.ReengageInterval, log)
	}()

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	stopJobs()
	<-jobDone
	dispatcher.Close()
	if producer != nil {
		if err = producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}

func runReengage(ctx context.Context, svc *service.Service, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		log.Info("re-engagement job disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.ReengageInactive(ctx)
			if err != nil {
				log.Error("reengage", zap.Error(err))
				continue
			}
			log.Info("reengage sent", zap.Int("users", n))
		}
	}
}
