package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/go-clean-tweets/internal/repository"
	mysqlRepo "github.com/Guyuepp/go-clean-tweets/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/go-clean-tweets/internal/repository/redis"
	"github.com/Guyuepp/go-clean-tweets/internal/rest"
	"github.com/Guyuepp/go-clean-tweets/internal/rest/middleware"
	"github.com/Guyuepp/go-clean-tweets/internal/usecase/tweet"
	"github.com/Guyuepp/go-clean-tweets/internal/workers"
)

const (
	defaultTimeout         = 30
	defaultAddress         = ":9090"
	defaultCacheDB         = 0
	defaultBloomBitSize    = 10000000
	defaultRankTTL         = 300
	defaultRefreshInterval = 2
	dbMaxRetry             = 10
	dbRetryIntervalSec     = 2
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file loaded, reading configuration from the environment")
	}
}

func main() {
	setupLogger()

	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	val.Add("charset", "utf8mb4")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				time.Sleep(dbRetryIntervalSec * time.Second)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		logrus.Fatalf("could not connect to database after retries: %v", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()

	if err := mysqlRepo.InitSchema(db); err != nil {
		logrus.Fatalf("failed to initialize schema: %v", err)
	}

	// prepare cache
	cacheDB := envInt("CACHE_DB", defaultCacheDB)
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("CACHE_HOST") + ":" + os.Getenv("CACHE_PORT"),
		Password: os.Getenv("CACHE_PASS"),
		DB:       cacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the cache connection: %v", err)
		}
	}()

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to open connection to cache: %v", err)
	}

	// Tweet相关的三层架构
	// 1. DB层
	tweetDBRepo := mysqlRepo.NewTweetDBRepository(db)
	// 2. Cache层
	rankTTL := time.Duration(envInt("HASHTAG_RANK_TTL", defaultRankTTL)) * time.Second
	tweetCache := myRedisCache.NewTweetCache(client, rankTTL)
	// 3. Repository协调层
	tweetRepo := repository.NewTweetRepository(tweetDBRepo, tweetCache)

	bloomBitSize, err := strconv.ParseUint(os.Getenv("BLOOM_FILTER_SIZE"), 10, 64)
	if err != nil || bloomBitSize == 0 {
		logrus.Info("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomHashes := envInt("BLOOM_FILTER_HASHES", myRedisCache.DefaultBloomHashes)
	bloomRepo := myRedisCache.NewRedisBloomRepo(client, bloomBitSize, bloomHashes)

	// Start worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresh := time.Duration(envInt("HASHTAG_REFRESH_INTERVAL", defaultRefreshInterval)) * time.Second
	rankWorker := workers.NewHashtagRankWorker(tweetRepo, refresh)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		rankWorker.Start(ctx)
	}()

	// Build service Layer
	var opts []tweet.Option
	if verify, _ := strconv.ParseBool(os.Getenv("VERIFY_USERS")); verify {
		opts = append(opts, tweet.WithUserVerification(mysqlRepo.NewUserRepository(db)))
	}
	tweetSvc := tweet.NewService(tweetRepo, bloomRepo, rankWorker, opts...)

	// Prepare bloom filter. Without it lookups go straight to MySQL.
	if err := tweetSvc.InitBloomFilter(ctx); err != nil {
		logrus.Errorf("failed to init bloom filter, serving without it: %v", err)
	}

	// prepare gin
	gin.SetMode(os.Getenv("GIN_MODE"))
	route := gin.New()
	route.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(),
	)
	timeout := envInt("CONTEXT_TIMEOUT", defaultTimeout)
	if timeout == 0 {
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Register routes
	rest.NewTweetHandler(tweetSvc).Register(route)
	route.GET("/healthz", rest.Healthz)
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))
	route.NoRoute(rest.NoRoute)

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:              address,
		Handler:           route,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Infof("Server is running on %s", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Waiting for worker to cleanup...")
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logrus.Warn("worker did not stop in time")
	}

	logrus.Info("Server exiting")
}

func setupLogger() {
	if os.Getenv("LOG_FORMAT") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if path := os.Getenv("LOG_FILE"); path != "" {
		logrus.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		logrus.Infof("failed to parse %s, using default %d", key, def)
		return def
	}
	return v
}
