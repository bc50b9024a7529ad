package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	adminapp "github.com/wyfcoding/storefront/internal/admin/application"
	adminmysql "github.com/wyfcoding/storefront/internal/admin/infrastructure/persistence/mysql"
	adminhttp "github.com/wyfcoding/storefront/internal/admin/interfaces/http"
	authapp "github.com/wyfcoding/storefront/internal/auth/application"
	authmysql "github.com/wyfcoding/storefront/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/storefront/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/wyfcoding/storefront/internal/auth/interfaces/http"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartmysql "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/media"
	catalogmysql "github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/storefront/internal/catalog/interfaces/http"
	contactapp "github.com/wyfcoding/storefront/internal/contact/application"
	contactmysql "github.com/wyfcoding/storefront/internal/contact/infrastructure/persistence/mysql"
	contacthttp "github.com/wyfcoding/storefront/internal/contact/interfaces/http"
	customerapp "github.com/wyfcoding/storefront/internal/customer/application"
	customermysql "github.com/wyfcoding/storefront/internal/customer/infrastructure/persistence/mysql"
	customerhttp "github.com/wyfcoding/storefront/internal/customer/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/storefront.toml", "path to config file")
	flag.Parse()

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// 2. Logger
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Database
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		return err
	}
	defer database.Close()
	conn := database.DB

	if cfg.Database.AutoMigrate {
		if err := conn.AutoMigrate(models()...); err != nil {
			return fmt.Errorf("migrate db: %w", err)
		}
	}

	// 4. Redis, events, metrics
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return err
	}
	defer redisCache.Close()

	publisher := mq.NewPublisher(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		TopicPrefix:  cfg.Kafka.TopicPrefix,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if closer, ok := publisher.(io.Closer); ok {
		defer closer.Close()
	}

	m := metrics.New()
	limiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient())

	// 5. Application
	catalogRepos := catalogapp.Repositories{
		Categories: catalogmysql.NewCategoryRepository(conn),
		Colors:     catalogmysql.NewColorRepository(conn),
		Sizes:      catalogmysql.NewSizeRepository(conn),
		Brands:     catalogmysql.NewBrandRepository(conn),
		Products:   catalogmysql.NewProductRepository(conn),
		Stock:      catalogmysql.NewStockRepository(conn),
	}
	cartRepo := cartmysql.NewCartRepository(conn)
	store := media.NewStore(afero.NewOsFs(), cfg.Media.Root, cfg.Media.URLPrefix)
	catalogQuery := catalogapp.NewCatalogQueryService(catalogRepos, store)
	catalogs := catalogapp.NewCatalogService(
		catalogapp.NewCatalogCommandService(catalogRepos, cartRepo, store, media.NewNormalizer(), publisher, m),
		catalogQuery,
	)
	carts := cartapp.NewCartService(cartRepo, catalogQuery, publisher, m)

	auth := authapp.NewAuthService(
		authmysql.NewUserRepository(conn),
		authredis.NewSessionRedisRepository(redisCache.GetClient()),
		publisher,
		m,
		authapp.SessionPolicy{TTL: cfg.Session.TTL, RememberTTL: cfg.Session.RememberTTL},
	)
	if cfg.Admin.Username != "" {
		if err := auth.EnsureStaff(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("bootstrap staff account: %w", err)
		}
	}

	customers := customerapp.NewCustomerService(customerapp.Repositories{
		Groups:    customermysql.NewGroupRepository(conn),
		Customers: customermysql.NewCustomerRepository(conn),
		Addresses: customermysql.NewAddressRepository(conn),
	}, auth, publisher, m)
	contact := contactapp.NewContactService(contactmysql.NewMessageRepository(conn), publisher)
	admin := adminapp.NewAdminService(catalogs, customers, contact, adminmysql.NewActionRepository(conn), publisher)

	// 6. Interfaces
	gin.SetMode(ginMode(cfg.Server.Environment))
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.MaxMultipartMemory = cfg.Server.HTTP.MaxMultipartMemory << 20
	r.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.MetricsMiddleware(m),
		authhttp.LoadIdentity(auth, cfg.Session.CookieName),
	)
	r.GET("/healthz", func(c *gin.Context) {
		ctx := c.Request.Context()
		sqlDB, err := conn.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil {
			err = redisCache.Ping(ctx)
		}
		if err != nil {
			logger.Warn(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(cfg.Media.URLPrefix, cfg.Media.Root)

	limit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimitMiddleware(limiter, cfg.RateLimit, scope)
	}

	authHandler := authhttp.NewHandler(auth, cfg.Session)
	authHandler.RegisterRoutes(r, limit("login"))
	authHandler.RegisterPanelRoutes(r, limit("login"))

	cartHandler := carthttp.NewCartHandler(carts, cfg.Session, authhttp.CurrentUserID)
	cartHandler.RegisterRoutes(r, limit("cart"))
	cataloghttp.NewShopHandler(catalogs, cartHandler.ItemCount).RegisterRoutes(r)
	customerhttp.NewHandler(customers, authHandler.SignIn).RegisterRoutes(r, limit("register"))
	contacthttp.NewHandler(contact).RegisterRoutes(r, limit("contact"))
	adminhttp.NewHandler(admin).RegisterRoutes(r)

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTP.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.HTTP.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.HTTP.WriteTimeout) * time.Second,
	}

	// 7. Start & graceful shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "Starting HTTP server", "addr", httpSrv.Addr, "environment", cfg.Server.Environment)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(m, cfg.Metrics.Port, cfg.Metrics.Path)
		g.Go(metricsSrv.Start)
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "Shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		errs := []error{httpSrv.Shutdown(shutdownCtx)}
		if metricsSrv != nil {
			errs = append(errs, metricsSrv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(context.Background(), "Server exiting")
	return nil
}

func models() []any {
	var all []any
	for _, m := range [][]any{
		catalogmysql.Models(),
		cartmysql.Models(),
		authmysql.Models(),
		customermysql.Models(),
		contactmysql.Models(),
		adminmysql.Models(),
	} {
		all = append(all, m...)
	}
	return all
}

func ginMode(environment string) string {
	if environment == "prod" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
