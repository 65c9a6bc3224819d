package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/controllers"
	"storefront/jobs"
	"storefront/logger"
	"storefront/middleware"
	"storefront/models"
	"storefront/notify"
	"storefront/realtime"
	"storefront/repository"
	"storefront/routes"
	"storefront/services"
	"storefront/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.Env); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer zap.L().Sync()

	// --- Redis ---
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "localhost:6379", DB: 0}
	}
	rdb := redis.NewClient(redisOpts)

	// --- AWS clients (LocalStack-compatible) ---
	cfgOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.AWSRegion),
	}
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" || secret != "" {
		cfgOpts = append(cfgOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secret, ""),
		))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), cfgOpts...)
	if err != nil {
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}

	ddbClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	})
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})

	// --- Repositories ---
	productRepo := repository.NewDynamoProductAdapter(ddbClient, repository.TableProducts)
	orderRepo := repository.NewDynamoOrderAdapter(ddbClient, repository.TableOrders)
	reviewRepo := repository.NewDynamoReviewAdapter(ddbClient, repository.TableReviews)
	inquiryRepo := repository.NewDynamoInquiryAdapter(ddbClient, repository.TableInquiries)
	adminRepo := repository.NewDynamoAdminAdapter(ddbClient, repository.TableAdmins)

	blobs := storage.NewBlobStore(s3Client, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Endpoint)

	// --- Services and change fan-out ---
	cache := controllers.NewCacheManager(rdb)
	hub := realtime.NewHub(func(ctx context.Context) ([]*models.Product, error) {
		return productRepo.FindActive(ctx, 0, 0)
	})
	notifier := services.NotifyAll(cache, hub)

	var publisher services.EventPublisher
	if cfg.SNSTopicARN != "" {
		publisher = notify.NewPublisher(sns.NewFromConfig(awsCfg), cfg.SNSTopicARN)
	}

	productService := services.NewProductService(productRepo, blobs, notifier)
	lifecycleService := services.NewLifecycleService(productRepo, blobs, notifier)
	orderService := services.NewOrderService(orderRepo, publisher)
	reviewService := services.NewReviewService(reviewRepo)
	inquiryService := services.NewInquiryService(inquiryRepo)

	// --- Controllers ---
	catalogController := controllers.NewCatalogController(productService, cache, hub)
	productController := controllers.NewProductController(productService, lifecycleService)
	orderController := controllers.NewOrderController(orderService)
	reviewController := controllers.NewReviewController(reviewService)
	inquiryController := controllers.NewInquiryController(inquiryService)

	// --- Scheduled purger ---
	purger := jobs.NewPurger(lifecycleService)
	if err := purger.Start(); err != nil {
		zap.L().Fatal("Failed to start scheduled purger", zap.Error(err))
	}

	// --- HTTP server ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(func(c *gin.Context) {
		// The snapshot stream is long-lived; everything else gets a
		// request deadline.
		if c.FullPath() == "/products/stream" {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	adminGate := middleware.RequireAdmin(adminRepo, []byte(cfg.JWTSecret))
	routes.RegisterRoutes(r, catalogController, productController, orderController, reviewController, inquiryController, adminGate)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Storefront starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down storefront...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	purger.Stop()
	hub.Close()
	if err := rdb.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}

	zap.L().Info("Storefront stopped gracefully")
}
