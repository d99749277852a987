package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AzielCF/az-content/contentcache"
	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/contentcache/repository"
	coreconfig "github.com/AzielCF/az-content/core/config"
	coreDB "github.com/AzielCF/az-content/core/database"
	settingsApp "github.com/AzielCF/az-content/core/settings/application"
	domainCache "github.com/AzielCF/az-content/domains/cache"
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	domainHealth "github.com/AzielCF/az-content/domains/health"
	"github.com/AzielCF/az-content/generator/providers"
	"github.com/AzielCF/az-content/infrastructure/valkey"
	"github.com/AzielCF/az-content/pkg/genworker"
	"github.com/AzielCF/az-content/pkg/utils"
	"github.com/AzielCF/az-content/ui/websocket"
	"github.com/AzielCF/az-content/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var (
	appCtx    context.Context
	appCancel context.CancelFunc

	// Infrastructure
	settingsDB    *gorm.DB
	vkClient      *valkey.Client
	contentCache  *contentcache.ContentCache
	generatorPool *genworker.Pool
	serverID      string

	// Usecase
	cacheUsecase     domainCache.ICacheUsecase
	generatorUsecase domainGenerator.IGeneratorUsecase
	healthUsecase    domainHealth.IHealthUsecase

	// Flags
	flagPort      string
	flagDebug     bool
	flagBasicAuth []string
	flagBasePath  string
	flagProvider  string
	flagWorkers   int
	flagServerID  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Short: "SEO content generation service with an outline/content cache",
	Long: `az-content generates SEO article outlines and full articles with an AI provider
and keeps them in a size-bounded, TTL-aware cache shared over REST, websocket and MCP.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&flagPort,
		"port", "p",
		"",
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&flagBasicAuth,
		"basic-auth", "b",
		nil,
		"basic auth credential | -b=yourUsername:yourPassword",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagBasePath,
		"base-path", "",
		"",
		`base path for subpath deployment --base-path <string> | example: --base-path="/content"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagProvider,
		"provider", "",
		"",
		`AI provider used for generation --provider <openai|gemini> | example: --provider=gemini`,
	)
	rootCmd.PersistentFlags().IntVarP(
		&flagWorkers,
		"generator-workers", "",
		0,
		`number of concurrent prefetch workers --generator-workers <number> | example: --generator-workers=8 (default: 4)`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagServerID,
		"server-id", "",
		"",
		`stable identifier of this server in cluster stats --server-id <string> | example: --server-id="node-a"`,
	)
}

// applyFlags lets command line flags win over environment configuration.
func applyFlags(cfg *coreconfig.Config) {
	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug || viper.GetBool("app_debug") {
		cfg.App.Debug = true
	}
	if len(flagBasicAuth) > 0 {
		cfg.App.BasicAuth = flagBasicAuth
	}
	if flagBasePath != "" {
		cfg.App.BasePath = flagBasePath
	}
	if flagProvider != "" {
		cfg.Generator.Provider = flagProvider
	}
	if flagWorkers > 0 {
		cfg.WorkerPool.Size = flagWorkers
	}
	if flagServerID != "" {
		cfg.App.ServerID = flagServerID
	}
}

func initApp() {
	cfg, err := coreconfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	applyFlags(cfg)

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	//preparing folder if not exist
	if err := utils.CreateFolder(cfg.Paths.Storages); err != nil {
		logrus.Errorln(err)
	}

	appCtx, appCancel = context.WithCancel(context.Background())

	// 1. Settings database
	settingsDB, err = coreDB.NewDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		logrus.Fatalf("failed to open settings database: %v", err)
	}
	settingsSvc := settingsApp.NewSettingsService(settingsDB)
	if err := settingsSvc.ApplyCacheSettings(appCtx, &cfg.Cache); err != nil {
		logrus.WithError(err).Warn("[SETTINGS] Failed to apply persisted cache settings, using environment")
	}

	// 2. Valkey (optional)
	var statsStore cacheDomain.IStatsStore = repository.NewMemoryStatsStore()
	var sharedStore cacheDomain.ISharedStore
	if cfg.Valkey.Enabled {
		vkClient, err = valkey.NewClient(valkey.ConfigFrom(cfg.Valkey))
		if err != nil {
			logrus.WithError(err).Warn("[VALKEY] Connection failed, falling back to local stores")
			vkClient = nil
		}
	}
	if vkClient != nil {
		statsStore = repository.NewValkeyStatsStore(vkClient)
		if cfg.Cache.SharedTier {
			sharedStore = repository.NewValkeySharedStore(vkClient)
		}
		logrus.Infof("[VALKEY] Connected to %s", cfg.Valkey.Address)
	} else if cfg.Cache.SharedTier {
		sharedStore = repository.NewMemorySharedStore()
	}

	// 3. Cache
	contentCache = contentcache.NewContentCache(contentcache.ConfigFrom(cfg.Cache), contentcache.WithContext(appCtx))

	// 4. Provider and prefetch workers
	var provider domainGenerator.IProvider
	switch strings.ToLower(cfg.Generator.Provider) {
	case "gemini":
		provider = providers.NewGeminiProvider(cfg.APIKeys.Gemini, cfg.Generator.GeminiModel)
	default:
		provider = providers.NewOpenAIProvider(cfg.APIKeys.OpenAI, cfg.Generator.OpenAIModel)
	}
	logrus.Infof("[GENERATOR] Using %s provider", provider.Name())

	generatorPool = genworker.NewPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)
	generatorPool.Start(appCtx)

	// 5. Usecases
	serverID = utils.GetPersistentServerID(cfg.App.ServerID, cfg.Paths.Storages)
	cacheUsecase = usecase.NewCacheService(contentCache, statsStore, sharedStore, settingsSvc, serverID, cfg.Cache.StatsReportInterval)
	cacheUsecase.OnSnapshot(websocket.PublishStats)
	cacheUsecase.StartStatsReporter(appCtx)

	generatorUsecase = usecase.NewGeneratorService(provider, contentCache, sharedStore, generatorPool, cfg.Generator)

	// 6. Health
	healthUsecase = usecase.NewHealthService()
	registerHealthChecks(cfg, provider)
	healthUsecase.StartPeriodicChecks(appCtx, time.Minute)
}

func registerHealthChecks(cfg *coreconfig.Config, provider domainGenerator.IProvider) {
	healthUsecase.Register(domainHealth.ComponentDatabase, func(ctx context.Context) (string, error) {
		sqlDB, err := settingsDB.DB()
		if err != nil {
			return "", err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s reachable", cfg.Database.Driver), nil
	})

	if vkClient != nil {
		healthUsecase.Register(domainHealth.ComponentValkey, func(ctx context.Context) (string, error) {
			if err := vkClient.Ping(ctx); err != nil {
				return "", err
			}
			return "PONG", nil
		})
	}

	healthUsecase.Register(domainHealth.ComponentProvider, func(ctx context.Context) (string, error) {
		key := cfg.APIKeys.OpenAI
		if provider.Name() == "gemini" {
			key = cfg.APIKeys.Gemini
		}
		if key == "" {
			return "", fmt.Errorf("%s api key is not configured", provider.Name())
		}
		return fmt.Sprintf("%s api key configured", provider.Name()), nil
	})

	healthUsecase.Register(domainHealth.ComponentWorkerPool, func(ctx context.Context) (string, error) {
		st := generatorPool.GetStats()
		return fmt.Sprintf("%d/%d workers busy, %d pending keys, %d dropped",
			st.ActiveWorkers, st.NumWorkers, st.PendingKeys, st.TotalDropped), nil
	})

	healthUsecase.Register(domainHealth.ComponentCache, func(ctx context.Context) (string, error) {
		st, err := cacheUsecase.GetStats(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d items, hit rate %.2f, %s", st.TotalItems, st.HitRate, st.HumanMemory), nil
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of all background workers and connections.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	// 1. Stop periodic tasks (stats reporter, sweeper, health checks, hub)
	if appCancel != nil {
		appCancel()
	}

	// 2. Drain prefetch jobs
	if generatorPool != nil {
		generatorPool.Stop()
	}

	if contentCache != nil {
		contentCache.Close()
	}

	if vkClient != nil {
		vkClient.Close()
	}

	if err := coreDB.Close(settingsDB); err != nil {
		logrus.WithError(err).Warn("[APP] Failed to close settings database")
	}

	logrus.Info("[APP] Application stopped cleanly.")
}
