package state

import (
	"context"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/infinitybotlist/eureka/genconfig"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/snippets"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/anti-raid/cmdgate/arguments"
	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/commands"
	"github.com/anti-raid/cmdgate/config"
	"github.com/anti-raid/cmdgate/cooldown"
	"github.com/anti-raid/cmdgate/discord"
	"github.com/anti-raid/cmdgate/gateway"
	"github.com/anti-raid/cmdgate/hotcache"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/localization"
	"github.com/anti-raid/cmdgate/presence"
	"github.com/anti-raid/cmdgate/requests"
	"github.com/anti-raid/cmdgate/store/memory"
	"github.com/anti-raid/cmdgate/store/postgres"
	"github.com/anti-raid/cmdgate/store/sqlite"
	"github.com/anti-raid/cmdgate/types"
)

// Backend is every durable contract, implemented by each store backend
type Backend interface {
	invocation.Resolver
	hotcache.ScopeStore
	cooldown.Store
	requests.Store
	checks.Connectivity
	UsageStore
}

type UsageStore interface {
	IncrementUsage(ctx context.Context, commandName string) error
	Usage(ctx context.Context, commandName string) (int64, error)
}

var (
	Pool      *pgxpool.Pool // only set for the postgres store
	Redis     *redis.Client
	Rueidis   rueidis.Client // where perf is needed
	Discord   *discordgo.Session
	Logger    *zap.Logger
	Context   = context.Background()
	Validator = validator.New()
	Config    *config.Config

	Store     Backend
	Scopes    *hotcache.ScopeCache
	Usage     UsageStore
	Presence  *presence.Registry
	Gateway   *gateway.Client
	Localizer *localization.Builder
	Registry  *lifecycle.Registry
	Executor  *lifecycle.Executor
)

// LoadConfig reads and validates config.yaml and creates the logger
func LoadConfig() {
	Validator.RegisterValidation("notblank", validators.NotBlank)
	Validator.RegisterValidation("nospaces", snippets.ValidatorNoSpaces)

	genconfig.GenConfig(config.Config{})

	cfg, err := os.ReadFile("config.yaml")

	if err != nil {
		panic(err)
	}

	err = yaml.Unmarshal(cfg, &Config)

	if err != nil {
		panic(err)
	}

	err = Validator.Struct(Config)

	if err != nil {
		panic("configError: " + err.Error())
	}

	Logger = snippets.CreateZap()
}

// OpenStore connects to the configured store backend. In test mode the in-memory store is
// always used.
func OpenStore() (Backend, error) {
	if Config.Gatekeeper.TestMode {
		return seedTestStore(), nil
	}

	switch Config.Meta.Store {
	case config.StorePostgres:
		s, pool, err := postgres.Connect(Context, Config.Meta.PostgresURL)

		if err != nil {
			return nil, err
		}

		Pool = pool
		return s, nil
	case config.StoreSqlite:
		s, err := sqlite.Open(Config.Meta.SqlitePath)

		if err != nil {
			return nil, err
		}

		return s, nil
	default:
		return memory.New(), nil
	}
}

// seedTestStore binds a test deployment with one always connected server to the guild slash
// commands are registered to
func seedTestStore() *memory.Store {
	s := memory.New()

	if guild := Config.Gatekeeper.RegisterGuildCommandTo; guild != "" {
		d := s.AddDeployment(types.Deployment{PublicID: "test", GuildID: guild, Name: "Test"})
		r := s.AddResource(types.Resource{PublicID: "test-server", DeploymentID: d.ID, Name: "Test Server"})
		s.SetConnected(r.ID, true)
	}

	return s
}

// testServers answers gateway requests in test mode
func testServers(_ context.Context, msg *gateway.Message) (*gateway.Response, error) {
	Logger.Info("[gateway] test mode request", zap.String("target", msg.Target), zap.Any("msg", msg))
	return &gateway.Response{Message: "ok (test mode)"}, nil
}

func Setup() {
	LoadConfig()

	var err error

	Store, err = OpenStore()

	if err != nil {
		panic(err)
	}

	testMode := Config.Gatekeeper.TestMode

	if !testMode {
		// Reuidis
		ruOptions, err := rueidis.ParseURL(Config.Meta.RedisURL.Parse())

		if err != nil {
			panic(err)
		}

		Rueidis, err = rueidis.NewClient(ruOptions)

		if err != nil {
			panic(err)
		}

		// go-redis, for presence
		rOptions, err := redis.ParseURL(Config.Meta.RedisURL.Parse())

		if err != nil {
			panic(err)
		}

		Redis = redis.NewClient(rOptions)
	}

	Scopes = hotcache.NewRuedisScopeCache(
		Store,
		hotcache.RuedisHotCache[hotcache.ScopeEntry]{
			Redis:    Rueidis,
			Prefix:   "cmdgate:",
			For:      "scopes",
			Disabled: testMode,
		},
		time.Duration(Config.Gatekeeper.ScopeCacheTTLSeconds)*time.Second,
		Logger,
	)

	var connectivity checks.Connectivity = Store

	if testMode {
		Usage = Store
		Gateway = gateway.NewLocal(testServers, Logger)
	} else {
		Usage = hotcache.UsageCounter{Cache: hotcache.RuedisHotCache[int64]{Redis: Rueidis, Prefix: "cmdgate:", For: "usage"}}

		Presence = presence.New(Redis)
		Presence.TTL = time.Duration(Config.Gatekeeper.PresenceExpirySeconds) * time.Second
		connectivity = Presence

		Gateway = gateway.New(Rueidis, gateway.DefaultChannel, Logger)
		Gateway.OnHeartbeat = Presence.Heartbeat
	}

	Localizer, err = localization.New(Config.Gatekeeper.DefaultLocale)

	if err != nil {
		panic(err)
	}

	// Discordgo
	Discord, err = discordgo.New("Bot " + Config.DiscordAuth.Token)

	if err != nil {
		panic(err)
	}

	Discord.Identify.Intents = discordgo.IntentsGuilds

	Registry = lifecycle.NewRegistry()

	err = commands.Register(Registry, commands.Deps{Territories: Gateway, Servers: Gateway})

	if err != nil {
		panic(err)
	}

	tracker := cooldown.NewTracker(Store)

	Executor = &lifecycle.Executor{
		Registry: Registry,
		Pipeline: &checks.Pipeline{
			Config: checks.Config{
				DevUserIDs:           Config.Gatekeeper.DevUserIDs,
				OperatorDeploymentID: Config.Gatekeeper.OperatorDeploymentID,
				TestMode:             testMode,
			},
			Scopes:       Scopes,
			Cooldowns:    tracker,
			Connectivity: connectivity,
			Logger:       Logger,
		},
		Arguments: arguments.New(Validator),
		Cooldowns: tracker,
		Requests:  requests.NewWorkflow(Store, Logger),
		Usage:     Usage,
		Resolver:  Store,
		Transport: &discord.Transport{Session: Discord, Localizer: Localizer, Locale: Config.Gatekeeper.DefaultLocale},
		Logger:    Logger,
	}

	ratelimit.SetupState(&ratelimit.RLState{
		HotCache: hotcache.RuedisHotCache[int]{
			Redis:    Rueidis,
			Prefix:   "rl:",
			For:      "ratelimit",
			Disabled: testMode || Config.Meta.DisableRatelimits,
		},
	})
}
