package config

import (
	"os"
	"strings"
)

const (
	CurrentEnvProd    = "prod"
	CurrentEnvStaging = "staging"
)

// CurrentEnv is read from CURRENT_ENV, staging when unset
var CurrentEnv string

func init() {
	CurrentEnv = strings.TrimSpace(os.Getenv("CURRENT_ENV"))

	if CurrentEnv == "" {
		CurrentEnv = CurrentEnvStaging
	}

	if CurrentEnv != CurrentEnvProd && CurrentEnv != CurrentEnvStaging {
		panic("invalid environment")
	}
}

// Common struct for values that differ between staging and production environments
type Differs[T any] struct {
	Staging T `yaml:"staging" comment:"Staging value" validate:"required"`
	Prod    T `yaml:"prod" comment:"Production value" validate:"required"`
}

func (d *Differs[T]) Parse() T {
	if CurrentEnv == CurrentEnvProd {
		return d.Prod
	} else if CurrentEnv == CurrentEnvStaging {
		return d.Staging
	} else {
		panic("invalid environment")
	}
}

func (d *Differs[T]) Production() T {
	return d.Prod
}

const (
	StorePostgres = "postgres"
	StoreSqlite   = "sqlite"
	StoreMemory   = "memory"
)

type Config struct {
	DiscordAuth DiscordAuth `yaml:"discord_auth" validate:"required"`
	Sites       Sites       `yaml:"sites" validate:"required"`
	Meta        Meta        `yaml:"meta" validate:"required"`
	Gatekeeper  Gatekeeper  `yaml:"gatekeeper" validate:"required"`
}

type DiscordAuth struct {
	Token    string `yaml:"token" comment:"Discord bot token" validate:"required"`
	ClientID string `yaml:"client_id" comment:"Discord Client ID" validate:"required"`
}

type Sites struct {
	API Differs[string] `yaml:"api" default:"http://localhost:8081" comment:"Public URL of the admin API" validate:"required"`
}

type Meta struct {
	Store             string          `yaml:"store" default:"postgres" comment:"Durable store backend: postgres, sqlite or memory" validate:"required,oneof=postgres sqlite memory"`
	PostgresURL       string          `yaml:"postgres_url" default:"postgresql:///cmdgate" comment:"Postgres URL, used by the postgres store" validate:"required_if=Store postgres"`
	SqlitePath        string          `yaml:"sqlite_path" default:"cmdgate.db" comment:"Database file of the sqlite store" validate:"required_if=Store sqlite"`
	RedisURL          Differs[string] `yaml:"redis_url" default:"redis://localhost:6379" comment:"Redis URL" validate:"required"`
	Port              Differs[string] `yaml:"port" default:":8081" comment:"Port to run the admin API on" validate:"required"`
	APIToken          string          `yaml:"api_token" comment:"Operator token of the admin API" validate:"required,min=32"`
	DisableRatelimits bool            `yaml:"disable_ratelimits" comment:"Disable admin API ratelimits"`
}

type Gatekeeper struct {
	DevUserIDs             []string `yaml:"dev_user_ids" comment:"Discord IDs of developers, the only users allowed to run dev only commands" validate:"dive,numeric"`
	OperatorDeploymentID   string   `yaml:"operator_deployment_id" comment:"Deployment whose members may target other deployments"`
	TestMode               bool     `yaml:"test_mode" comment:"Run commands against the in-memory store and fake game servers"`
	ScopeCacheTTLSeconds   int      `yaml:"scope_cache_ttl_seconds" default:"300" comment:"How long scope configuration lookups are cached" validate:"gte=0"`
	DefaultLocale          string   `yaml:"default_locale" default:"en" comment:"Locale used when the interaction locale has no catalog" validate:"required"`
	CommandTimeoutSeconds  int      `yaml:"command_timeout_seconds" default:"30" comment:"Deadline of one command execution" validate:"gt=0"`
	PresenceExpirySeconds  int      `yaml:"presence_expiry_seconds" default:"90" comment:"How long a game server heartbeat keeps it connected" validate:"gt=0"`
	RegisterGuildCommandTo string   `yaml:"register_guild_commands_to" comment:"Register slash commands to this guild only instead of globally"`
}
