package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cloudflare/tableflip"
	"github.com/infinitybotlist/eureka/genconfig"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/config"
	"github.com/anti-raid/cmdgate/discord"
	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/store/postgres"
	"github.com/anti-raid/cmdgate/store/sqlite"
	"github.com/anti-raid/cmdgate/webserver"
)

const help = `cmdgate: command gatekeeper for Discord

Usage: cmdgate <command>

Commands:
  bot        connect to Discord and serve slash commands
  webserver  serve the admin API
  migrate    create the tables of the configured store
  genconfig  write config.yaml.sample
  help       show this message`

func main() {
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "help")
	}

	switch os.Args[1] {
	case "bot":
		state.Setup()

		bot := discord.Bot{
			Session:   state.Discord,
			Executor:  state.Executor,
			Localizer: state.Localizer,
			Logger:    state.Logger,
			Timeout:   time.Duration(state.Config.Gatekeeper.CommandTimeoutSeconds) * time.Second,
			GuildID:   state.Config.Gatekeeper.RegisterGuildCommandTo,
		}

		bot.Start()

		err := state.Discord.Open()

		if err != nil {
			state.Logger.Fatal("Error opening Discord session", zap.Error(err))
		}

		defer state.Discord.Close()

		if !state.Config.Gatekeeper.TestMode {
			go state.Gateway.Listen(state.Context)
		}

		state.Logger.Info("Bot running", zap.String("env", config.CurrentEnv), zap.Bool("test_mode", state.Config.Gatekeeper.TestMode))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		state.Logger.Info("Shutting down")
	case "webserver":
		state.Setup()

		r := webserver.CreateWebserver()

		if !state.Config.Gatekeeper.TestMode {
			go state.Gateway.Listen(state.Context)
		}

		// If GOOS is windows, do normal http server
		if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
			upg, _ := tableflip.New(tableflip.Options{})
			defer upg.Stop()

			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, syscall.SIGHUP)
				for range sig {
					state.Logger.Info("Received SIGHUP, upgrading server")
					upg.Upgrade()
				}
			}()

			// Listen must be called before Ready
			ln, err := upg.Listen("tcp", state.Config.Meta.Port.Parse())

			if err != nil {
				state.Logger.Fatal("Error binding to socket", zap.Error(err))
			}

			defer ln.Close()

			server := http.Server{
				ReadTimeout: 30 * time.Second,
				Handler:     r,
			}

			go func() {
				err := server.Serve(ln)
				if err != http.ErrServerClosed {
					state.Logger.Error("Server failed due to unexpected error", zap.Error(err))
				}
			}()

			if err := upg.Ready(); err != nil {
				state.Logger.Fatal("Error calling upg.Ready", zap.Error(err))
			}

			<-upg.Exit()
		} else {
			// Tableflip not supported
			state.Logger.Warn("Tableflip not supported on this platform, this is not a production-capable server.")
			err := http.ListenAndServe(state.Config.Meta.Port.Parse(), r)

			if err != nil {
				state.Logger.Fatal("Error binding to socket", zap.Error(err))
			}
		}
	case "migrate":
		state.LoadConfig()

		switch state.Config.Meta.Store {
		case config.StorePostgres:
			_, pool, err := postgres.Connect(state.Context, state.Config.Meta.PostgresURL)

			if err != nil {
				state.Logger.Fatal("Error connecting to postgres", zap.Error(err))
			}

			defer pool.Close()

			err = postgres.Migrate(state.Context, pool)

			if err != nil {
				state.Logger.Fatal("Error migrating postgres", zap.Error(err))
			}
		case config.StoreSqlite:
			// Open migrates
			_, err := sqlite.Open(state.Config.Meta.SqlitePath)

			if err != nil {
				state.Logger.Fatal("Error migrating sqlite", zap.Error(err))
			}
		default:
			state.Logger.Info("Nothing to migrate", zap.String("store", state.Config.Meta.Store))
			return
		}

		state.Logger.Info("Migrated", zap.String("store", state.Config.Meta.Store))
	case "genconfig":
		genconfig.GenConfig(config.Config{})
		fmt.Println("Wrote config.yaml.sample")
	case "help":
		fmt.Println(help)
	default:
		fmt.Println("Unknown command:", os.Args[1])
		fmt.Println(help)
		os.Exit(1)
	}
}
