package webserver

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	_ "embed"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"github.com/infinitybotlist/eureka/zapchi"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/webserver/api"
	"github.com/anti-raid/cmdgate/webserver/constants"
	commandroutes "github.com/anti-raid/cmdgate/webserver/routes/commands"
	"github.com/anti-raid/cmdgate/webserver/routes/core"
	requestroutes "github.com/anti-raid/cmdgate/webserver/routes/requests"
	"github.com/anti-raid/cmdgate/webserver/routes/scopes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed docs/docs.html
var docsHTML string

var openapi []byte

// Simple middleware to handle CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// limit body to 1mb
		r.Body = http.MaxBytesReader(w, r.Body, 1*1024*1024)

		if r.Header.Get("Operator-Auth") != "" {
			if strings.HasPrefix(r.Header.Get("Operator-Auth"), types.TargetTypeOperator+" ") {
				r.Header.Set("Authorization", r.Header.Get("Operator-Auth"))
			} else {
				r.Header.Set("Authorization", types.TargetTypeOperator+" "+r.Header.Get("Operator-Auth"))
			}
		}

		w.Header().Set("Access-Control-Allow-Origin", r.Header.Get("Origin"))
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Headers", "X-Client, Content-Type, Authorization, Operator-Auth")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PATCH, DELETE")

		if r.Method == "OPTIONS" {
			w.Write([]byte{})
			return
		}

		w.Header().Set("Content-Type", "application/json")

		next.ServeHTTP(w, r)
	})
}

func CreateWebserver() *chi.Mux {
	docs.DocsSetupData = &docs.SetupData{
		URL:         state.Config.Sites.API.Parse(),
		ErrorStruct: types.ApiError{},
		Info: docs.Info{
			Title:       "cmdgate API",
			Version:     "1.0",
			Description: "Admin API of the cmdgate command gatekeeper",
			Contact: docs.Contact{
				Name: "Anti Raid Development",
				URL:  "https://antiraid.xyz",
			},
			License: docs.License{
				Name: "AGPL3",
				URL:  "https://opensource.org/licenses/AGPL3",
			},
		},
	}

	docs.Setup()

	docs.AddSecuritySchema("Operator", "Operator-Auth", "Requires the operator token. Should be prefixed with `Operator ` in `Authorization` header.")

	api.Setup()

	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer,
		middleware.RealIP,
		middleware.CleanPath,
		corsMiddleware,
		zapchi.Logger(state.Logger, "api"),
		middleware.Timeout(30*time.Second),
	)

	routers := []uapi.APIRouter{
		// Use same order as routes folder
		commandroutes.Router{},
		core.Router{},
		requestroutes.Router{},
		scopes.Router{},
	}

	for _, router := range routers {
		name, desc := router.Tag()
		if name != "" {
			docs.AddTag(name, desc)
			uapi.State.SetCurrentTag(name)
		} else {
			panic("Router tag name cannot be empty")
		}

		router.Routes(r)
	}

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/openapi", func(w http.ResponseWriter, r *http.Request) {
		w.Write(openapi)
	})

	docsTempl := template.Must(template.New("docs").Parse(docsHTML))

	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		docsTempl.Execute(w, map[string]string{
			"url": "/openapi",
		})
	})

	// Load openapi here to avoid large marshalling in every request
	var err error
	openapi, err = json.Marshal(docs.GetSchema())

	if err != nil {
		panic(err)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(constants.EndpointNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(constants.MethodNotAllowed))
	})

	return r
}
