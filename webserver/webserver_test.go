package webserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/commands"
	"github.com/anti-raid/cmdgate/config"
	"github.com/anti-raid/cmdgate/hotcache"
	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/store/memory"
	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/webserver/constants"
	"github.com/anti-raid/cmdgate/webserver/routes/commands/endpoints/get_commands"
	"github.com/anti-raid/cmdgate/webserver/routes/scopes/endpoints/get_scope_configuration"
)

const operatorToken = "0123456789abcdef0123456789abcdef"

var (
	router     *chi.Mux
	store      *memory.Store
	deployment *types.Deployment
)

func TestMain(m *testing.M) {
	store = memory.New()
	deployment = store.AddDeployment(types.Deployment{PublicID: "esm", GuildID: "g1"})

	state.Logger = zap.NewNop()
	state.Config = &config.Config{
		Sites: config.Sites{API: config.Differs[string]{Staging: "http://localhost:8081", Prod: "http://localhost:8081"}},
		Meta:  config.Meta{APIToken: operatorToken},
	}
	state.Store = store
	state.Usage = store
	state.Scopes = hotcache.NewScopeCache(store, hotcache.RuedisHotCache[hotcache.ScopeEntry]{Disabled: true}, time.Minute, state.Logger)

	state.Registry = lifecycle.NewRegistry()

	if err := commands.Register(state.Registry, commands.Deps{}); err != nil {
		panic(err)
	}

	state.Registry.MustRegister(
		command.New("locked").Enabled(command.Define[bool]{Modifiable: false, Default: true}).MustBuild(),
		lifecycle.BodyFunc(func(context.Context, *lifecycle.Call) (any, error) { return nil, nil }),
	)

	ratelimit.SetupState(&ratelimit.RLState{
		HotCache: hotcache.RuedisHotCache[int]{Disabled: true},
	})

	router = CreateWebserver()

	os.Exit(m.Run())
}

func do(t *testing.T, method, path, body string, auth bool) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if auth {
		req.Header.Set("Authorization", "Operator "+operatorToken)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec.Code, rec.Body.Bytes()
}

func configPath(deploymentID, cmd string) string {
	return "/deployments/" + deploymentID + "/commands/" + cmd + "/configuration"
}

func TestGetCommands(t *testing.T) {
	code, body := do(t, "GET", "/commands", "", false)
	require.Equal(t, http.StatusOK, code, string(body))

	var got []get_commands.Command
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 3)
	assert.Equal(t, "add", got[0].Command.Name)
	assert.Equal(t, "restart", got[1].Command.Name)
	assert.Equal(t, command.KindAdmin, got[1].Command.Kind)
}

func TestScopeConfigurationRequiresOperator(t *testing.T) {
	code, _ := do(t, "GET", configPath(deployment.ID, "add"), "", false)
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest("GET", configPath(deployment.ID, "add"), nil)
	req.Header.Set("Authorization", "Operator wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", configPath(deployment.ID, "add"), nil)
	req.Header.Set("Operator-Auth", operatorToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScopeConfigurationLookups(t *testing.T) {
	code, _ := do(t, "GET", configPath("nope", "add"), "", true)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, "GET", configPath(deployment.ID, "nope"), "", true)
	assert.Equal(t, http.StatusNotFound, code)

	code, body := do(t, "GET", configPath("esm", "restart"), "", true)
	require.Equal(t, http.StatusOK, code)

	var view get_scope_configuration.ScopeConfigurationView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Nil(t, view.Configuration)
	assert.True(t, view.Defines.WhitelistEnabled.Default)
}

func TestPatchGetDeleteScopeConfiguration(t *testing.T) {
	path := configPath(deployment.ID, "add")

	code, body := do(t, "PATCH", path, `{"enabled": false, "whitelisted_role_ids": ["123", "456"]}`, true)
	require.Equal(t, http.StatusOK, code, string(body))

	var cfg types.ScopeConfiguration
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.NotifyWhenDisabled)
	assert.Equal(t, []string{"123", "456"}, cfg.WhitelistedRoleIDs)
	assert.Equal(t, types.Seconds(300), cfg.CooldownDuration, "unset fields start from the defaults")

	code, body = do(t, "PATCH", path, `{"cooldown": {"type": "count", "quantity": 3}}`, true)
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.False(t, cfg.Enabled, "earlier patches are kept")
	assert.Equal(t, types.Times(3), cfg.CooldownDuration)

	stored, err := store.ScopeConfiguration(context.Background(), "add", deployment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Enabled)

	code, _ = do(t, "DELETE", path, "", true)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = do(t, "DELETE", path, "", true)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPatchScopeConfigurationRejects(t *testing.T) {
	code, _ := do(t, "PATCH", configPath(deployment.ID, "add"), `{"whitelisted_role_ids": ["admins"]}`, true)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, "PATCH", configPath(deployment.ID, "locked"), `{"enabled": false}`, true)
	assert.Equal(t, http.StatusBadRequest, code)

	var apiErr types.ApiError
	require.NoError(t, json.Unmarshal(body, &apiErr))
	assert.Equal(t, "enabled", apiErr.Context["attributes"])

	code, _ = do(t, "PATCH", configPath(deployment.ID, "add"), `{"cooldown": {"type": "duration", "quantity": 5}}`, true)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, "PATCH", configPath(deployment.ID, "add"), `{"cooldown": {"type": "forever", "quantity": 5}}`, true)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, "PATCH", configPath(deployment.ID, "locked"), `{"notify_when_disabled": false}`, true)
	assert.Equal(t, http.StatusOK, code)
}

func TestGetRequest(t *testing.T) {
	accepted := true
	req := &types.Request{
		RequestorID:          "a1",
		RequesteeID:          "a2",
		CommandName:          "add",
		ArgumentsFingerprint: "f",
		AcceptRef:            "accept",
		DeclineRef:           "decline",
		Accepted:             &accepted,
	}
	require.NoError(t, store.CreateRequest(context.Background(), req))

	code, body := do(t, "GET", "/requests/"+req.ID, "", true)
	require.Equal(t, http.StatusOK, code, string(body))

	var got types.Request
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, req.ID, got.ID)
	require.NotNil(t, got.Accepted)
	assert.True(t, *got.Accepted)

	code, _ = do(t, "GET", "/requests/missing", "", true)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthAndMetrics(t *testing.T) {
	code, body := do(t, "GET", "/healthz", "", false)
	require.Equal(t, http.StatusOK, code)

	var health types.Health
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.Commands)

	code, _ = do(t, "GET", "/metrics", "", false)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, "GET", "/openapi", "", false)
	assert.Equal(t, http.StatusOK, code)
}

func TestNotFound(t *testing.T) {
	code, body := do(t, "GET", "/nope", "", false)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, constants.EndpointNotFound, string(body))
}
