package patch_scope_configuration

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/permissions"
	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/webserver/api"
)

var (
	compiledMessages = uapi.CompileValidationErrors(types.PatchScopeConfiguration{})
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Patch Scope Configuration",
		Description: "Overrides configurable attributes of a command for a deployment. Unset fields keep their stored value, or the command's default when nothing is stored yet. Attributes the command does not allow overriding are rejected.",
		Req:         types.PatchScopeConfiguration{},
		Resp:        types.ScopeConfiguration{},
		Params:      api.ScopeParams(),
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	limit, err := ratelimit.Ratelimit{
		Expiry:      1 * time.Minute,
		MaxRequests: 30,
		Bucket:      "scope_configuration",
	}.Limit(d.Context, r)

	if err != nil {
		state.Logger.Error("Error while ratelimiting", zap.Error(err), zap.String("bucket", "scope_configuration"))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if limit.Exceeded {
		return uapi.HttpResponse{
			Json: types.ApiError{
				Message: "You are being ratelimited. Please try again in " + limit.TimeToReset.String(),
			},
			Headers: limit.Headers(),
			Status:  http.StatusTooManyRequests,
		}
	}

	desc, hresp, ok := api.Command(r)

	if !ok {
		return hresp
	}

	deployment, hresp, ok := api.Deployment(d.Context, r)

	if !ok {
		return hresp
	}

	// Read body
	var body types.PatchScopeConfiguration

	hresp, ok = uapi.MarshalReqWithHeaders(r, &body, limit.Headers())

	if !ok {
		return hresp
	}

	err = state.Validator.Struct(body)

	if err != nil {
		return uapi.ValidatorErrorResponse(compiledMessages, err.(validator.ValidationErrors))
	}

	if locked := permissions.Unmodifiable(desc, &body); len(locked) > 0 {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json: types.ApiError{
				Message: "These attributes cannot be overridden for " + desc.Name() + ": " + strings.Join(locked, ", "),
				Context: map[string]string{
					"attributes": strings.Join(locked, ","),
				},
			},
			Headers: limit.Headers(),
		}
	}

	if c := body.CooldownDuration; c != nil && c.Type == types.CooldownTypeDuration && c.Quantity > 0 && c.Unit <= 0 {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json: types.ApiError{
				Message: "A duration cooldown needs a positive unit",
			},
			Headers: limit.Headers(),
		}
	}

	cfg, err := state.Scopes.ScopeConfiguration(d.Context, desc.Name(), deployment.ID)

	if err != nil {
		state.Logger.Error("Failed to fetch scope configuration", zap.String("command", desc.Name()), zap.String("deployment_id", deployment.ID), zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if cfg == nil {
		cfg = permissions.Defaults(desc, deployment.ID)
	}

	body.Apply(cfg)

	err = state.Scopes.UpsertScopeConfiguration(d.Context, cfg)

	if err != nil {
		state.Logger.Error("Failed to save scope configuration", zap.String("command", desc.Name()), zap.String("deployment_id", deployment.ID), zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	state.Logger.Info("Updated scope configuration", zap.String("command", desc.Name()), zap.String("deployment_id", deployment.ID), zap.String("by", d.Auth.ID))

	return uapi.HttpResponse{
		Json:    cfg,
		Headers: limit.Headers(),
	}
}
