package delete_scope_configuration

import (
	"errors"
	"net/http"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/webserver/api"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete Scope Configuration",
		Description: "Removes the configuration a deployment stores for a command so the defaults apply again.",
		Resp:        types.ApiError{},
		Params:      api.ScopeParams(),
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	desc, hresp, ok := api.Command(r)

	if !ok {
		return hresp
	}

	deployment, hresp, ok := api.Deployment(d.Context, r)

	if !ok {
		return hresp
	}

	err := state.Scopes.DeleteScopeConfiguration(d.Context, deployment.ID, desc.Name())

	if errors.Is(err, types.ErrNotFound) {
		return uapi.HttpResponse{
			Status: http.StatusNotFound,
			Json:   types.ApiError{Message: "The deployment has no configuration for this command"},
		}
	}

	if err != nil {
		state.Logger.Error("Failed to delete scope configuration", zap.String("command", desc.Name()), zap.String("deployment_id", deployment.ID), zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
