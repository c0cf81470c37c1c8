package get_scope_configuration

import (
	"net/http"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/webserver/api"
)

type ScopeConfigurationView struct {
	Configuration *types.ScopeConfiguration `json:"configuration" description:"The stored configuration, null when the deployment uses the defaults"`
	Defines       command.Defines           `json:"defines" description:"The declared defaults and which of them may be overridden"`
}

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Scope Configuration",
		Description: "Returns the configuration a deployment stores for a command along with the command's defaults.",
		Resp:        ScopeConfigurationView{},
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

	cfg, err := state.Scopes.ScopeConfiguration(d.Context, desc.Name(), deployment.ID)

	if err != nil {
		state.Logger.Error("Failed to fetch scope configuration", zap.String("command", desc.Name()), zap.String("deployment_id", deployment.ID), zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	return uapi.HttpResponse{
		Json: ScopeConfigurationView{
			Configuration: cfg,
			Defines:       desc.Defines(),
		},
	}
}
