package scopes

import (
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"

	"github.com/anti-raid/cmdgate/webserver/api"
	"github.com/anti-raid/cmdgate/webserver/routes/scopes/endpoints/delete_scope_configuration"
	"github.com/anti-raid/cmdgate/webserver/routes/scopes/endpoints/get_scope_configuration"
	"github.com/anti-raid/cmdgate/webserver/routes/scopes/endpoints/patch_scope_configuration"
)

const tagName = "Scope Configurations"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints manage the per deployment configuration of commands"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/deployments/{deployment_id}/commands/{command}/configuration",
		OpId:    "get_scope_configuration",
		Method:  uapi.GET,
		Docs:    get_scope_configuration.Docs,
		Handler: get_scope_configuration.Route,
		Auth:    api.OperatorAuth,
	}.Route(r)

	uapi.Route{
		Pattern: "/deployments/{deployment_id}/commands/{command}/configuration",
		OpId:    "patch_scope_configuration",
		Method:  uapi.PATCH,
		Docs:    patch_scope_configuration.Docs,
		Handler: patch_scope_configuration.Route,
		Auth:    api.OperatorAuth,
	}.Route(r)

	uapi.Route{
		Pattern: "/deployments/{deployment_id}/commands/{command}/configuration",
		OpId:    "delete_scope_configuration",
		Method:  uapi.DELETE,
		Docs:    delete_scope_configuration.Docs,
		Handler: delete_scope_configuration.Route,
		Auth:    api.OperatorAuth,
	}.Route(r)
}
