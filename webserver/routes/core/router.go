package core

import (
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"

	"github.com/anti-raid/cmdgate/webserver/routes/core/endpoints/get_health"
)

const tagName = "Core"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to core functionality"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/healthz",
		OpId:    "get_health",
		Method:  uapi.GET,
		Docs:    get_health.Docs,
		Handler: get_health.Route,
	}.Route(r)
}
