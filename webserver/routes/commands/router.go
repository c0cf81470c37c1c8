package commands

import (
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"

	"github.com/anti-raid/cmdgate/webserver/routes/commands/endpoints/get_commands"
)

const tagName = "Commands"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints describe the registered commands"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/commands",
		OpId:    "get_commands",
		Method:  uapi.GET,
		Docs:    get_commands.Docs,
		Handler: get_commands.Route,
	}.Route(r)
}
