package requests

import (
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"

	"github.com/anti-raid/cmdgate/webserver/api"
	"github.com/anti-raid/cmdgate/webserver/routes/requests/endpoints/get_request"
)

const tagName = "Requests"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints expose confirmation requests"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/requests/{request_id}",
		OpId:    "get_request",
		Method:  uapi.GET,
		Docs:    get_request.Docs,
		Handler: get_request.Route,
		Auth:    api.OperatorAuth,
	}.Route(r)
}
