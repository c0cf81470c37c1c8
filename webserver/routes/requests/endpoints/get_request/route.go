package get_request

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Request",
		Description: "Returns a confirmation request, pending or resolved.",
		Resp:        types.Request{},
		Params: []docs.Parameter{
			{
				Name:        "request_id",
				Description: "The ID of the request",
				In:          "path",
				Required:    true,
				Schema:      docs.IdSchema,
			},
		},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id := chi.URLParam(r, "request_id")

	if id == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	req, err := state.Store.RequestByID(d.Context, id)

	if errors.Is(err, types.ErrNotFound) {
		return uapi.DefaultResponse(http.StatusNotFound)
	}

	if err != nil {
		state.Logger.Error("Failed to fetch request", zap.String("request_id", id), zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	return uapi.HttpResponse{
		Json: req,
	}
}
