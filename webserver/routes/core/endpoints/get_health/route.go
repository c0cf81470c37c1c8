package get_health

import (
	"net/http"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Health",
		Description: "Returns ok when the durable store answers. Returns 503 otherwise.",
		Resp:        types.Health{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	health := types.Health{Status: "ok", Commands: len(state.Registry.All())}

	if state.Pool != nil {
		if err := state.Pool.Ping(d.Context); err != nil {
			state.Logger.Error("Health check failed", zap.Error(err))
			health.Status = "unavailable"

			return uapi.HttpResponse{
				Status: http.StatusServiceUnavailable,
				Json:   health,
			}
		}
	}

	return uapi.HttpResponse{
		Json: health,
	}
}
