package get_commands

import (
	"net/http"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/state"
)

type Command struct {
	Command command.Info `json:"command" description:"The command and its declared defaults"`
	Uses    int64        `json:"uses" description:"Successful executions counted so far"`
}

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Commands",
		Description: "Returns every registered command in registration order.",
		Resp:        []Command{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	all := state.Registry.All()
	out := make([]Command, 0, len(all))

	for _, cmd := range all {
		uses, err := state.Usage.Usage(d.Context, cmd.Descriptor.Name())

		if err != nil {
			// Usage is informational, the listing is still useful without it
			state.Logger.Warn("Failed to read usage", zap.String("command", cmd.Descriptor.Name()), zap.Error(err))
		}

		out = append(out, Command{Command: cmd.Descriptor.Info(), Uses: uses})
	}

	return uapi.HttpResponse{
		Json: out,
	}
}
