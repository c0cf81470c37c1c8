package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
)

// Command finds the registered command named by the {command} URL param
func Command(r *http.Request) (*command.Descriptor, uapi.HttpResponse, bool) {
	name := chi.URLParam(r, "command")

	if name == "" {
		return nil, uapi.DefaultResponse(http.StatusBadRequest), false
	}

	cmd, ok := state.Registry.Get(name)

	if !ok {
		return nil, uapi.HttpResponse{
			Status: http.StatusNotFound,
			Json:   types.ApiError{Message: "Command not found"},
		}, false
	}

	return cmd.Descriptor, uapi.HttpResponse{}, true
}

// Deployment finds the deployment named by the {deployment_id} URL param. Both the internal id
// and the public id are accepted.
func Deployment(ctx context.Context, r *http.Request) (*types.Deployment, uapi.HttpResponse, bool) {
	id := chi.URLParam(r, "deployment_id")

	if id == "" {
		return nil, uapi.DefaultResponse(http.StatusBadRequest), false
	}

	d, err := state.Store.DeploymentByID(ctx, id)

	if err == nil && d == nil {
		d, err = state.Store.ResolveTargetDeployment(ctx, id)
	}

	if err != nil {
		state.Logger.Error("Failed to look up deployment", zap.String("deployment_id", id), zap.Error(err))
		return nil, uapi.DefaultResponse(http.StatusInternalServerError), false
	}

	if d == nil {
		return nil, uapi.HttpResponse{
			Status: http.StatusNotFound,
			Json:   types.ApiError{Message: "Deployment not found"},
		}, false
	}

	return d, uapi.HttpResponse{}, true
}
