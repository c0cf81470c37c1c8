// Binds onto eureka uapi
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/infinitybotlist/eureka/uapi"

	"github.com/anti-raid/cmdgate/state"
	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/webserver/constants"
)

type DefaultResponder struct{}

func (d DefaultResponder) New(err string, ctx map[string]string) any {
	return types.ApiError{
		Message: err,
		Context: ctx,
	}
}

func operatorToken(authHeader string) (string, bool) {
	token, ok := strings.CutPrefix(authHeader, types.TargetTypeOperator+" ")

	if !ok || token == "" {
		return "", false
	}

	return token, true
}

// Authorizes a request
func Authorize(r uapi.Route, req *http.Request) (uapi.AuthData, uapi.HttpResponse, bool) {
	authHeader := req.Header.Get("Authorization")

	if len(r.Auth) > 0 && authHeader == "" && !r.AuthOptional {
		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusUnauthorized), false
	}

	authData := uapi.AuthData{}

	for _, auth := range r.Auth {
		if authData.Authorized {
			break
		}

		if authHeader == "" {
			continue
		}

		switch auth.Type {
		case types.TargetTypeOperator:
			token, ok := operatorToken(authHeader)

			if !ok {
				continue
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(state.Config.Meta.APIToken)) != 1 {
				continue
			}

			authData = uapi.AuthData{
				TargetType: types.TargetTypeOperator,
				ID:         "operator",
				Authorized: true,
			}
		}
	}

	if len(r.Auth) > 0 && !authData.Authorized && !r.AuthOptional {
		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusUnauthorized), false
	}

	return authData, uapi.HttpResponse{}, true
}

// OperatorAuth is the Auth of every route that changes or reveals gatekeeper state
var OperatorAuth = []uapi.AuthType{
	{
		Type: types.TargetTypeOperator,
	},
}

func Setup() {
	uapi.SetupState(uapi.UAPIState{
		Logger:    state.Logger,
		Authorize: Authorize,
		AuthTypeMap: map[string]string{
			types.TargetTypeOperator: types.TargetTypeOperator,
		},
		Context: state.Context,
		Constants: &uapi.UAPIConstants{
			ResourceNotFound:    constants.ResourceNotFound,
			BadRequest:          constants.BadRequest,
			Forbidden:           constants.Forbidden,
			Unauthorized:        constants.Unauthorized,
			InternalServerError: constants.InternalServerError,
			MethodNotAllowed:    constants.MethodNotAllowed,
			BodyRequired:        constants.BodyRequired,
		},
		DefaultResponder: DefaultResponder{},
	})
}
