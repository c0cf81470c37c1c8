package api

import (
	docs "github.com/infinitybotlist/eureka/doclib"
)

// ScopeParams documents the path of the scope configuration routes
func ScopeParams() []docs.Parameter {
	return []docs.Parameter{
		{
			Name:        "deployment_id",
			Description: "The internal or public ID of the deployment",
			In:          "path",
			Required:    true,
			Schema:      docs.IdSchema,
		},
		{
			Name:        "command",
			Description: "The name of the command",
			In:          "path",
			Required:    true,
			Schema:      docs.IdSchema,
		},
	}
}
