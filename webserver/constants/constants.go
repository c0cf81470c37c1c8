// Canned JSON bodies served by the admin API
package constants

const (
	EndpointNotFound    = "{\"message\":\"Endpoint not found\"}"
	ResourceNotFound    = "{\"message\":\"Resource not found\"}"
	BadRequest          = "{\"message\":\"Invalid request\"}"
	Forbidden           = "{\"message\":\"Forbidden\"}"
	Unauthorized        = "{\"message\":\"Unauthorized. Pass an operator token as `Authorization: Operator <token>`\"}"
	InternalServerError = "{\"message\":\"Something went wrong, please try again later\"}"
	MethodNotAllowed    = "{\"message\":\"Method not allowed\"}"
	BodyRequired        = "{\"message\":\"A body is required for this endpoint\"}"
)
