package command

type ArgType string

const (
	ArgString   ArgType = "string"
	ArgInteger  ArgType = "integer"
	ArgBoolean  ArgType = "boolean"
	ArgDuration ArgType = "duration"

	// Target arguments: their raw value is resolved to an entity before the resource gates run
	ArgUser      ArgType = "user"
	ArgCommunity ArgType = "community"
	ArgServer    ArgType = "server"
)

// IsTarget reports whether the argument references a user, community or server
func (t ArgType) IsTarget() bool {
	return t == ArgUser || t == ArgCommunity || t == ArgServer
}

// ArgumentSpec declares one argument of a command
type ArgumentSpec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        ArgType `json:"type"`
	Required    bool    `json:"required"`
	// Rules is a go-playground/validator tag applied to the coerced value, e.g. "min=1,max=10"
	Rules   string `json:"rules,omitempty"`
	Default any    `json:"default,omitempty"`
}
