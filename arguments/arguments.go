// Package arguments coerces raw command arguments into typed values and validates them against
// the command's argument specs.
package arguments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/utils/timex"
)

type Validator struct {
	v *validator.Validate
}

func New(v *validator.Validate) *Validator {
	if v == nil {
		v = validator.New()
	}

	return &Validator{v: v}
}

func invalid(name, value, reason string) *checks.Failure {
	return checks.Fail("", checks.KindInvalidArgument, checks.Params{Argument: name, Value: value, Reason: reason}).Failure()
}

// Validate returns the typed value of every declared argument. Bad input is reported as a
// *checks.Failure of kind invalid_argument.
func (a *Validator) Validate(_ context.Context, desc *command.Descriptor, raw map[string]string) (map[string]any, error) {
	for name := range raw {
		if _, ok := desc.Argument(name); !ok {
			return nil, invalid(name, raw[name], "unknown argument")
		}
	}

	values := make(map[string]any, len(desc.Arguments()))

	for _, spec := range desc.Arguments() {
		s := strings.TrimSpace(raw[spec.Name])

		if s == "" {
			if spec.Required {
				return nil, invalid(spec.Name, "", "required")
			}

			if spec.Default != nil {
				values[spec.Name] = spec.Default
			}

			continue
		}

		v, err := coerce(spec.Type, s)

		if err != nil {
			return nil, invalid(spec.Name, s, err.Error())
		}

		if spec.Rules != "" {
			if err := a.v.Var(v, spec.Rules); err != nil {
				var verrs validator.ValidationErrors
				if errors.As(err, &verrs) && len(verrs) > 0 {
					return nil, invalid(spec.Name, s, verrs[0].Tag()+"="+verrs[0].Param())
				}

				return nil, fmt.Errorf("failed to validate argument %s: %w", spec.Name, err)
			}
		}

		values[spec.Name] = v
	}

	return values, nil
}

func coerce(t command.ArgType, s string) (any, error) {
	switch t {
	case command.ArgInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.New("not a whole number")
		}
		return n, nil
	case command.ArgBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.New("not true or false")
		}
		return b, nil
	case command.ArgDuration:
		d, err := timex.Parse(s)
		if err != nil {
			return nil, errors.New("not a duration")
		}
		return time.Duration(d), nil
	default:
		return s, nil
	}
}

// Format renders a typed value back to the raw form Validate accepts. Values read back from a
// JSON column (numbers as float64, durations as strings) are handled too.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Duration:
		return val.String()
	case timex.Duration:
		return val.Std().String()
	default:
		return fmt.Sprint(val)
	}
}

// Storable converts validated values into the form persisted with a request: durations become
// strings so they survive a JSON round trip
func Storable(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch v.(type) {
		case time.Duration, timex.Duration:
			out[k] = Format(v)
		default:
			out[k] = v
		}
	}
	return out
}

// Raw converts stored values back to raw arguments
func Raw(values map[string]any) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = Format(v)
	}
	return out
}
