package arguments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/command"
)

var desc = command.New("reward").
	Argument(command.ArgumentSpec{Name: "amount", Type: command.ArgInteger, Required: true, Rules: "min=1,max=100"}).
	Argument(command.ArgumentSpec{Name: "silent", Type: command.ArgBoolean, Default: false}).
	Argument(command.ArgumentSpec{Name: "for", Type: command.ArgDuration}).
	Argument(command.ArgumentSpec{Name: "target", Type: command.ArgUser, Required: true}).
	MustBuild()

func failure(t *testing.T, err error) *checks.Failure {
	t.Helper()

	var f *checks.Failure
	require.True(t, errors.As(err, &f), "expected a check failure, got %v", err)
	assert.Equal(t, checks.KindInvalidArgument, f.Kind)
	return f
}

func TestValidateCoerces(t *testing.T) {
	values, err := New(nil).Validate(context.Background(), desc, map[string]string{
		"amount": " 5 ",
		"for":    "2d",
		"target": "<@2>",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"amount": int64(5),
		"silent": false,
		"for":    48 * time.Hour,
		"target": "<@2>",
	}, values)
}

func TestValidateFailures(t *testing.T) {
	v := New(nil)
	ctx := context.Background()

	_, err := v.Validate(ctx, desc, map[string]string{"target": "<@2>"})
	f := failure(t, err)
	assert.Equal(t, "amount", f.Params.Argument)
	assert.Equal(t, "required", f.Params.Reason)

	_, err = v.Validate(ctx, desc, map[string]string{"amount": "five", "target": "<@2>"})
	assert.Equal(t, "not a whole number", failure(t, err).Params.Reason)

	_, err = v.Validate(ctx, desc, map[string]string{"amount": "500", "target": "<@2>"})
	assert.Equal(t, "max=100", failure(t, err).Params.Reason)

	_, err = v.Validate(ctx, desc, map[string]string{"amount": "5", "target": "<@2>", "bogus": "1"})
	assert.Equal(t, "bogus", failure(t, err).Params.Argument)
}

func TestRawRoundTripsStoredValues(t *testing.T) {
	raw := Raw(map[string]any{
		"amount": float64(100),
		"silent": true,
		"for":    "48h0m0s",
		"target": "<@2>",
	})

	values, err := New(nil).Validate(context.Background(), desc, raw)
	require.NoError(t, err)
	assert.Equal(t, int64(100), values["amount"])
	assert.Equal(t, 48*time.Hour, values["for"])
}

func TestStorableStringifiesDurations(t *testing.T) {
	stored := Storable(map[string]any{"for": 48 * time.Hour, "amount": int64(3)})
	assert.Equal(t, "48h0m0s", stored["for"])
	assert.Equal(t, int64(3), stored["amount"])
}
