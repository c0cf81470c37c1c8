package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchApply(t *testing.T) {
	c := &ScopeConfiguration{
		Enabled:               true,
		NotifyWhenDisabled:    true,
		WhitelistedRoleIDs:    []string{"1"},
		AllowedInTextChannels: true,
		CooldownDuration:      Seconds(5),
	}

	no := false
	roles := []string{"2", "3"}

	p := &PatchScopeConfiguration{Enabled: &no, WhitelistedRoleIDs: &roles}
	p.Apply(c)

	assert.False(t, c.Enabled)
	assert.True(t, c.NotifyWhenDisabled, "unset fields are kept")
	assert.Equal(t, []string{"2", "3"}, c.WhitelistedRoleIDs)
	assert.Equal(t, Seconds(5), c.CooldownDuration)

	roles[0] = "9"
	assert.Equal(t, "2", c.WhitelistedRoleIDs[0], "the patch's slice is copied")
}
