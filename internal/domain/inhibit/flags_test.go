package inhibit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/nosuspend/internal/domain/inhibit"
)

func TestCompose_CommutativeIdempotent(t *testing.T) {
	cases := []struct {
		name string
		a, b inhibit.StateFlags
	}{
		{"disjoint", inhibit.Suspend, inhibit.Display},
		{"overlapping", inhibit.Suspend | inhibit.Display, inhibit.Display},
		{"with none", inhibit.Suspend, inhibit.None},
		{"away mode", inhibit.AwayMode, inhibit.Suspend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, inhibit.Compose(tc.a, tc.b), inhibit.Compose(tc.b, tc.a))
			assert.Equal(t, tc.a, inhibit.Compose(tc.a, tc.a))
		})
	}
}

func TestCompose_Union(t *testing.T) {
	got := inhibit.Compose(inhibit.Suspend, inhibit.Display)
	assert.True(t, got.Has(inhibit.Suspend))
	assert.True(t, got.Has(inhibit.Display))
	assert.False(t, got.Has(inhibit.AwayMode))
}

func TestStateFlags_Split(t *testing.T) {
	assert.Empty(t, inhibit.None.Split())
	assert.Equal(t,
		[]inhibit.StateFlags{inhibit.Suspend, inhibit.Display, inhibit.AwayMode},
		(inhibit.Suspend | inhibit.Display | inhibit.AwayMode).Split())
}

func TestStateFlags_Groups(t *testing.T) {
	groups := (inhibit.Suspend | inhibit.Display).Groups()
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{inhibit.GroupSuspend, inhibit.GroupScreensaver}, names)

	// Away-mode belongs to no capability group.
	assert.Empty(t, inhibit.AwayMode.Groups())
	assert.Equal(t, inhibit.AwayMode, (inhibit.Suspend | inhibit.AwayMode).Ungrouped())
}

func TestCapability_Restrict(t *testing.T) {
	capability := inhibit.Capability{Supported: inhibit.Suspend | inhibit.Display}

	kept, dropped := capability.Restrict(inhibit.Suspend | inhibit.AwayMode)
	assert.Equal(t, inhibit.Suspend, kept)
	assert.Equal(t, inhibit.AwayMode, dropped)

	kept, dropped = capability.Restrict(inhibit.None)
	assert.Equal(t, inhibit.None, kept)
	assert.Equal(t, inhibit.None, dropped)
}

func TestStateFlags_String(t *testing.T) {
	assert.Equal(t, "none", inhibit.None.String())
	assert.Equal(t, "suspend|display", (inhibit.Suspend | inhibit.Display).String())
	assert.Equal(t, "away-mode", inhibit.AwayMode.String())
}
