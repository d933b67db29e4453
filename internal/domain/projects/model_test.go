package projects

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddContributorSetSemantics(t *testing.T) {
	p := &Project{}

	require.True(t, p.AddContributor(1))
	require.True(t, p.AddContributor(2))
	require.False(t, p.AddContributor(1))

	require.Equal(t, []uint{1, 2}, p.ContributorIDs())
	require.Equal(t, 2, p.Stats.ContributorCount)
	require.True(t, p.IsContributor(2))
	require.False(t, p.IsContributor(3))
}

func TestRemoveContributor(t *testing.T) {
	p := &Project{}
	p.AddContributor(1)
	p.AddContributor(2)
	p.AddContributor(3)

	require.True(t, p.RemoveContributor(2))
	require.False(t, p.RemoveContributor(2))

	require.Equal(t, []uint{1, 3}, p.ContributorIDs())
	require.Equal(t, 2, p.Stats.ContributorCount)
}

func TestBan(t *testing.T) {
	p := &Project{}
	require.False(t, p.IsBanned(9))

	p.Ban(9)
	p.Ban(9)
	require.True(t, p.IsBanned(9))
	require.False(t, p.IsBanned(8))
}

func TestApplyPixelDelta(t *testing.T) {
	p := &Project{Width: 10, Height: 10}

	p.ApplyPixelDelta(25)
	require.EqualValues(t, 25, p.Stats.PixelCount)
	require.InDelta(t, 25.0, p.Stats.PercentComplete, 1e-9)

	// Never below zero.
	p.ApplyPixelDelta(-100)
	require.EqualValues(t, 0, p.Stats.PixelCount)
	require.InDelta(t, 0.0, p.Stats.PercentComplete, 1e-9)

	// Percent caps at 100 even past the canvas area.
	p.ApplyPixelDelta(250)
	require.InDelta(t, 100.0, p.Stats.PercentComplete, 1e-9)
}

func TestApplyPixelDeltaZeroArea(t *testing.T) {
	p := &Project{}
	p.ApplyPixelDelta(42)
	require.EqualValues(t, 42, p.Stats.PixelCount)
	require.InDelta(t, 0.0, p.Stats.PercentComplete, 1e-9)
}

func TestValidStatus(t *testing.T) {
	require.True(t, ValidStatus(StatusActive))
	require.True(t, ValidStatus(StatusPaused))
	require.True(t, ValidStatus(StatusCompleted))
	require.False(t, ValidStatus("Archived"))
	require.False(t, ValidStatus(""))
}
