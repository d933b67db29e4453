package contributions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func voteCounts(t *testing.T, c *Contribution) (up, down, voters int) {
	t.Helper()
	return c.Upvotes, c.Downvotes, len(c.VoterList())
}

func TestApplyVoteNewVote(t *testing.T) {
	c := &Contribution{}

	require.NoError(t, c.ApplyVote(1, VoteUp))
	up, down, voters := voteCounts(t, c)
	require.Equal(t, 1, up)
	require.Equal(t, 0, down)
	require.Equal(t, 1, voters)

	require.NoError(t, c.ApplyVote(2, VoteDown))
	up, down, voters = voteCounts(t, c)
	require.Equal(t, 1, up)
	require.Equal(t, 1, down)
	require.Equal(t, 2, voters)
}

func TestApplyVoteToggleOff(t *testing.T) {
	c := &Contribution{}

	require.NoError(t, c.ApplyVote(7, VoteUp))
	require.NoError(t, c.ApplyVote(7, VoteUp))

	up, down, voters := voteCounts(t, c)
	require.Equal(t, 0, up)
	require.Equal(t, 0, down)
	require.Equal(t, 0, voters)
}

func TestApplyVoteSwitch(t *testing.T) {
	c := &Contribution{}

	require.NoError(t, c.ApplyVote(7, VoteUp))
	require.NoError(t, c.ApplyVote(7, VoteDown))

	up, down, voters := voteCounts(t, c)
	require.Equal(t, 0, up)
	require.Equal(t, 1, down)
	require.Equal(t, 1, voters)

	// Switching back restores the original tallies.
	require.NoError(t, c.ApplyVote(7, VoteUp))
	up, down, voters = voteCounts(t, c)
	require.Equal(t, 1, up)
	require.Equal(t, 0, down)
	require.Equal(t, 1, voters)
}

func TestApplyVoteOneEntryPerUser(t *testing.T) {
	c := &Contribution{}

	require.NoError(t, c.ApplyVote(1, VoteUp))
	require.NoError(t, c.ApplyVote(1, VoteDown))
	require.NoError(t, c.ApplyVote(1, VoteDown))
	require.NoError(t, c.ApplyVote(1, VoteUp))

	seen := map[uint]int{}
	for _, v := range c.VoterList() {
		seen[v.UserID]++
	}
	require.LessOrEqual(t, seen[1], 1)
}

func TestApplyVoteTalliesMatchVoters(t *testing.T) {
	c := &Contribution{}
	moves := []struct {
		user uint
		vote string
	}{
		{1, VoteUp}, {2, VoteDown}, {3, VoteUp}, {1, VoteDown},
		{2, VoteDown}, {3, VoteUp}, {4, VoteDown}, {1, VoteDown},
	}
	for _, m := range moves {
		require.NoError(t, c.ApplyVote(m.user, m.vote))

		up, down := 0, 0
		for _, v := range c.VoterList() {
			if v.VoteType == VoteUp {
				up++
			} else {
				down++
			}
		}
		require.Equal(t, up, c.Upvotes)
		require.Equal(t, down, c.Downvotes)
	}
}

func TestApplyVoteInvalidType(t *testing.T) {
	c := &Contribution{}
	require.ErrorIs(t, c.ApplyVote(1, "sideways"), ErrInvalidVoteType)
	require.ErrorIs(t, c.ApplyVote(1, ""), ErrInvalidVoteType)
	up, down, voters := voteCounts(t, c)
	require.Zero(t, up)
	require.Zero(t, down)
	require.Zero(t, voters)
}

func TestShouldAutoDelete(t *testing.T) {
	// Strictly more than half of the contributors.
	require.False(t, ShouldAutoDelete(1, 2))
	require.True(t, ShouldAutoDelete(2, 3))
	require.False(t, ShouldAutoDelete(2, 4))
	require.True(t, ShouldAutoDelete(3, 4))

	// No contributors means no threshold to cross.
	require.False(t, ShouldAutoDelete(5, 0))
}

func TestShouldAutoDeleteByVotes(t *testing.T) {
	// Below the turnout floor nothing is deleted.
	require.False(t, shouldAutoDeleteByVotes(1, 3))

	require.False(t, shouldAutoDeleteByVotes(3, 2))
	require.True(t, shouldAutoDeleteByVotes(2, 3))
	require.True(t, shouldAutoDeleteByVotes(0, 5))
}
