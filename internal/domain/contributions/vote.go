package contributions

import (
	"encoding/json"
	"errors"
)

const (
	VoteUp   = "up"
	VoteDown = "down"
)

var (
	ErrInvalidVoteType = errors.New("vote type must be 'up' or 'down'")
	ErrEmptyStrokes    = errors.New("strokes must be a non-empty array")
	ErrEmptyStrokePath = errors.New("every stroke needs a non-empty path")
)

// ApplyVote runs the single vote state transition:
//
//   - no standing vote        -> record it and bump the matching tally
//   - standing vote, other    -> switch: move one tally to the other
//   - standing vote, same     -> toggle off: drop the entry and the tally
//
// Tallies and the voters set change together so they can never diverge.
func (c *Contribution) ApplyVote(userID uint, voteType string) error {
	if voteType != VoteUp && voteType != VoteDown {
		return ErrInvalidVoteType
	}

	voters := c.VoterList()
	idx := -1
	for i, v := range voters {
		if v.UserID == userID {
			idx = i
			break
		}
	}

	switch {
	case idx < 0:
		voters = append(voters, Voter{UserID: userID, VoteType: voteType})
		c.bump(voteType, +1)
	case voters[idx].VoteType != voteType:
		c.bump(voters[idx].VoteType, -1)
		c.bump(voteType, +1)
		voters[idx].VoteType = voteType
	default:
		c.bump(voteType, -1)
		voters = append(voters[:idx], voters[idx+1:]...)
	}

	if voters == nil {
		voters = []Voter{}
	}
	raw, err := json.Marshal(voters)
	if err != nil {
		return err
	}
	c.Voters = raw
	return nil
}

func (c *Contribution) bump(voteType string, delta int) {
	if voteType == VoteUp {
		c.Upvotes += delta
		if c.Upvotes < 0 {
			c.Upvotes = 0
		}
		return
	}
	c.Downvotes += delta
	if c.Downvotes < 0 {
		c.Downvotes = 0
	}
}

// ShouldAutoDelete applies the moderation threshold: a contribution is
// removed once more than half of the project's contributors downvoted it.
func ShouldAutoDelete(downvotes, totalProjectContributors int) bool {
	if totalProjectContributors <= 0 {
		return false
	}
	return float64(downvotes)/float64(totalProjectContributors) > 0.5
}

// shouldAutoDeleteByVotes is the earlier moderation rule, relative to votes
// cast with a minimum turnout. Superseded by the contributor-relative rule
// above; kept so the old behavior stays documented.
func shouldAutoDeleteByVotes(upvotes, downvotes int) bool {
	total := upvotes + downvotes
	if total < 5 {
		return false
	}
	return float64(downvotes)/float64(total) > 0.5
}
