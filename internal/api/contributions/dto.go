package contributions

import (
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/users"
)

// ---------- requests

type CreateContributionRequest struct {
	ProjectID string                 `json:"projectId" binding:"required"`
	Strokes   []contributions.Stroke `json:"strokes" binding:"required"`
}

type BatchItem struct {
	Strokes []contributions.Stroke `json:"strokes" binding:"required"`
}

type BatchCreateRequest struct {
	ProjectID     string      `json:"projectId" binding:"required"`
	Contributions []BatchItem `json:"contributions" binding:"required"`
}

type VoteRequest struct {
	VoteType string `json:"voteType" binding:"required"`
}

// ---------- responses

type ContributionWithAuthor struct {
	contributions.Contribution
	Author users.PublicProfile `json:"author"`
}

type ListResponse struct {
	Contributions      []contributions.Contribution `json:"contributions"`
	CurrentPage        int                          `json:"currentPage"`
	TotalPages         int                          `json:"totalPages"`
	TotalContributions int64                        `json:"totalContributions"`
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 && total > 0 {
		pages = 1
	}
	return pages
}
