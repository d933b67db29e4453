package contributions

import (
	"fmt"

	"collabcanvas-app/internal/apperr"
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/projects"

	"gorm.io/gorm"
)

func projectContributionsQuery(db *gorm.DB, projectID string) *gorm.DB {
	return db.Model(&contributions.Contribution{}).Where("project_id = ?", projectID)
}

func countByAuthor(db *gorm.DB, projectID string, userID uint) (int64, error) {
	var n int64
	err := projectContributionsQuery(db, projectID).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// checkQuota rejects a submission of incoming items once the author's
// existing + incoming count would pass the cap.
func checkQuota(db *gorm.DB, projectID string, userID uint, incoming int) error {
	existing, err := countByAuthor(db, projectID, userID)
	if err != nil {
		return err
	}
	return quotaError(int(existing), incoming)
}

func quotaError(existing, incoming int) error {
	if existing+incoming <= contributions.MaxPerUserPerProject {
		return nil
	}
	remaining := contributions.MaxPerUserPerProject - existing
	if remaining <= 0 {
		return apperr.QuotaExceeded("You have reached the contribution limit for this project.", 0)
	}
	return apperr.QuotaExceeded(
		fmt.Sprintf("Contribution limit exceeded: only %d slot(s) remaining on this project.", remaining),
		remaining,
	)
}

// applyPixelDelta moves the project's aggregate stats by delta in one
// set-based UPDATE so concurrent ingestions never lose increments.
func applyPixelDelta(tx *gorm.DB, projectID string, delta int64) error {
	return tx.Model(&projects.Project{}).Where("id = ?", projectID).
		Updates(map[string]any{
			"stats_pixel_count": gorm.Expr("GREATEST(stats_pixel_count + ?, 0)", delta),
			"stats_percent_complete": gorm.Expr(
				"LEAST(COALESCE(GREATEST(stats_pixel_count + ?, 0) * 100.0 / NULLIF(width * height, 0), 0), 100)",
				delta,
			),
		}).Error
}
