package contributions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"collabcanvas-app/config"
	"collabcanvas-app/internal/apperr"
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/drawinglog"
	"collabcanvas-app/internal/domain/projects"
	"collabcanvas-app/internal/domain/users"
	"collabcanvas-app/internal/realtime"
	"collabcanvas-app/internal/render"
	"collabcanvas-app/logutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Handler struct {
	DB *gorm.DB
	RT realtime.Gateway
}

func NewHandler(db *gorm.DB, rt realtime.Gateway) *Handler {
	return &Handler{DB: db, RT: rt}
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.Unauthenticated("Acting user required"))
		return 0, false
	}
	return userID, true
}

func (h *Handler) loadProject(projectID string) (*projects.Project, error) {
	var project projects.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}
	return &project, nil
}

// lockProject takes the project row FOR UPDATE so the quota count and the
// insert that follows it are serialized against concurrent submissions.
func lockProject(tx *gorm.DB, projectID string) (*projects.Project, error) {
	var project projects.Project
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, "id = ?", projectID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}
	return &project, nil
}

// thumbnailFor is best-effort: a failed render never aborts ingestion.
func thumbnailFor(strokes []contributions.Stroke, project *projects.Project) string {
	url, err := render.Thumbnail(config.PUBLIC_DIR, strokes, project.Width, project.Height)
	if err != nil {
		logutils.Log.WithFields(logutils.Fields{"project": project.ID}).
			WithError(err).Warn("thumbnail generation failed")
		return ""
	}
	return url
}

// POST /contributions
func (h *Handler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("Project ID and a non-empty strokes array are required"))
		return
	}
	if err := contributions.ValidateStrokes(req.Strokes); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}

	raw, err := contributions.EncodeStrokes(req.Strokes)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	contribution := contributions.Contribution{
		ProjectID: req.ProjectID,
		UserID:    userID,
		Strokes:   raw,
	}

	var project *projects.Project
	delta := contributions.PixelDelta(req.Strokes)
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		project, err = lockProject(tx, req.ProjectID)
		if err != nil {
			return err
		}
		if err := checkQuota(tx, project.ID, userID, 1); err != nil {
			return err
		}
		if err := tx.Create(&contribution).Error; err != nil {
			return err
		}
		return applyPixelDelta(tx, project.ID, delta)
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	h.attachThumbnail(&contribution, req.Strokes, project)

	c.JSON(http.StatusCreated, contribution)
}

// attachThumbnail renders after the insert committed, so a failed ingestion
// never leaves a stray file on disk. Best-effort like the render itself.
func (h *Handler) attachThumbnail(contribution *contributions.Contribution, strokes []contributions.Stroke, project *projects.Project) {
	url := thumbnailFor(strokes, project)
	if url == "" {
		return
	}
	err := h.DB.Model(&contributions.Contribution{}).
		Where("id = ?", contribution.ID).
		Update("thumbnail_url", url).Error
	if err != nil {
		logutils.Log.WithFields(logutils.Fields{"contribution": contribution.ID}).
			WithError(err).Warn("thumbnail attach failed")
		return
	}
	contribution.ThumbnailURL = url
}

// POST /contributions/batch
func (h *Handler) BatchCreate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Contributions) == 0 {
		apperr.Respond(c, apperr.Validation("Project ID and a non-empty contributions array are required"))
		return
	}

	var (
		batch      []contributions.Contribution
		allStrokes []contributions.Stroke
		delta      int64
	)
	for _, item := range req.Contributions {
		if err := contributions.ValidateStrokes(item.Strokes); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error()))
			return
		}
		raw, err := contributions.EncodeStrokes(item.Strokes)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		batch = append(batch, contributions.Contribution{
			ProjectID: req.ProjectID,
			UserID:    userID,
			Strokes:   raw,
		})
		allStrokes = append(allStrokes, item.Strokes...)
		delta += contributions.PixelDelta(item.Strokes)
	}

	// Single bulk insert, single aggregate stats update. The quota applies
	// to existing + the whole incoming batch at once, counted under the
	// project row lock.
	var project *projects.Project
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = lockProject(tx, req.ProjectID)
		if err != nil {
			return err
		}
		if err := checkQuota(tx, project.ID, userID, len(batch)); err != nil {
			return err
		}
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		return applyPixelDelta(tx, project.ID, delta)
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	for i := range batch {
		h.attachThumbnail(&batch[i], req.Contributions[i].Strokes, project)
	}

	go h.appendDrawingLog(project.ID, userID, allStrokes)

	c.JSON(http.StatusCreated, gin.H{"contributions": batch, "count": len(batch)})
}

// appendDrawingLog records per-stroke events for timelapse reconstruction.
// It is fire-and-forget; failures are logged, never surfaced.
func (h *Handler) appendDrawingLog(projectID string, userID uint, strokes []contributions.Stroke) {
	entries := make([]drawinglog.Entry, 0, len(strokes))
	for _, s := range strokes {
		raw, err := json.Marshal(s)
		if err != nil {
			continue
		}
		entries = append(entries, drawinglog.Entry{
			ProjectID: projectID,
			UserID:    userID,
			Stroke:    raw,
		})
	}
	if len(entries) == 0 {
		return
	}
	if err := h.DB.Create(&entries).Error; err != nil {
		logutils.Log.WithFields(logutils.Fields{"project": projectID}).
			WithError(err).Warn("drawing log append failed")
	}
}

// GET /contributions/project/:projectId?page&limit&sortBy&userId
func (h *Handler) List(c *gin.Context) {
	projectID := c.Param("projectId")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	query := projectContributionsQuery(h.DB, projectID)
	if raw := c.Query("userId"); raw != "" {
		if userID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			query = query.Where("user_id = ?", uint(userID))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		apperr.Respond(c, err)
		return
	}

	order := "created_at ASC"
	switch c.Query("sortBy") {
	case "newest":
		order = "created_at DESC"
	case "upvotes":
		order = "upvotes DESC"
	case "downvotes":
		order = "downvotes DESC"
	}

	var list []contributions.Contribution
	err := query.Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if list == nil {
		list = []contributions.Contribution{}
	}

	c.JSON(http.StatusOK, ListResponse{
		Contributions:      list,
		CurrentPage:        page,
		TotalPages:         totalPages(total, limit),
		TotalContributions: total,
	})
}

// DELETE /contributions/:id
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	var contribution contributions.Contribution
	if err := h.DB.First(&contribution, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			apperr.Respond(c, apperr.NotFound("Contribution not found"))
			return
		}
		apperr.Respond(c, err)
		return
	}

	delta := -contributions.PixelDelta(contribution.DecodeStrokes())
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&contributions.Contribution{}, "id = ?", id).Error; err != nil {
			return err
		}
		return applyPixelDelta(tx, contribution.ProjectID, delta)
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	h.RT.PublishToRoom(contribution.ProjectID, "contribution_deleted", gin.H{
		"contributionId": contribution.ID,
		"projectId":      contribution.ProjectID,
	})
	c.JSON(http.StatusOK, gin.H{"contributionId": contribution.ID})
}

// DELETE /contributions/:id/clear-canvas  (id is the project id)
func (h *Handler) ClearCanvas(c *gin.Context) {
	projectID := c.Param("id")

	project, err := h.loadProject(projectID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var deleted int64
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&contributions.Contribution{}, "project_id = ?", project.ID)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if err := tx.Delete(&drawinglog.Entry{}, "project_id = ?", project.ID).Error; err != nil {
			return err
		}
		return tx.Model(&projects.Project{}).Where("id = ?", project.ID).
			Updates(map[string]any{
				"stats_pixel_count":      0,
				"stats_percent_complete": 0,
			}).Error
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	h.RT.PublishToRoom(project.ID, "canvas_cleared", gin.H{
		"projectId":    project.ID,
		"deletedCount": deleted,
	})
	c.JSON(http.StatusOK, gin.H{
		"projectId":    project.ID,
		"deletedCount": deleted,
	})
}

func (h *Handler) withAuthor(contribution contributions.Contribution) ContributionWithAuthor {
	out := ContributionWithAuthor{Contribution: contribution}
	var author users.User
	if err := h.DB.First(&author, "id = ?", contribution.UserID).Error; err == nil {
		out.Author = author.Public()
	}
	return out
}
