package projects

import (
	"errors"
	"net/http"
	"strings"

	"collabcanvas-app/internal/apperr"
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/projects"
	"collabcanvas-app/internal/realtime"
	"collabcanvas-app/internal/render"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
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

// POST /projects/create
func (h *Handler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		apperr.Respond(c, apperr.Validation("Canvas bounds must be positive"))
		return
	}

	canvasID := strings.TrimSpace(req.CanvasID)
	if canvasID == "" {
		canvasID = uuid.NewString()[:8]
	}

	project := projects.Project{
		Title:        req.Title,
		Description:  req.Description,
		CanvasID:     canvasID,
		Width:        req.Width,
		Height:       req.Height,
		Status:       projects.StatusActive,
		BaseImageURL: req.BaseImage,
		OwnerID:      userID,
	}
	if req.Price > 0 {
		project.Price = req.Price
	}
	// The owner is the first contributor.
	project.AddContributor(userID)

	if err := h.DB.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			apperr.Respond(c, apperr.Conflict("A project with this canvasId already exists"))
			return
		}
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GET /projects
func (h *Handler) ListActive(c *gin.Context) {
	var list []projects.Project
	err := h.DB.Where("status = ?", projects.StatusActive).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if list == nil {
		list = []projects.Project{}
	}
	c.JSON(http.StatusOK, list)
}

// GET /projects/:projectId
func (h *Handler) GetByID(c *gin.Context) {
	project, err := loadProject(h.DB, c.Param("projectId"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// GET /projects/:projectId/export renders a full-size PNG of the current canvas.
func (h *Handler) Export(c *gin.Context) {
	project, err := loadProject(h.DB, c.Param("projectId"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var contribs []contributions.Contribution
	err = h.DB.Where("project_id = ?", project.ID).
		Order("created_at ASC").
		Find(&contribs).Error
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	img, err := render.HighRes(project.Width, project.Height, contribs)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+project.CanvasID+`.png"`)
	c.Data(http.StatusOK, "image/png", img)
}

func loadProject(db *gorm.DB, id string) (*projects.Project, error) {
	var project projects.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}
	return &project, nil
}
