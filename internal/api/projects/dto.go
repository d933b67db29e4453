package projects

type CreateProjectRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	CanvasID    string  `json:"canvasId"`
	Width       int     `json:"width" binding:"required"`
	Height      int     `json:"height" binding:"required"`
	Price       float64 `json:"price"`
	BaseImage   string  `json:"baseImageUrl"`
}

type AddContributorsRequest struct {
	UserIDsToAdd []uint `json:"userIdsToAdd" binding:"required"`
}

type RemoveContributorRequest struct {
	ProjectID      string `json:"projectId" binding:"required"`
	UserIDToRemove uint   `json:"userIdToRemove" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
