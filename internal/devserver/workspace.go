package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/response"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

type createWorkspaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
	Description string `json:"description"`
}

type updateWorkspaceRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Capacity    int    `json:"capacity" binding:"omitempty,gt=0"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (s *Server) listWorkspaces(c *gin.Context) {
	var rows []workspaceRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toDomainWorkspaces(rows))
}

func (s *Server) availableWorkspaces(c *gin.Context) {
	start, end, ok := s.windowParams(c, "startTime", "endTime")
	if !ok {
		return
	}
	s.respondAvailable(c, start, end, 0)
}

func (s *Server) availableWorkspacesWithCapacity(c *gin.Context) {
	start, end, ok := s.windowParams(c, "startTime", "endTime")
	if !ok {
		return
	}
	minCapacity, err := strconv.Atoi(c.Query("minCapacity"))
	if err != nil || minCapacity <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_CAPACITY", "minCapacity must be a positive integer")
		return
	}
	s.respondAvailable(c, start, end, minCapacity)
}

// respondAvailable lists active workspaces with no reservation intersecting
// the half-open window [start, end).
func (s *Server) respondAvailable(c *gin.Context, start, end time.Time, minCapacity int) {
	occupied := s.db.Model(&reservationRow{}).
		Select("workspace_id").
		Where("start_time < ? AND end_time > ?", end, start)

	q := s.db.Where("active = ?", true).Where("id NOT IN (?)", occupied)
	if minCapacity > 0 {
		q = q.Where("capacity >= ?", minCapacity)
	}

	var rows []workspaceRow
	if err := q.Order("id").Find(&rows).Error; err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toDomainWorkspaces(rows))
}

func (s *Server) createWorkspace(c *gin.Context) {
	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	row := workspaceRow{
		Name:        req.Name,
		Type:        req.Type,
		Capacity:    req.Capacity,
		Active:      true,
		Description: req.Description,
	}
	if err := s.db.Create(&row).Error; err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, toDomainWorkspace(row))
}

func (s *Server) updateWorkspace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var row workspaceRow
	err := s.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "workspace not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Type != "" {
		row.Type = req.Type
	}
	if req.Capacity > 0 {
		row.Capacity = req.Capacity
	}
	if req.Description != "" {
		row.Description = req.Description
	}
	if req.Active != nil {
		row.Active = *req.Active
	}

	if err := s.db.Save(&row).Error; err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toDomainWorkspace(row))
}

func (s *Server) deactivateWorkspace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var row workspaceRow
	err := s.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "workspace not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}

	row.Active = false
	if err := s.db.Save(&row).Error; err != nil {
		response.Internal(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) windowParams(c *gin.Context, startKey, endKey string) (start, end time.Time, ok bool) {
	start, err := timeutil.ParseWire(c.Query(startKey))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_TIME_FORMAT", startKey+" must use yyyy-MM-dd HH:mm:ss")
		return start, end, false
	}
	end, err = timeutil.ParseWire(c.Query(endKey))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_TIME_FORMAT", endKey+" must use yyyy-MM-dd HH:mm:ss")
		return start, end, false
	}
	if !start.Before(end) {
		response.Error(c, http.StatusBadRequest, "INVALID_TIME_RANGE", "start time must precede end time")
		return start, end, false
	}
	return start, end, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid id")
		return 0, false
	}
	return id, true
}

func toDomainWorkspaces(rows []workspaceRow) []domain.Workspace {
	out := make([]domain.Workspace, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomainWorkspace(r))
	}
	return out
}
