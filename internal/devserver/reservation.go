package devserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/response"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

type createReservationRequest struct {
	WorkspaceID int64             `json:"workspaceId" binding:"required"`
	StartTime   timeutil.WireTime `json:"startTime" binding:"required"`
	EndTime     timeutil.WireTime `json:"endTime" binding:"required"`
}

func (s *Server) createReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !req.StartTime.Before(req.EndTime.Time) {
		response.Error(c, http.StatusBadRequest, "INVALID_TIME_RANGE", "start time must precede end time")
		return
	}
	if req.StartTime.Before(s.now()) {
		response.Error(c, http.StatusBadRequest, "TIME_IN_PAST", "reservation must start in the future")
		return
	}

	var ws workspaceRow
	err := s.db.First(&ws, req.WorkspaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "workspace not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}
	if !ws.Active {
		response.Error(c, http.StatusBadRequest, "WORKSPACE_INACTIVE", "workspace is not active")
		return
	}

	if s.hasOverlap(req.WorkspaceID, req.StartTime.Time, req.EndTime.Time, 0) {
		response.Error(c, http.StatusConflict, "RESERVATION_CONFLICT", "workspace already reserved for this window")
		return
	}

	row := reservationRow{
		UserID:      c.GetInt64("user_id"),
		WorkspaceID: req.WorkspaceID,
		StartTime:   req.StartTime.Time,
		EndTime:     req.EndTime.Time,
		Status:      string(domain.ReservationActive),
	}
	if err := s.db.Create(&row).Error; err != nil {
		// on postgres the exclusion constraint is the authoritative check;
		// losing the race surfaces here instead of in hasOverlap
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			response.Error(c, http.StatusConflict, "RESERVATION_CONFLICT", "workspace already reserved for this window")
			return
		}
		response.Internal(c)
		return
	}

	c.JSON(http.StatusCreated, toDomainReservation(row, ws.Name))
}

func (s *Server) getReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var row reservationRow
	err := s.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "reservation not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toDomainReservation(row, s.workspaceName(row.WorkspaceID)))
}

func (s *Server) listUserReservations(c *gin.Context) {
	var rows []reservationRow
	err := s.db.Where("user_id = ?", c.GetInt64("user_id")).Order("start_time").Find(&rows).Error
	if err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, s.toDomainReservations(rows))
}

func (s *Server) listUserActiveReservations(c *gin.Context) {
	var rows []reservationRow
	err := s.db.
		Where("user_id = ? AND end_time > ? AND status = ?",
			c.GetInt64("user_id"), s.now(), string(domain.ReservationActive)).
		Order("start_time").Find(&rows).Error
	if err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, s.toDomainReservations(rows))
}

func (s *Server) updateReservationTime(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	newStart, newEnd, ok := s.windowParams(c, "newStartTime", "newEndTime")
	if !ok {
		return
	}

	var row reservationRow
	err := s.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "reservation not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}
	if !s.mayManage(c, row) {
		return
	}

	if s.hasOverlap(row.WorkspaceID, newStart, newEnd, row.ID) {
		response.Error(c, http.StatusConflict, "RESERVATION_CONFLICT", "workspace already reserved for this window")
		return
	}

	row.StartTime = newStart
	row.EndTime = newEnd
	if err := s.db.Save(&row).Error; err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, toDomainReservation(row, s.workspaceName(row.WorkspaceID)))
}

func (s *Server) cancelReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var row reservationRow
	err := s.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "reservation not found")
		return
	}
	if err != nil {
		response.Internal(c)
		return
	}
	if !s.mayManage(c, row) {
		return
	}

	// cancelling deletes the row; clients key on existence, not status
	if err := s.db.Delete(&row).Error; err != nil {
		response.Internal(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listWorkspaceReservations(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var rows []reservationRow
	if err := s.db.Where("workspace_id = ?", id).Order("start_time").Find(&rows).Error; err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, s.toDomainReservations(rows))
}

func (s *Server) listReservationsInRange(c *gin.Context) {
	start, end, ok := s.windowParams(c, "startTime", "endTime")
	if !ok {
		return
	}
	var rows []reservationRow
	err := s.db.Where("start_time < ? AND end_time > ?", end, start).Order("start_time").Find(&rows).Error
	if err != nil {
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, s.toDomainReservations(rows))
}

// hasOverlap reports whether any reservation other than excludeID intersects
// [start, end) on the workspace. Half-open: touching intervals do not clash.
func (s *Server) hasOverlap(workspaceID int64, start, end time.Time, excludeID int64) bool {
	var count int64
	q := s.db.Model(&reservationRow{}).
		Where("workspace_id = ? AND start_time < ? AND end_time > ?", workspaceID, end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return true // fail closed: better a spurious conflict than a double booking
	}
	return count > 0
}

// mayManage allows the owner and admins; writes the response on refusal.
func (s *Server) mayManage(c *gin.Context, row reservationRow) bool {
	if row.UserID == c.GetInt64("user_id") || c.GetString("role") == "admin" {
		return true
	}
	response.Error(c, http.StatusForbidden, "FORBIDDEN", "not your reservation")
	return false
}

func (s *Server) workspaceName(id int64) string {
	var ws workspaceRow
	if err := s.db.First(&ws, id).Error; err != nil {
		return ""
	}
	return ws.Name
}

func (s *Server) toDomainReservations(rows []reservationRow) []domain.Reservation {
	names := map[int64]string{}
	out := make([]domain.Reservation, 0, len(rows))
	for _, r := range rows {
		name, cached := names[r.WorkspaceID]
		if !cached {
			name = s.workspaceName(r.WorkspaceID)
			names[r.WorkspaceID] = name
		}
		out = append(out, toDomainReservation(r, name))
	}
	return out
}
