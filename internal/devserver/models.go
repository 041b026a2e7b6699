package devserver

import (
	"time"

	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

type userRow struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRow) TableName() string { return "users" }

type workspaceRow struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	Type        string `gorm:"column:type"`
	Capacity    int    `gorm:"column:capacity"`
	Active      bool   `gorm:"column:active"`
	Description string `gorm:"column:description"`
}

func (workspaceRow) TableName() string { return "workspaces" }

type reservationRow struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;index"`
	WorkspaceID int64     `gorm:"column:workspace_id;index"`
	StartTime   time.Time `gorm:"column:start_time"`
	EndTime     time.Time `gorm:"column:end_time"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (reservationRow) TableName() string { return "reservations" }

type refreshTokenRow struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	UserID    int64      `gorm:"column:user_id;index"`
	TokenHash string     `gorm:"column:token_hash;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"column:expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (refreshTokenRow) TableName() string { return "refresh_tokens" }

func toDomainUser(m userRow) domain.User {
	return domain.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Role:      domain.UserRole(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainWorkspace(m workspaceRow) domain.Workspace {
	return domain.Workspace{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.Type,
		Capacity:    m.Capacity,
		Active:      m.Active,
		Description: m.Description,
	}
}

func toDomainReservation(m reservationRow, workspaceName string) domain.Reservation {
	return domain.Reservation{
		ID:            m.ID,
		UserID:        m.UserID,
		WorkspaceID:   m.WorkspaceID,
		WorkspaceName: workspaceName,
		StartTime:     timeutil.NewWireTime(m.StartTime),
		EndTime:       timeutil.NewWireTime(m.EndTime),
		Status:        domain.ReservationStatus(m.Status),
	}
}
