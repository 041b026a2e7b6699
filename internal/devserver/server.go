// Package devserver is an in-process stand-in for the coworking backend: the
// /auth-api identity surface and the /api workspace/reservation surface the
// client consumes. It exists for offline development and for end-to-end tests
// of the client; it mirrors the production semantics (JWT bearer auth,
// refresh rotation, reservation overlap rejection) without being a system of
// record.
package devserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bemooooooooo/coworking-client/internal/middleware"
	jwtsvc "github.com/bemooooooooo/coworking-client/internal/pkg/jwt"
)

type Server struct {
	db         *gorm.DB
	jwt        *jwtsvc.Service
	refreshTTL time.Duration
	pepper     string
	now        func() time.Time
}

func New(db *gorm.DB, jwt *jwtsvc.Service, refreshTTL time.Duration, pepper string) (*Server, error) {
	if err := db.AutoMigrate(&userRow{}, &workspaceRow{}, &reservationRow{}, &refreshTokenRow{}); err != nil {
		return nil, err
	}
	return &Server{
		db:         db,
		jwt:        jwt,
		refreshTTL: refreshTTL,
		pepper:     pepper,
		now:        time.Now,
	}, nil
}

// Router builds the gin engine with both API bases mounted, matching the
// paths the client adapters call.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	authAPI := r.Group("/auth-api")
	{
		authAPI.POST("/auth/login", s.login)
		authAPI.POST("/auth/register", s.register)
		authAPI.POST("/auth/refresh", s.refresh)

		users := authAPI.Group("/users")
		users.Use(middleware.JWTAuth(s.jwt))
		{
			users.GET("/profile", s.getProfile)
			users.PUT("/profile", s.updateProfile)
		}
	}

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(s.jwt))
	{
		api.GET("/workspaces", s.listWorkspaces)
		api.GET("/workspaces/available", s.availableWorkspaces)
		api.GET("/workspaces/available/capacity", s.availableWorkspacesWithCapacity)

		admin := api.Group("")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/workspaces", s.createWorkspace)
			admin.PUT("/workspaces/:id", s.updateWorkspace)
			admin.DELETE("/workspaces/:id", s.deactivateWorkspace)
		}

		api.POST("/reservations", s.createReservation)
		api.GET("/reservations/user", s.listUserReservations)
		api.GET("/reservations/user/active", s.listUserActiveReservations)
		api.GET("/reservations/range", s.listReservationsInRange)
		api.GET("/reservations/workspace/:id", s.listWorkspaceReservations)
		api.GET("/reservations/:id", s.getReservation)
		api.PUT("/reservations/:id/time", s.updateReservationTime)
		api.DELETE("/reservations/:id", s.cancelReservation)
	}

	return r
}
