package main

import (
	"log"

	"github.com/bemooooooooo/coworking-client/internal/config"
	"github.com/bemooooooooo/coworking-client/internal/database"
	"github.com/bemooooooooo/coworking-client/internal/devserver"
	jwtsvc "github.com/bemooooooooo/coworking-client/internal/pkg/jwt"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	srv, err := devserver.New(db, j, cfg.RefreshTTL, cfg.RefreshTokenPepper)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("dev backend listening on %s", cfg.Addr)
	if err := srv.Router().Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
