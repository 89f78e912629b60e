// cmd/gentoken/main.go mints a development access token signed with JWT_SECRET.
// Uso: go run ./cmd/gentoken -rol admin -sub usuario-demo
package main

import (
	"flag"
	"fmt"
	"time"

	"costeodcm/internal/config"
	"costeodcm/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		rol   string
		sub   string
		email string
		horas int
	)
	flag.StringVar(&rol, "rol", middleware.RolAdmin, "admin | vendedor")
	flag.StringVar(&sub, "sub", "usuario-demo", "Id del usuario (claim sub)")
	flag.StringVar(&email, "email", "demo@dcm.local", "Email del usuario")
	flag.IntVar(&horas, "horas", 8, "Vigencia en horas")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsProduction() {
		log.Fatal().Msg("gentoken no se usa en produccion")
	}

	now := time.Now()
	claims := middleware.JWTClaims{
		Email: email,
		Rol:   rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(horas) * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
