// cmd/seed/main.go loads the catalog JSON files into the database.
// Uso: go run ./cmd/seed [-dir data_seed] [-if-empty]
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"

	"costeodcm/internal/config"
	"costeodcm/internal/infra"
	"costeodcm/internal/repository"
	"costeodcm/internal/service"

	"github.com/rs/zerolog/log"
)

const (
	archivoProductos = "productos_catalogo.json"
	archivoCostos    = "costos_generales_full.json"
)

func main() {
	var (
		dir     string
		ifEmpty bool
	)
	flag.StringVar(&dir, "dir", "", "Directorio con los JSON (default: SEED_DIR)")
	flag.BoolVar(&ifEmpty, "if-empty", false, "Omitir si ya hay productos cargados")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.ConfigurarLogger(cfg.Env, cfg.LogLevel)
	if dir == "" {
		dir = cfg.SeedDir
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := infra.PrepararEsquema(db, cfg.DatabaseURL, cfg.Migrations); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare schema")
	}

	ctx := context.Background()
	productos := repository.NewProductoRepository(db)
	if ifEmpty {
		n, err := productos.Count(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to count products")
		}
		if n > 0 {
			log.Info().Int64("productos", n).Msg("base ya inicializada, seed omitido")
			return
		}
	}

	importSvc := service.NewImportService(
		repository.NewCostoItemRepository(db),
		repository.NewCostoHistorialRepository(db),
		productos,
		nil,
	)

	if data, ok := leer(filepath.Join(dir, archivoProductos)); ok {
		if _, err := importSvc.ImportarProductos(ctx, data); err != nil {
			log.Fatal().Err(err).Str("archivo", archivoProductos).Msg("seed de productos fallido")
		}
	}
	if data, ok := leer(filepath.Join(dir, archivoCostos)); ok {
		if _, err := importSvc.ImportarCostos(ctx, data); err != nil {
			log.Fatal().Err(err).Str("archivo", archivoCostos).Msg("seed de costos fallido")
		}
	}
	log.Info().Msg("seed completado")
}

// leer returns false when the file does not exist; any other error is fatal.
func leer(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("archivo", path).Msg("archivo no encontrado")
		return nil, false
	}
	if err != nil {
		log.Fatal().Err(err).Str("archivo", path).Msg("no se pudo leer")
	}
	return data, true
}
