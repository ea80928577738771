// Command migrate aplica las migraciones SQL embebidas contra Postgres.
//
// Uso:
//
//	migrate [flags] [up|pending]
//
// "up" (default) aplica todo lo pendiente; "pending" solo lista qué
// falta sin tocar la base. El DSN sale de -dsn, o en su defecto de la
// config (storage.dsn), que a su vez puede venir de STORAGE_DSN.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/staffdesk/internal/config"
	"github.com/dropDatabas3/staffdesk/internal/store/pg"
	migrations "github.com/dropDatabas3/staffdesk/migrations/postgres"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "ruta al YAML de configuración (vacío = defaults + env)")
		envFile = flag.String("env-file", ".env", "archivo dotenv a cargar si existe")
		dsn     = flag.String("dsn", "", "DSN de Postgres (pisa storage.dsn de la config)")
	)
	flag.Parse()

	action := "up"
	if args := flag.Args(); len(args) > 0 && args[0] != "" {
		action = strings.ToLower(args[0])
	}

	if *envFile != "" && fileExists(*envFile) {
		_ = godotenv.Load(*envFile)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	target := strings.TrimSpace(*dsn)
	if target == "" {
		target = strings.TrimSpace(cfg.Storage.DSN)
	}
	if target == "" {
		log.Fatal("falta el DSN: usá -dsn o definí storage.dsn / STORAGE_DSN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, target)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	m := pg.NewMigrator(pool, migrations.FS, migrations.Dir)

	switch action {
	case "up":
		start := time.Now()
		n, err := m.Up(ctx)
		if err != nil {
			log.Fatalf("migrar: %v", err)
		}
		if n == 0 {
			log.Println("nada pendiente, el esquema ya está al día")
			return
		}
		log.Printf("aplicadas %d migración(es) en %s", n, time.Since(start).Truncate(time.Millisecond))

	case "pending":
		pend, err := m.Pending(ctx)
		if err != nil {
			log.Fatalf("listar pendientes: %v", err)
		}
		if len(pend) == 0 {
			log.Println("sin migraciones pendientes")
			return
		}
		for _, mig := range pend {
			log.Printf("pendiente: %04d_%s", mig.Version, mig.Name)
		}

	default:
		log.Fatalf("acción desconocida %q (usá: up | pending)", action)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
