// El binario service levanta la API HTTP de staffdesk.
//
// Orden de arranque: dotenv → config → logger → DAL → KV → cache →
// issuer JWT → email → métricas → services → router → Serve. El
// apagado es ordenado: SIGINT/SIGTERM cancelan el contexto y el
// servidor drena las conexiones en curso.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/staffdesk/internal/audit"
	"github.com/dropDatabas3/staffdesk/internal/bootstrap"
	"github.com/dropDatabas3/staffdesk/internal/cache"
	"github.com/dropDatabas3/staffdesk/internal/config"
	"github.com/dropDatabas3/staffdesk/internal/email"
	httpx "github.com/dropDatabas3/staffdesk/internal/http"
	"github.com/dropDatabas3/staffdesk/internal/http/controllers"
	"github.com/dropDatabas3/staffdesk/internal/http/middlewares"
	"github.com/dropDatabas3/staffdesk/internal/http/router"
	"github.com/dropDatabas3/staffdesk/internal/http/services/auditlog"
	authsvc "github.com/dropDatabas3/staffdesk/internal/http/services/auth"
	"github.com/dropDatabas3/staffdesk/internal/http/services/dashboard"
	employeesvc "github.com/dropDatabas3/staffdesk/internal/http/services/employees"
	"github.com/dropDatabas3/staffdesk/internal/http/services/health"
	leavesvc "github.com/dropDatabas3/staffdesk/internal/http/services/leaves"
	"github.com/dropDatabas3/staffdesk/internal/http/services/notifications"
	payrollsvc "github.com/dropDatabas3/staffdesk/internal/http/services/payrolls"
	jwtx "github.com/dropDatabas3/staffdesk/internal/jwt"
	"github.com/dropDatabas3/staffdesk/internal/kv"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
	"github.com/dropDatabas3/staffdesk/internal/rate"
	"github.com/dropDatabas3/staffdesk/internal/store"
)

// version se pisa en build con -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
		flagPrint      = flag.Bool("print-config", false, "imprime la config efectiva y termina")
	)
	flag.Parse()

	if *flagEnvFile != "" && fileExists(*flagEnvFile) {
		if err := godotenv.Load(*flagEnvFile); err == nil {
			log.Printf("dotenv: cargado %s", *flagEnvFile)
		}
	}

	cfgPath := *flagConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" && fileExists("configs/config.yaml") {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagPrint {
		printConfigSummary(cfg)
		return
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: cfg.App.Name})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ─── Persistencia ───
	dal, err := store.Open(ctx, store.Config{
		Driver:          cfg.Storage.Driver,
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
	})
	if err != nil {
		lg.Fatal("store", logger.Err(err))
	}
	defer dal.Close()

	// Primera cuenta ADMIN en instalaciones nuevas, sin prompt.
	if adminEmail := os.Getenv("BOOTSTRAP_ADMIN_EMAIL"); adminEmail != "" {
		_, created, err := bootstrap.EnsureAdmin(ctx, dal.Users, adminEmail, os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"))
		if err != nil {
			lg.Fatal("bootstrap admin", logger.Err(err))
		}
		if created {
			lg.Info("cuenta admin inicial creada", logger.Email(adminEmail))
		}
	}

	// ─── KV (sesiones y rate limit) ───
	var kvc kv.Client
	switch cfg.KV.Driver {
	case "redis":
		kvc, err = kv.NewRedis(kv.Config{
			Addr:     cfg.KV.Redis.Addr,
			Password: cfg.KV.Redis.Password,
			DB:       cfg.KV.Redis.DB,
			Prefix:   cfg.KV.Redis.Prefix,
		})
		if err != nil {
			lg.Fatal("kv", logger.Err(err))
		}
	default:
		kvc = kv.NewMemory(cfg.KV.Redis.Prefix)
	}
	defer func() { _ = kvc.Close() }()

	// ─── Cache de aplicación ───
	appCache := cache.New(cfg.CacheDefaultTTL())
	defer appCache.Stop()

	// ─── JWT ───
	issuer, err := jwtx.NewIssuer(jwtx.Config{
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		KeySeed:    cfg.JWT.KeySeed,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	})
	if err != nil {
		lg.Fatal("jwt", logger.Err(err))
	}
	if cfg.JWT.KeySeed == "" {
		lg.Warn("jwt sin key_seed: clave efímera, los tokens mueren con el proceso")
	}

	// ─── Email ───
	var sender email.Sender = email.Noop{}
	if cfg.Email.Enabled {
		smtp := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
		smtp.TLSMode = cfg.SMTP.TLS
		smtp.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		sender = smtp
	}

	// ─── Rate limiting de login ───
	var loginLimiter rate.Limiter
	if cfg.Rate.Enabled {
		loginLimiter = rate.NewKVLimiter(kvc, "login", cfg.Rate.Login.Limit, cfg.LoginWindow())
	}

	// ─── Métricas ───
	metricsHandler, err := httpx.RegisterMetrics(httpx.MetricsConfig{
		Pool:  dal.Pool,
		Cache: appCache,
	})
	if err != nil {
		lg.Fatal("metrics", logger.Err(err))
	}

	// ─── Services y controllers ───
	rec := audit.NewRecorder(dal.Audit)
	svcs := controllers.Services{
		Auth: authsvc.New(authsvc.Deps{
			Users: dal.Users, Employees: dal.Employees, Issuer: issuer, KV: kvc, Audit: rec,
		}),
		Employees: employeesvc.New(employeesvc.Deps{
			Employees: dal.Employees, Cache: appCache, Audit: rec, Email: sender, BaseURL: cfg.Email.BaseURL,
		}),
		Leaves: leavesvc.New(leavesvc.Deps{
			Leaves: dal.Leaves, Employees: dal.Employees, Cache: appCache, Audit: rec,
			Email: sender, BaseURL: cfg.Email.BaseURL,
		}),
		Payrolls: payrollsvc.New(payrollsvc.Deps{
			Payrolls: dal.Payrolls, Employees: dal.Employees, Cache: appCache, Audit: rec,
		}),
		Dashboard: dashboard.New(dashboard.Deps{
			Employees: dal.Employees, Leaves: dal.Leaves, Payrolls: dal.Payrolls,
			Audit: dal.Audit, Cache: appCache, TTL: cfg.CacheDefaultTTL(),
		}),
		Notifications: notifications.New(notifications.Deps{
			Employees: dal.Employees, Leaves: dal.Leaves, Payrolls: dal.Payrolls, Audit: dal.Audit,
		}),
		AuditLog: auditlog.New(auditlog.Deps{Audit: dal.Audit}),
		Health: health.New(health.Deps{
			PingDB:  dal.Ping,
			KV:      kvc,
			Service: cfg.App.Name,
			Version: version,
		}),
	}

	handler := router.New(router.Deps{
		Controllers:  controllers.New(svcs),
		Issuer:       issuer,
		LoginLimiter: loginLimiter,
		CORS:         middlewares.CORSConfig{AllowedOrigins: cfg.Server.CORSAllowedOrigins},
		Metrics:      metricsHandler,
	})

	lg.Info("staffdesk escuchando",
		logger.String("addr", cfg.Server.Addr),
		logger.String("storage", dal.Driver()),
		logger.String("kv", cfg.KV.Driver),
		logger.String("version", version),
	)
	if err := httpx.Serve(ctx, cfg.Server.Addr, handler, 15*time.Second); err != nil {
		lg.Fatal("server", logger.Err(err))
	}
	lg.Info("apagado limpio")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func printConfigSummary(cfg *config.Config) {
	fmt.Printf("app:      env=%s name=%s\n", cfg.App.Env, cfg.App.Name)
	fmt.Printf("server:   addr=%s cors=%v\n", cfg.Server.Addr, cfg.Server.CORSAllowedOrigins)
	fmt.Printf("storage:  driver=%s\n", cfg.Storage.Driver)
	fmt.Printf("kv:       driver=%s\n", cfg.KV.Driver)
	fmt.Printf("cache:    default_ttl=%s\n", cfg.Cache.DefaultTTL)
	fmt.Printf("jwt:      iss=%s aud=%s access=%s refresh=%s seed=%v\n",
		cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.KeySeed != "")
	fmt.Printf("rate:     enabled=%v login=%d/%s\n", cfg.Rate.Enabled, cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
	fmt.Printf("email:    enabled=%v base_url=%s\n", cfg.Email.Enabled, cfg.Email.BaseURL)
	fmt.Printf("log:      level=%s\n", cfg.Log.Level)
}
