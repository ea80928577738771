// Command staffdesk es la CLI de operaciones: pensada para chequear una
// instancia corriendo (health, métricas) y para tareas administrativas
// rápidas contra la API sin armar requests a mano.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/staffdesk/internal/bootstrap"
	"github.com/dropDatabas3/staffdesk/internal/config"
	"github.com/dropDatabas3/staffdesk/internal/store"
)

// version se inyecta con -ldflags "-X main.version=v1.2.3".
var version = "dev"

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("STAFFDESK_URL", "http://localhost:8080")
		token   = envOr("STAFFDESK_TOKEN", "")
		out     = envOr("STAFFDESK_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "staffdesk",
		Short: "CLI de operaciones para StaffDesk",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env STAFFDESK_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Access token Bearer (env STAFFDESK_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: timeout}}
	// Los flags se resuelven recién en Execute; capturamos acá. Ojo:
	// cobra corre sólo el PersistentPreRun más cercano, así que los
	// grupos con hook propio tienen que llamar a capture() ellos mismos.
	capture := func() {
		cl.BaseURL = baseURL
		cl.Token = token
		cl.OutFormat = out
	}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) { capture() }

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Versión de la CLI",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Ping a /healthz",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/healthz", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping fallo: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Estado de dependencias vía /readyz",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/readyz", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status/100 != 2 {
				return fmt.Errorf("instancia degradada: status=%d", status)
			}
			return nil
		},
	}

	var loginEmail, loginPass string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login contra /v1/auth/login (imprime los tokens)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginEmail == "" || loginPass == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			b, _ := json.Marshal(map[string]string{"email": loginEmail, "password": loginPass})
			status, body, err := cl.do("POST", "/v1/auth/login", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("login fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email de la cuenta")
	loginCmd.Flags().StringVar(&loginPass, "password", "", "Contraseña")

	cacheStatsCmd := &cobra.Command{
		Use:   "cache-stats",
		Short: "Contadores del cache de aplicación (filtra /metrics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/metrics", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("metrics fallo: status=%d", status)
			}
			found := false
			for _, line := range strings.Split(string(body), "\n") {
				if strings.HasPrefix(line, "staffdesk_cache_") {
					fmt.Println(line)
					found = true
				}
			}
			if !found {
				return fmt.Errorf("sin métricas staffdesk_cache_*: ¿endpoint /metrics habilitado?")
			}
			return nil
		},
	}

	var bsEmail, bsPassword, bsDSN string
	bootstrapCmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Crea la cuenta ADMIN inicial directo contra la base",
		Long: "Crea la primera cuenta ADMIN conectándose a Postgres (no pasa por la API).\n" +
			"Sin --email/--password pide las credenciales por stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envOr("CONFIG_PATH", ""))
			if err != nil {
				return err
			}
			if bsDSN != "" {
				cfg.Storage.Driver, cfg.Storage.DSN = "postgres", bsDSN
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("bootstrap necesita storage.driver=postgres (flag --dsn o env STORAGE_DSN)")
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			dal, err := store.Open(ctx, store.Config{
				Driver:          cfg.Storage.Driver,
				DSN:             cfg.Storage.DSN,
				MaxConns:        cfg.Storage.Postgres.MaxConns,
				MinConns:        cfg.Storage.Postgres.MinConns,
				ConnMaxLifetime: cfg.ConnMaxLifetime(),
			})
			if err != nil {
				return err
			}
			defer dal.Close()

			mail, plain := bsEmail, bsPassword
			if mail == "" || plain == "" {
				mail, plain, err = bootstrap.PromptCredentials()
				if err != nil {
					return err
				}
			}
			u, created, err := bootstrap.EnsureAdmin(ctx, dal.Users, mail, plain)
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("Admin creado: %s (id=%s)\n", u.Email, u.ID)
			} else {
				fmt.Printf("Admin ya existía: %s (id=%s)\n", u.Email, u.ID)
			}
			return nil
		},
	}
	bootstrapCmd.Flags().StringVar(&bsEmail, "email", "", "Email del admin (vacío = prompt)")
	bootstrapCmd.Flags().StringVar(&bsPassword, "password", "", "Contraseña (vacía = prompt)")
	bootstrapCmd.Flags().StringVar(&bsDSN, "dsn", "", "DSN de Postgres (pisa la config)")

	// grupo admin: endpoints que piden rol ADMIN
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operaciones que requieren rol ADMIN",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			capture()
			if token == "" {
				return fmt.Errorf("falta access token (flag --token o env STAFFDESK_TOKEN)")
			}
			return nil
		},
	}

	var auditLimit int
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Últimos eventos del audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", fmt.Sprintf("/v1/audit-logs?limit=%d", auditLimit), nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("audit fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Cantidad de eventos")

	adminCmd.AddCommand(auditCmd)

	root.AddCommand(versionCmd)
	root.AddCommand(pingCmd)
	root.AddCommand(statusCmd)
	root.AddCommand(loginCmd)
	root.AddCommand(cacheStatsCmd)
	root.AddCommand(bootstrapCmd)
	root.AddCommand(adminCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
