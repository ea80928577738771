// Command seed carga un dataset de demo en la base: cuentas admin/HR,
// fichas de empleados, licencias en varios estados y liquidaciones del
// período actual. Es idempotente: correrlo dos veces no duplica nada.
//
// Credenciales y cantidades se pueden pisar por env (SEED_*). El DSN
// sale de la config (storage.dsn / STORAGE_DSN).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/staffdesk/internal/config"
	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/security/password"
	"github.com/dropDatabas3/staffdesk/internal/store"
)

func strEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	// .env (opcional) - prioridad .env.dev > .env
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.dev")

	cfg, err := config.Load(strEnv("CONFIG_PATH", ""))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		log.Fatal("seed necesita storage.driver=postgres: sobre memory no persiste nada")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dal, err := store.Open(ctx, store.Config{
		Driver:          cfg.Storage.Driver,
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
	})
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer dal.Close()

	adminEmail := strEnv("SEED_ADMIN_EMAIL", "admin@staffdesk.test")
	adminPass := strEnv("SEED_ADMIN_PASSWORD", "Admin.1234!")
	hrEmail := strEnv("SEED_HR_EMAIL", "rrhh@staffdesk.test")
	hrPass := strEnv("SEED_HR_PASSWORD", "Recursos.1234!")
	empPass := strEnv("SEED_EMPLOYEE_PASSWORD", "Empleado.1234!")

	s := seeder{dal: dal}

	// Paso 1: cuentas de staff.
	admin := s.ensureUser(ctx, adminEmail, adminPass, repository.RoleAdmin)
	hrUser := s.ensureUser(ctx, hrEmail, hrPass, repository.RoleHR)

	// Paso 2: fichas. Bruno y Camila tienen cuenta propia para poder
	// probar el flujo de empleado (licencias, recibos, /v1/me); la ficha
	// de Valentina se vincula después a la cuenta HR.
	people := []struct {
		first, last, position, department string
		salary                            int64 // centavos
		withAccount                       bool
	}{
		{"Valentina", "Ríos", "Gerenta de RRHH", "RRHH", 520_000_00, false},
		{"Bruno", "Paz", "Desarrollador Backend", "Ingeniería", 480_000_00, true},
		{"Camila", "Funes", "Desarrolladora Frontend", "Ingeniería", 465_000_00, true},
		{"Joaquín", "Sosa", "Analista Contable", "Finanzas", 390_000_00, false},
		{"Martina", "Vega", "Ejecutiva de Cuentas", "Ventas", 355_000_00, false},
		{"Lucas", "Herrera", "Soporte Técnico", "Ingeniería", 310_000_00, false},
		{"Sofía", "Aguirre", "Diseñadora UX", "Producto", 420_000_00, false},
		{"Tomás", "Ledesma", "Administrativo", "Finanzas", 285_000_00, false},
	}

	employees := make([]*repository.Employee, 0, len(people))
	var accounts []string
	for _, p := range people {
		email := fmt.Sprintf("%s.%s@staffdesk.test", normalizeASCII(p.first), normalizeASCII(p.last))
		var userID *string
		if p.withAccount {
			u := s.ensureUser(ctx, email, empPass, repository.RoleEmployee)
			userID = &u.ID
			accounts = append(accounts, email)
		}
		emp := s.ensureEmployee(ctx, repository.CreateEmployeeInput{
			UserID:     userID,
			FirstName:  p.first,
			LastName:   p.last,
			Email:      email,
			Position:   p.position,
			Department: p.department,
			Salary:     p.salary,
			HiredAt:    time.Now().UTC().AddDate(-2, -len(employees), 0),
		})
		employees = append(employees, emp)
	}

	// La cuenta HR queda vinculada a la ficha de la gerenta de RRHH para
	// que /v1/me y el feed de notificaciones de staff tengan datos.
	if employees[0].UserID == nil || *employees[0].UserID != hrUser.ID {
		if _, err := dal.Employees.Update(ctx, employees[0].ID, repository.UpdateEmployeeInput{UserID: &hrUser.ID}); err != nil {
			log.Fatalf("vincular ficha HR: %v", err)
		}
	}

	// Paso 3: licencias en los tres estados, decididas por la cuenta HR.
	leaves := s.ensureLeaves(ctx, employees, hrUser.ID)

	// Paso 4: liquidaciones del período actual (DRAFT) y del anterior
	// (ISSUED), para que las transiciones tengan de dónde partir.
	now := time.Now().UTC()
	current := now.Format("2006-01")
	previous := now.AddDate(0, -1, 0).Format("2006-01")
	drafts, issued := 0, 0
	for _, emp := range employees {
		net := emp.Salary - emp.Salary*17/100
		if s.ensurePayroll(ctx, emp.ID, current, emp.Salary, net, "", nil) {
			drafts++
		}
		at := now.AddDate(0, -1, 0)
		if s.ensurePayroll(ctx, emp.ID, previous, emp.Salary, net, repository.PayrollIssued, &at) {
			issued++
		}
	}

	// Paso 5: dejar constancia de la corrida.
	if _, err := dal.Audit.Insert(ctx, repository.InsertAuditInput{
		UserID: &admin.ID,
		Action: "seed.run",
		Entity: "system",
		Detail: map[string]any{"employees": len(employees), "leaves": leaves},
	}); err != nil {
		log.Fatalf("audit: %v", err)
	}

	fmt.Println()
	fmt.Println("Seed listo ✅")
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Admin:  %s / %s\n", adminEmail, adminPass)
	fmt.Printf("HR:     %s / %s\n", hrEmail, hrPass)
	for _, email := range accounts {
		fmt.Printf("Emp:    %s / %s\n", email, empPass)
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Fichas:        %d\n", len(employees))
	fmt.Printf("Licencias:     %d nuevas\n", leaves)
	fmt.Printf("Liquidaciones: %d DRAFT (%s), %d ISSUED (%s)\n", drafts, current, issued, previous)
	fmt.Println("--------------------------------------------------")
}

type seeder struct {
	dal *store.DAL
}

// ensureUser crea la cuenta si no existe. Si ya existe le repone la
// contraseña, para que las credenciales impresas sirvan entre corridas.
func (s seeder) ensureUser(ctx context.Context, email, plain, role string) *repository.User {
	phc, err := password.Hash(password.Default, plain)
	if err != nil {
		log.Fatalf("hash %s: %v", email, err)
	}
	u, err := s.dal.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.dal.Users.UpdatePassword(ctx, u.ID, phc); err != nil {
			log.Fatalf("reset password %s: %v", email, err)
		}
		return u
	case repository.IsNotFound(err):
		u, err = s.dal.Users.Create(ctx, repository.CreateUserInput{
			Email:        email,
			PasswordHash: phc,
			Role:         role,
		})
		if err != nil {
			log.Fatalf("crear usuario %s: %v", email, err)
		}
		return u
	default:
		log.Fatalf("buscar usuario %s: %v", email, err)
		return nil
	}
}

// ensureEmployee reutiliza la ficha si el email ya está cargado.
func (s seeder) ensureEmployee(ctx context.Context, in repository.CreateEmployeeInput) *repository.Employee {
	got, _, err := s.dal.Employees.List(ctx, repository.ListEmployeesParams{Search: in.Email, Limit: 1})
	if err != nil {
		log.Fatalf("buscar ficha %s: %v", in.Email, err)
	}
	if len(got) > 0 {
		return &got[0]
	}
	emp, err := s.dal.Employees.Create(ctx, in)
	if err != nil {
		log.Fatalf("crear ficha %s: %v", in.Email, err)
	}
	return emp
}

// ensureLeaves carga licencias de muestra sólo para empleados que aún no
// tienen ninguna. Retorna cuántas creó.
func (s seeder) ensureLeaves(ctx context.Context, employees []*repository.Employee, deciderID string) int {
	now := time.Now().UTC()
	samples := []struct {
		kind, reason, status string
		startIn, days        int
	}{
		{repository.LeaveVacation, "vacaciones de verano", repository.LeaveApproved, 20, 10},
		{repository.LeaveSick, "gripe", repository.LeaveRejected, -5, 2},
		{repository.LeaveUnpaid, "trámite personal", "", 7, 1},
		{repository.LeaveVacation, "fin de semana largo", "", 14, 2},
		{repository.LeaveOther, "mudanza", repository.LeaveApproved, 3, 1},
	}
	created := 0
	for i, emp := range employees {
		if i >= len(samples) {
			break
		}
		existing, err := s.dal.Leaves.ListByEmployee(ctx, emp.ID)
		if err != nil {
			log.Fatalf("licencias de %s: %v", emp.Email, err)
		}
		if len(existing) > 0 {
			continue
		}
		sm := samples[i]
		start := now.AddDate(0, 0, sm.startIn).Truncate(24 * time.Hour)
		lv, err := s.dal.Leaves.Create(ctx, repository.CreateLeaveInput{
			EmployeeID: emp.ID,
			Kind:       sm.kind,
			StartDate:  start,
			EndDate:    start.AddDate(0, 0, sm.days),
			Reason:     sm.reason,
		})
		if err != nil {
			log.Fatalf("crear licencia %s: %v", emp.Email, err)
		}
		if sm.status != "" {
			if _, err := s.dal.Leaves.SetStatus(ctx, lv.ID, sm.status, deciderID, now); err != nil {
				log.Fatalf("decidir licencia %s: %v", emp.Email, err)
			}
		}
		created++
	}
	return created
}

// ensurePayroll crea la liquidación salvo que el período ya esté tomado.
// Retorna true si la creó.
func (s seeder) ensurePayroll(ctx context.Context, employeeID, period string, gross, net int64, status string, issuedAt *time.Time) bool {
	p, err := s.dal.Payrolls.Create(ctx, repository.CreatePayrollInput{
		EmployeeID: employeeID,
		Period:     period,
		GrossPay:   gross,
		Deductions: gross - net,
		NetPay:     net,
	})
	if repository.IsConflict(err) {
		return false
	}
	if err != nil {
		log.Fatalf("crear liquidación %s %s: %v", employeeID, period, err)
	}
	if status != "" {
		if _, err := s.dal.Payrolls.SetStatus(ctx, p.ID, status, issuedAt); err != nil {
			log.Fatalf("emitir liquidación %s %s: %v", employeeID, period, err)
		}
	}
	return true
}

// normalizeASCII baja a ASCII los apellidos con tilde para armar emails.
func normalizeASCII(s string) string {
	r := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")
	return r.Replace(strings.ToLower(s))
}
