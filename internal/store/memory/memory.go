// Package memory implementa los repositorios de dominio sobre mapas en
// proceso. Es el driver por defecto para desarrollo local y tests: cero
// dependencias externas, misma semántica observable que el driver pg
// (errores, ordenamientos, unicidad).
//
// No persiste nada: reiniciar el proceso borra todo.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

// Store guarda todas las entidades bajo un único RWMutex. A la escala
// de dev/test no hay motivo para granularidad más fina.
type Store struct {
	mu        sync.RWMutex
	users     map[string]repository.User
	employees map[string]repository.Employee
	leaves    map[string]repository.LeaveRequest
	payrolls  map[string]repository.Payroll
	audit     []repository.AuditLog

	now func() time.Time
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		users:     map[string]repository.User{},
		employees: map[string]repository.Employee{},
		leaves:    map[string]repository.LeaveRequest{},
		payrolls:  map[string]repository.Payroll{},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() repository.UserRepository         { return &userRepo{s} }
func (s *Store) Employees() repository.EmployeeRepository { return &employeeRepo{s} }
func (s *Store) Leaves() repository.LeaveRepository       { return &leaveRepo{s} }
func (s *Store) Payrolls() repository.PayrollRepository   { return &payrollRepo{s} }
func (s *Store) Audit() repository.AuditRepository        { return &auditRepo{s} }

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ====== Users ======

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := normEmail(in.Email)
	for _, u := range r.s.users {
		if u.Email == email {
			return nil, repository.ErrConflict
		}
	}

	now := r.s.now()
	u := repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.users[u.ID] = u
	out := u
	return &out, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = normEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = active
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

// ====== Employees ======

type employeeRepo struct{ s *Store }

func (r *employeeRepo) Create(ctx context.Context, in repository.CreateEmployeeInput) (*repository.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := normEmail(in.Email)
	for _, e := range r.s.employees {
		if e.Email == email {
			return nil, repository.ErrConflict
		}
	}

	now := r.s.now()
	e := repository.Employee{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      email,
		Position:   in.Position,
		Department: in.Department,
		Salary:     in.Salary,
		HiredAt:    in.HiredAt,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.employees[e.ID] = e
	out := e
	return &out, nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*repository.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := e
	return &out, nil
}

func (r *employeeRepo) GetByUserID(ctx context.Context, userID string) (*repository.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.employees {
		if e.UserID != nil && *e.UserID == userID {
			out := e
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *employeeRepo) Update(ctx context.Context, id string, in repository.UpdateEmployeeInput) (*repository.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Email != nil {
		email := normEmail(*in.Email)
		for otherID, other := range r.s.employees {
			if otherID != id && other.Email == email {
				return nil, repository.ErrConflict
			}
		}
		e.Email = email
	}
	if in.FirstName != nil {
		e.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		e.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Position != nil {
		e.Position = *in.Position
	}
	if in.Department != nil {
		e.Department = *in.Department
	}
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.UserID != nil {
		uid := *in.UserID
		e.UserID = &uid
	}
	e.UpdatedAt = r.s.now()
	r.s.employees[id] = e
	out := e
	return &out, nil
}

func (r *employeeRepo) Deactivate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Active = false
	e.UpdatedAt = r.s.now()
	r.s.employees[id] = e
	return nil
}

func (r *employeeRepo) List(ctx context.Context, p repository.ListEmployeesParams) ([]repository.Employee, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(p.Search))
	matched := []repository.Employee{}
	for _, e := range r.s.employees {
		if p.Department != "" && e.Department != p.Department {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.FirstName), search) &&
			!strings.Contains(strings.ToLower(e.LastName), search) &&
			!strings.Contains(e.Email, search) {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LastName != matched[j].LastName {
			return matched[i].LastName < matched[j].LastName
		}
		if matched[i].FirstName != matched[j].FirstName {
			return matched[i].FirstName < matched[j].FirstName
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []repository.Employee{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]repository.Employee, end-offset)
	copy(page, matched[offset:end])
	return page, total, nil
}

func (r *employeeRepo) CountActive(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, e := range r.s.employees {
		if e.Active {
			n++
		}
	}
	return n, nil
}

// ====== Leaves ======

type leaveRepo struct{ s *Store }

func (r *leaveRepo) Create(ctx context.Context, in repository.CreateLeaveInput) (*repository.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	l := repository.LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: in.EmployeeID,
		Kind:       in.Kind,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Status:     repository.LeavePending,
		Reason:     in.Reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.leaves[l.ID] = l
	out := l
	return &out, nil
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*repository.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leaves[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := l
	return &out, nil
}

func (r *leaveRepo) SetStatus(ctx context.Context, id, status, decidedBy string, decidedAt time.Time) (*repository.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.leaves[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	l.Status = status
	l.DecidedBy = &decidedBy
	l.DecidedAt = &decidedAt
	l.UpdatedAt = r.s.now()
	r.s.leaves[id] = l
	out := l
	return &out, nil
}

func (r *leaveRepo) ListByEmployee(ctx context.Context, employeeID string) ([]repository.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []repository.LeaveRequest{}
	for _, l := range r.s.leaves {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	sortLeavesByCreatedDesc(out)
	return out, nil
}

func (r *leaveRepo) ListByStatus(ctx context.Context, status string, limit int) ([]repository.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := []repository.LeaveRequest{}
	for _, l := range r.s.leaves {
		if status == "" || l.Status == status {
			out = append(out, l)
		}
	}
	sortLeavesByCreatedDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *leaveRepo) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]repository.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	out := []repository.LeaveRequest{}
	for _, l := range r.s.leaves {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *leaveRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, l := range r.s.leaves {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

func sortLeavesByCreatedDesc(ls []repository.LeaveRequest) {
	sort.Slice(ls, func(i, j int) bool {
		if !ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
			return ls[i].CreatedAt.After(ls[j].CreatedAt)
		}
		return ls[i].ID < ls[j].ID
	})
}

// ====== Payrolls ======

type payrollRepo struct{ s *Store }

func (r *payrollRepo) Create(ctx context.Context, in repository.CreatePayrollInput) (*repository.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.payrolls {
		if p.EmployeeID == in.EmployeeID && p.Period == in.Period {
			return nil, repository.ErrConflict
		}
	}

	now := r.s.now()
	p := repository.Payroll{
		ID:         uuid.NewString(),
		EmployeeID: in.EmployeeID,
		Period:     in.Period,
		GrossPay:   in.GrossPay,
		Deductions: in.Deductions,
		NetPay:     in.NetPay,
		Status:     repository.PayrollDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.payrolls[p.ID] = p
	out := p
	return &out, nil
}

func (r *payrollRepo) GetByID(ctx context.Context, id string) (*repository.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payrolls[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := p
	return &out, nil
}

func (r *payrollRepo) SetStatus(ctx context.Context, id, status string, issuedAt *time.Time) (*repository.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payrolls[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Status = status
	if issuedAt != nil {
		t := *issuedAt
		p.IssuedAt = &t
	}
	p.UpdatedAt = r.s.now()
	r.s.payrolls[id] = p
	out := p
	return &out, nil
}

func (r *payrollRepo) ListByEmployee(ctx context.Context, employeeID string) ([]repository.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []repository.Payroll{}
	for _, p := range r.s.payrolls {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	// "YYYY-MM" ordena bien como string.
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out, nil
}

func (r *payrollRepo) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]repository.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	out := []repository.Payroll{}
	for _, p := range r.s.payrolls {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *payrollRepo) ListByPeriod(ctx context.Context, period string) ([]repository.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []repository.Payroll{}
	for _, p := range r.s.payrolls {
		if p.Period == period {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *payrollRepo) TotalNetByPeriod(ctx context.Context, period string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, p := range r.s.payrolls {
		if p.Period == period && p.Status != repository.PayrollDraft {
			total += p.NetPay
		}
	}
	return total, nil
}

// ====== Audit ======

type auditRepo struct{ s *Store }

func (r *auditRepo) Insert(ctx context.Context, in repository.InsertAuditInput) (*repository.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	detail := map[string]any{}
	if in.Detail != nil {
		detail = maps.Clone(in.Detail)
	}
	a := repository.AuditLog{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Action:    in.Action,
		Entity:    in.Entity,
		EntityID:  in.EntityID,
		Detail:    detail,
		CreatedAt: r.s.now(),
	}
	r.s.audit = append(r.s.audit, a)
	out := a
	return &out, nil
}

// El slice conserva orden de inserción; recorrer de atrás hacia
// adelante da "más reciente primero" sin depender del reloj.
func (r *auditRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]repository.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	out := []repository.AuditLog{}
	for i := len(r.s.audit) - 1; i >= 0 && len(out) < limit; i-- {
		a := r.s.audit[i]
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]repository.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := []repository.AuditLog{}
	for i := len(r.s.audit) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.s.audit[i])
	}
	return out, nil
}
