package employees

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/staffdesk/internal/audit"
	"github.com/dropDatabas3/staffdesk/internal/cache"
	"github.com/dropDatabas3/staffdesk/internal/email"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/store/memory"
)

// capturingSender registra los correos en vez de mandarlos.
type capturingSender struct {
	mu   sync.Mutex
	sent []email.Message
}

func (c *capturingSender) Send(ctx context.Context, msg email.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func newFixture(t *testing.T) (Service, *memory.Store, *capturingSender) {
	t.Helper()
	st := memory.New()
	c := cache.New(0)
	t.Cleanup(c.Stop)
	sender := &capturingSender{}

	svc := New(Deps{
		Employees: st.Employees(),
		Cache:     c,
		Audit:     audit.NewRecorder(st.Audit()),
		Email:     sender,
		BaseURL:   "https://staffdesk.example.com",
	})
	return svc, st, sender
}

func createReq(email string) dto.CreateEmployeeRequest {
	return dto.CreateEmployeeRequest{
		FirstName:  "Ana",
		LastName:   "García",
		Email:      email,
		Position:   "Analista",
		Department: "IT",
		Salary:     250000,
		HiredAt:    "2024-03-01",
	}
}

func TestCreateSendsWelcomeAndAudits(t *testing.T) {
	svc, st, sender := newFixture(t)
	ctx := context.Background()

	emp, err := svc.Create(ctx, "admin-1", createReq("ana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", emp.Email)
	assert.True(t, emp.Active)
	assert.Equal(t, "2024-03-01", emp.HiredAt)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Text, "Ana García")

	rows, err := st.Audit().ListRecent(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "employee.create", rows[0].Action)
	assert.Equal(t, emp.ID, rows[0].EntityID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin-1", createReq("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "admin-1", createReq("dup@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestListUsesCacheUntilWrite(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin-1", createReq("uno@example.com"))
	require.NoError(t, err)

	first, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)
	assert.Equal(t, defaultLimit, first.Limit)

	// El alta invalida el prefijo del listado: la siguiente lectura ya
	// ve al segundo empleado.
	_, err = svc.Create(ctx, "admin-1", createReq("dos@example.com"))
	require.NoError(t, err)

	second, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Total)
}

func TestListClampsLimit(t *testing.T) {
	svc, _, _ := newFixture(t)

	resp, err := svc.List(context.Background(), ListParams{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, maxLimit, resp.Limit)
}

func TestListFiltersByDepartment(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	reqIT := createReq("it@example.com")
	_, err := svc.Create(ctx, "admin-1", reqIT)
	require.NoError(t, err)

	reqVentas := createReq("ventas@example.com")
	reqVentas.Department = "Ventas"
	reqVentas.LastName = "Zapata"
	_, err = svc.Create(ctx, "admin-1", reqVentas)
	require.NoError(t, err)

	resp, err := svc.List(ctx, ListParams{Department: "Ventas"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Zapata", resp.Items[0].LastName)
}

func TestGetUpdateDeactivate(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin-1", createReq("ciclo@example.com"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	nuevaPos := "Líder técnico"
	updated, err := svc.Update(ctx, "admin-1", created.ID, dto.UpdateEmployeeRequest{Position: &nuevaPos})
	require.NoError(t, err)
	assert.Equal(t, "Líder técnico", updated.Position)
	assert.Equal(t, "ciclo@example.com", updated.Email, "los campos nil no cambian")

	require.NoError(t, svc.Deactivate(ctx, "admin-1", created.ID))

	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, after.Active)

	_, err = svc.Get(ctx, "emp-fantasma")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Deactivate(ctx, "admin-1", "emp-fantasma")
	assert.ErrorIs(t, err, ErrNotFound)
}
