package leaves

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/staffdesk/internal/audit"
	"github.com/dropDatabas3/staffdesk/internal/cache"
	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/email"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/store/memory"
)

type capturingSender struct {
	mu   sync.Mutex
	sent []email.Message
	fail bool
}

func (c *capturingSender) Send(ctx context.Context, msg email.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("smtp caído")
	}
	c.sent = append(c.sent, msg)
	return nil
}

type fixture struct {
	store  *memory.Store
	sender *capturingSender
	svc    Service
	empID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	c := cache.New(0)
	t.Cleanup(c.Stop)
	sender := &capturingSender{}

	uid := "u-1"
	emp, err := st.Employees().Create(context.Background(), repository.CreateEmployeeInput{
		UserID:    &uid,
		FirstName: "Laura",
		LastName:  "Gómez",
		Email:     "laura@example.com",
		HiredAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	svc := New(Deps{
		Leaves:    st.Leaves(),
		Employees: st.Employees(),
		Cache:     c,
		Audit:     audit.NewRecorder(st.Audit()),
		Email:     sender,
	})
	return &fixture{store: st, sender: sender, svc: svc, empID: emp.ID}
}

func vacationReq() dto.CreateLeaveRequest {
	return dto.CreateLeaveRequest{
		Kind:      repository.LeaveVacation,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-10",
		Reason:    "vacaciones",
	}
}

func TestCreateForOwnEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leave, err := f.svc.Create(ctx, "u-1", vacationReq())
	require.NoError(t, err)

	assert.Equal(t, f.empID, leave.EmployeeID)
	assert.Equal(t, repository.LeavePending, leave.Status)
	assert.Equal(t, "2026-09-01", leave.StartDate)

	rows, err := f.store.Audit().ListRecentByUser(ctx, "u-1", 5)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "leave.request", rows[0].Action)
}

func TestCreateWithoutEmployeeRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "u-sin-ficha", vacationReq())
	assert.ErrorIs(t, err, ErrNoEmployeeRecord)
}

func TestDecideApprovesAndEmails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leave, err := f.svc.Create(ctx, "u-1", vacationReq())
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, "hr-1", leave.ID, repository.LeaveApproved)
	require.NoError(t, err)
	assert.Equal(t, repository.LeaveApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, "hr-1", *decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "laura@example.com", f.sender.sent[0].To)
	assert.Contains(t, f.sender.sent[0].Subject, "aprobada")
}

func TestDecideTwiceIsIllegal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leave, err := f.svc.Create(ctx, "u-1", vacationReq())
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, "hr-1", leave.ID, repository.LeaveApproved)
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, "hr-1", leave.ID, repository.LeaveRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition,
		"una solicitud decidida no puede volver a decidirse")
}

func TestDecideUnknownLeave(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Decide(context.Background(), "hr-1", "leave-fantasma", repository.LeaveApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideSurvivesBrokenSMTP(t *testing.T) {
	f := newFixture(t)
	f.sender.fail = true
	ctx := context.Background()

	leave, err := f.svc.Create(ctx, "u-1", vacationReq())
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, "hr-1", leave.ID, repository.LeaveRejected)
	require.NoError(t, err, "el correo es best-effort, no voltea la decisión")
	assert.Equal(t, repository.LeaveRejected, decided.Status)
}

func TestListOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "u-1", vacationReq())
	require.NoError(t, err)

	second := vacationReq()
	second.Kind = repository.LeaveSick
	second.StartDate = "2026-10-01"
	second.EndDate = "2026-10-02"
	_, err = f.svc.Create(ctx, "u-1", second)
	require.NoError(t, err)

	resp, err := f.svc.ListOwn(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)

	// Usuario sin ficha: lista vacía sin error.
	empty, err := f.svc.ListOwn(ctx, "u-fantasma")
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestListAllFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, "u-1", vacationReq())
	require.NoError(t, err)

	second := vacationReq()
	second.StartDate = "2026-11-01"
	second.EndDate = "2026-11-03"
	_, err = f.svc.Create(ctx, "u-1", second)
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, "hr-1", first.ID, repository.LeaveApproved)
	require.NoError(t, err)

	pending, err := f.svc.ListAll(ctx, repository.LeavePending, "", 0)
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)

	approvedOfEmp, err := f.svc.ListAll(ctx, repository.LeaveApproved, f.empID, 0)
	require.NoError(t, err)
	require.Len(t, approvedOfEmp.Items, 1)
	assert.Equal(t, first.ID, approvedOfEmp.Items[0].ID)

	all, err := f.svc.ListAll(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}
