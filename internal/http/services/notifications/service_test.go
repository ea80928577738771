package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/store/memory"
)

func newFixture(t *testing.T) (*memory.Store, Service) {
	t.Helper()
	st := memory.New()
	svc := New(Deps{
		Employees: st.Employees(),
		Leaves:    st.Leaves(),
		Payrolls:  st.Payrolls(),
		Audit:     st.Audit(),
	})
	return st, svc
}

func seedEmployee(t *testing.T, st *memory.Store, userID string) *repository.Employee {
	t.Helper()
	emp, err := st.Employees().Create(context.Background(), repository.CreateEmployeeInput{
		UserID:     &userID,
		FirstName:  "Carla",
		LastName:   "Núñez",
		Email:      userID + "@example.com",
		Position:   "Analista",
		Department: "IT",
		Salary:     250000,
		HiredAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return emp
}

func TestListForUserWithoutEmployeeRecord(t *testing.T) {
	_, svc := newFixture(t)

	resp, err := svc.ListForUser(context.Background(), "u-sin-ficha")
	require.NoError(t, err, "la falta de ficha no es un error")

	assert.False(t, resp.EmployeeResolved)
	assert.NotNil(t, resp.Notifications, "la lista vacía debe serializar como [] y no null")
	assert.Empty(t, resp.Notifications)
}

func TestListForUserAggregatesAndSorts(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	emp := seedEmployee(t, st, "u-1")
	uid := "u-1"

	// Tres eventos con timestamps crecientes: audit, luego licencia,
	// luego liquidación. El resultado debe venir al revés.
	_, err := st.Audit().Insert(ctx, repository.InsertAuditInput{
		UserID: &uid, Action: "user.login", Entity: "user", EntityID: uid,
	})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	leave, err := st.Leaves().Create(ctx, repository.CreateLeaveInput{
		EmployeeID: emp.ID,
		Kind:       repository.LeaveVacation,
		StartDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Reason:     "vacaciones de verano",
	})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	payroll, err := st.Payrolls().Create(ctx, repository.CreatePayrollInput{
		EmployeeID: emp.ID,
		Period:     "2026-01",
		GrossPay:   300000,
		Deductions: 60000,
		NetPay:     240000,
	})
	require.NoError(t, err)

	resp, err := svc.ListForUser(ctx, uid)
	require.NoError(t, err)
	require.True(t, resp.EmployeeResolved)
	require.Len(t, resp.Notifications, 3)

	// Orden: más nuevo primero.
	assert.Equal(t, dto.NotificationPayroll, resp.Notifications[0].Type)
	assert.Equal(t, dto.NotificationLeave, resp.Notifications[1].Type)
	assert.Equal(t, dto.NotificationAudit, resp.Notifications[2].Type)
	for i := 1; i < len(resp.Notifications); i++ {
		assert.False(t, resp.Notifications[i-1].CreatedAt.Before(resp.Notifications[i].CreatedAt),
			"las notificaciones deben venir en orden descendente")
	}

	// Contenido de cada tipo.
	pn := resp.Notifications[0]
	assert.Equal(t, "Liquidación 2026-01 disponible", pn.Message)
	assert.Equal(t, payroll.ID, pn.Metadata["payrollId"])
	assert.Equal(t, "2026-01", pn.Metadata["period"])
	assert.Equal(t, int64(240000), pn.Metadata["netPay"])

	ln := resp.Notifications[1]
	assert.Equal(t, "Solicitud de licencia pendiente (2026-02-01 al 2026-02-10)", ln.Message)
	assert.Equal(t, leave.ID, ln.Metadata["leaveId"])
	assert.Equal(t, repository.LeavePending, ln.Metadata["status"])
	assert.Equal(t, "2026-02-01", ln.Metadata["from"])
	assert.Equal(t, "2026-02-10", ln.Metadata["to"])

	an := resp.Notifications[2]
	assert.Equal(t, "user.login en user", an.Message)
	assert.Equal(t, "user", an.Metadata["entity"])
	assert.Equal(t, uid, an.Metadata["entityId"])
}

func TestListForUserHonorsPerSourceLimits(t *testing.T) {
	st, svc := newFixture(t)
	ctx := context.Background()
	emp := seedEmployee(t, st, "u-2")
	uid := "u-2"

	for i := 0; i < 12; i++ {
		_, err := st.Audit().Insert(ctx, repository.InsertAuditInput{
			UserID: &uid, Action: "employee.update", Entity: "employee", EntityID: emp.ID,
		})
		require.NoError(t, err)
	}
	for i := 0; i < 12; i++ {
		start := time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC)
		_, err := st.Leaves().Create(ctx, repository.CreateLeaveInput{
			EmployeeID: emp.ID,
			Kind:       repository.LeaveSick,
			StartDate:  start,
			EndDate:    start,
		})
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := st.Payrolls().Create(ctx, repository.CreatePayrollInput{
			EmployeeID: emp.ID,
			Period:     fmt.Sprintf("2026-%02d", i+1),
			GrossPay:   100,
			NetPay:     100,
		})
		require.NoError(t, err)
	}

	resp, err := svc.ListForUser(ctx, uid)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, n := range resp.Notifications {
		counts[n.Type]++
	}
	assert.Equal(t, 10, counts[dto.NotificationAudit])
	assert.Equal(t, 10, counts[dto.NotificationLeave])
	assert.Equal(t, 5, counts[dto.NotificationPayroll])
	assert.Len(t, resp.Notifications, 25)
}

type failingAudit struct{}

func (failingAudit) Insert(ctx context.Context, in repository.InsertAuditInput) (*repository.AuditLog, error) {
	return nil, errors.New("db caída")
}

func (failingAudit) ListRecentByUser(ctx context.Context, userID string, limit int) ([]repository.AuditLog, error) {
	return nil, errors.New("db caída")
}

func (failingAudit) ListRecent(ctx context.Context, limit int) ([]repository.AuditLog, error) {
	return nil, errors.New("db caída")
}

func TestListForUserPropagatesFetchError(t *testing.T) {
	st := memory.New()
	seedEmployee(t, st, "u-3")

	svc := New(Deps{
		Employees: st.Employees(),
		Leaves:    st.Leaves(),
		Payrolls:  st.Payrolls(),
		Audit:     failingAudit{},
	})

	_, err := svc.ListForUser(context.Background(), "u-3")
	require.Error(t, err, "un fetch caído debe propagar el error")
	assert.Contains(t, err.Error(), "audit trail")
}
