package auditlog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/store/memory"
)

func seedEvents(t *testing.T, st *memory.Store, n int) {
	t.Helper()
	uid := "admin-1"
	for i := 0; i < n; i++ {
		_, err := st.Audit().Insert(context.Background(), repository.InsertAuditInput{
			UserID:   &uid,
			Action:   "employee.update",
			Entity:   "employee",
			EntityID: fmt.Sprintf("emp-%d", i),
		})
		require.NoError(t, err)
		// Separa los timestamps para que el orden sea observable.
		time.Sleep(time.Millisecond)
	}
}

func TestListRecentNewestFirst(t *testing.T) {
	st := memory.New()
	seedEvents(t, st, 3)
	svc := New(Deps{Audit: st.Audit()})

	out, err := svc.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "emp-2", out.Items[0].EntityID)
	assert.Equal(t, "emp-0", out.Items[2].EntityID)
}

func TestListRecentClampsLimit(t *testing.T) {
	st := memory.New()
	seedEvents(t, st, 5)
	svc := New(Deps{Audit: st.Audit()})

	out, err := svc.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	// limit inválido cae al default.
	out, err = svc.ListRecent(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, out.Items, 5)
}

func TestListRecentEmpty(t *testing.T) {
	st := memory.New()
	svc := New(Deps{Audit: st.Audit()})

	out, err := svc.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
}
