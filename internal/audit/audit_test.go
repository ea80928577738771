package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/store/memory"
)

func TestRecordPersists(t *testing.T) {
	s := memory.New()
	rec := NewRecorder(s.Audit())
	ctx := context.Background()

	uid := "user-1"
	rec.Record(ctx, &uid, "employee.create", "employee", "emp-1", map[string]any{"email": "x@y.z"})

	got, err := s.Audit().ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("eventos = %d, esperaba 1", len(got))
	}
	if got[0].Action != "employee.create" || got[0].Entity != "employee" || got[0].EntityID != "emp-1" {
		t.Fatalf("evento mal persistido: %+v", got[0])
	}
	if got[0].UserID == nil || *got[0].UserID != "user-1" {
		t.Fatalf("userID mal persistido: %v", got[0].UserID)
	}
}

type failingAuditRepo struct{}

func (failingAuditRepo) Insert(context.Context, repository.InsertAuditInput) (*repository.AuditLog, error) {
	return nil, errors.New("db caída")
}
func (failingAuditRepo) ListRecentByUser(context.Context, string, int) ([]repository.AuditLog, error) {
	return nil, nil
}
func (failingAuditRepo) ListRecent(context.Context, int) ([]repository.AuditLog, error) {
	return nil, nil
}

func TestRecordIsBestEffort(t *testing.T) {
	rec := NewRecorder(failingAuditRepo{})
	// No debe entrar en pánico ni propagar el error.
	rec.Record(context.Background(), nil, "x", "y", "z", nil)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), nil, "x", "y", "z", nil)
}
