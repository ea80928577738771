package email

import (
	"context"
	"strings"
	"testing"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

func TestRenderLeaveDecided(t *testing.T) {
	msg, err := RenderLeaveDecided("laura@example.com", LeaveDecidedVars{
		Name:      "Laura Gómez",
		Kind:      "VACATION",
		Status:    repository.LeaveApproved,
		StartDate: "2025-07-01",
		EndDate:   "2025-07-10",
		BaseURL:   "https://rrhh.example.com",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.To != "laura@example.com" {
		t.Fatalf("to = %q", msg.To)
	}
	if msg.Subject != "Tu solicitud de licencia fue aprobada" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	for _, want := range []string{"Laura Gómez", "2025-07-01", "2025-07-10", "aprobada", "https://rrhh.example.com/leaves"} {
		if !strings.Contains(msg.HTML, want) {
			t.Fatalf("html sin %q", want)
		}
		if !strings.Contains(msg.Text, want) {
			t.Fatalf("text sin %q", want)
		}
	}
}

func TestRenderLeaveRejectedSubject(t *testing.T) {
	msg, err := RenderLeaveDecided("x@example.com", LeaveDecidedVars{
		Name: "X", Kind: "SICK", Status: repository.LeaveRejected,
		StartDate: "2025-01-01", EndDate: "2025-01-02",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.Subject != "Tu solicitud de licencia fue rechazada" {
		t.Fatalf("subject = %q", msg.Subject)
	}
}

func TestRenderWelcomeWithoutBaseURL(t *testing.T) {
	msg, err := RenderWelcome("bruno@example.com", WelcomeVars{Name: "Bruno", Position: "Analista"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(msg.HTML, "href") {
		t.Fatal("sin BaseURL no debería haber link")
	}
	if !strings.Contains(msg.Text, "Analista") {
		t.Fatal("text sin la posición")
	}
}

func TestHTMLEscaping(t *testing.T) {
	msg, err := RenderWelcome("x@example.com", WelcomeVars{Name: "<script>alert(1)</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatal("el nombre no se escapó en HTML")
	}
}

func TestNoopNeverFails(t *testing.T) {
	var s Sender = Noop{}
	err := s.Send(context.Background(), Message{To: "a@b.c", Subject: "x", HTML: "<p>x</p>", Text: "x"})
	if err != nil {
		t.Fatalf("Noop.Send: %v", err)
	}
}
