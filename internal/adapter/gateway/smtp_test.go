package gateway

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@loantrack.dev", "bob@example.com",
		"Payment reminder", "Hi Bob,\n\nYour installment is due.\n"))

	for _, want := range []string{
		"From: noreply@loantrack.dev\r\n",
		"To: bob@example.com\r\n",
		"Subject: Payment reminder\r\n",
		"Content-Type: text/plain",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}

	headerEnd := strings.Index(msg, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatalf("message has no header/body separator:\n%s", msg)
	}
	if !strings.Contains(msg[headerEnd:], "Your installment is due.") {
		t.Fatalf("body not after headers:\n%s", msg)
	}
}
