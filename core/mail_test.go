package core

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestEmailMessage_Render(t *testing.T) {
	gradeData := map[string]interface{}{
		"ParentName":  "Jean Martin",
		"StudentName": "Alice Martin",
		"Subject":     "Physique",
		"Score":       17.0,
		"MaxScore":    20.0,
		"Type":        "exam",
		"Comment":     "Excellent travail",
	}

	tests := []struct {
		name     string
		msg      EmailMessage
		wantErr  error
		wantText []string
		wantHTML bool
	}{
		{name: "plain body", msg: EmailMessage{BodyStr: "hello"}, wantText: []string{"hello"}},
		{name: "unknown template", msg: EmailMessage{TemplateName: "lol"}, wantErr: errUnknownTemplate},
		{
			name:     "grade added",
			msg:      EmailMessage{TemplateName: "grade_added", TemplateData: gradeData},
			wantText: []string{"Hello Jean Martin,", "Alice Martin received a new grade in Physique: 17/20 (exam).", "Comment: Excellent travail"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			msg.To = []mail.Address{{Address: "martin@email.com"}}

			err := msg.Render()
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Render() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			for _, want := range tt.wantText {
				if !strings.Contains(msg.TextContent, want) {
					t.Errorf("TextContent = %q, want it to contain %q", msg.TextContent, want)
				}
			}
			if (msg.HTMLContent != "") != tt.wantHTML {
				t.Errorf("HTMLContent = %q, wantHTML %v", msg.HTMLContent, tt.wantHTML)
			}
			if !msg.HasRecipients() || !msg.HasContent() {
				t.Error("rendered message should be sendable")
			}
		})
	}
}
