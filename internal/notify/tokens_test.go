package notify_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/notify"
)

func TestBuildTokenFormat(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	tests := []struct {
		verb, domain string
		want         string
	}{
		{"approve", "order", "approve_order_" + id},
		{"reject", "order", "reject_order_" + id},
		{"approve", "payment", "approve_payment_" + id},
		{"reject", "payment", "reject_payment_" + id},
		{"ready", "kitchen", "ready_kitchen_" + id},
		{"delay", "bar", "delay_bar_" + id},
	}
	for _, tc := range tests {
		if got := notify.BuildToken(tc.verb, tc.domain, id); got != tc.want {
			t.Errorf("BuildToken(%s, %s): got %q, want %q", tc.verb, tc.domain, got, tc.want)
		}
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	token := notify.BuildToken("ready", "kitchen", id)

	verb, domain, parsedID, err := notify.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if verb != "ready" || domain != "kitchen" || parsedID != id {
		t.Errorf("got (%s, %s, %s), want (ready, kitchen, %s)", verb, domain, parsedID, id)
	}
}

func TestParseTokenRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separators", "approve"},
		{"one separator", "approve_order"},
		{"unknown verb", "explode_order_abc123"},
		{"unknown domain", "approve_table_abc123"},
		{"empty id", "approve_order_"},
		{"verb domain swapped", "order_approve_abc123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, err := notify.ParseToken(tc.token); err == nil {
				t.Errorf("ParseToken(%q): expected error", tc.token)
			}
		})
	}
}
