package net

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Fatalf("RequestID = %q", got)
	}
	if RequestID(context.Background()) != "" {
		t.Fatalf("empty ctx should have no id")
	}
	base := context.Background()
	if WithRequestID(base, "") != base {
		t.Fatalf("empty id should not wrap ctx")
	}
}
