package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeMalformedResponse, http.StatusBadGateway},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	src := stderrs.New("root")
	wrapped := Wrapf(src, ErrorCodeTooManyRequests, "provider %s", "429")
	if want := "provider 429: root"; wrapped.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", wrapped.Error(), want)
	}
	if stderrs.Unwrap(wrapped) != src {
		t.Fatalf("Wrap did not keep orig")
	}
	if got, ok := As(wrapped); !ok || got.Code() != ErrorCodeTooManyRequests {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	withField := WithField(wrapped, "id")
	withOp := WithOp(withField, "playcount.fetch")
	if fe, _ := As(withField); fe.Field() != "id" {
		t.Fatalf("WithField failed")
	}
	if oe, _ := As(withOp); oe.Op() != "playcount.fetch" {
		t.Fatalf("WithOp failed")
	}
	if orig, _ := As(wrapped); orig.Field() != "" || orig.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}

	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}
	if wf := WireFrom(wrapped); wf.Message != "provider 429" {
		t.Fatalf("WireFrom(ours) should drop the cause: %+v", wf)
	}
	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) status = %d", st)
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got != src {
		t.Fatalf("Root() failed, got %v", got)
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound code mismatch")
	}
}

func TestSugarCodes(t *testing.T) {
	cases := map[ErrorCode]error{
		ErrorCodeNotFound:          NotFoundf("x"),
		ErrorCodeInvalidArgument:   InvalidArgf("x"),
		ErrorCodeJSON:              JSONErrf("x"),
		ErrorCodePanic:             PanicErrf("x"),
		ErrorCodeUnauthorized:      Unauthorizedf("x"),
		ErrorCodeUnavailable:       Unavailablef("x"),
		ErrorCodeTooManyRequests:   RateLimitedf("x"),
		ErrorCodeMalformedResponse: Malformedf("x"),
		ErrorCodeDB:                DBf("x"),
	}
	for want, err := range cases {
		if !IsCode(err, want) {
			t.Fatalf("sugar for %s produced %s", want, CodeOf(err))
		}
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", RateLimitedf("429"), true},
		{"credential rejected", Unauthorizedf("401"), true},
		{"unavailable", Unavailablef("503"), true},
		{"no data", NotFoundf("null playCount"), false},
		{"malformed", Malformedf("bad json"), false},
		{"canceled", Wrap(context.Canceled, ErrorCodeUnavailable, "aborted"), false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
	}
	for _, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("%s: Retryable = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrorCodeTooManyRequests.String() != "rate_limited" {
		t.Fatalf("unexpected label %q", ErrorCodeTooManyRequests.String())
	}
	if ErrorCode(9999).String() != "unknown" {
		t.Fatalf("unknown codes should render as unknown")
	}
}
