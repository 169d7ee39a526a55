package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "ledger lookup failed")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %q", err.Code())
	}
}

func TestAsThroughChain(t *testing.T) {
	inner := New(CodePaymentRule, "transaction already settled")
	outer := fmt.Errorf("verify payment: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatalf("expected typed error in chain")
	}
	if typed.Code() != CodePaymentRule {
		t.Fatalf("unexpected code %q", typed.Code())
	}
	if !IsCode(outer, CodePaymentRule) {
		t.Fatalf("IsCode should match through the chain")
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must map to 500, got %d", meta.HTTPStatus)
	}
}

func TestNilErrorAccessors(t *testing.T) {
	var err *Error
	if err.Code() != CodeInternal {
		t.Fatalf("nil error should report internal code")
	}
	if err.Error() != "" || err.Message() != "" {
		t.Fatalf("nil error should render empty strings")
	}
}
