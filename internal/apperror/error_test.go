package apperror_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/musks-suburbs/zk-fee-profiler/internal/apperror"
)

func TestNew(t *testing.T) {
	err := apperror.New(apperror.CodeBlockFetchFailed,
		apperror.WithContext("height 42"))

	if err.Code != apperror.CodeBlockFetchFailed {
		t.Errorf("Code = %v, want %v", err.Code, apperror.CodeBlockFetchFailed)
	}
	if err.Context != "height 42" {
		t.Errorf("Context = %q, want %q", err.Context, "height 42")
	}
	if err.Message == "" {
		t.Error("Message is empty, want the registered message")
	}
	if err.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
	if !strings.Contains(err.Error(), "BLOCK_FETCH_FAILED") {
		t.Errorf("Error() = %q, want it to contain the code", err.Error())
	}
}

func TestNew_UnregisteredCodeFallsBackToCode(t *testing.T) {
	err := apperror.New(apperror.Code("SOMETHING_ELSE"))
	if err.Message != "SOMETHING_ELSE" {
		t.Errorf("Message = %q, want the code itself", err.Message)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := apperror.Wrap(cause, apperror.CodeChainConnectionFailed, "probing endpoint")

	if err.Code != apperror.CodeChainConnectionFailed {
		t.Errorf("Code = %v, want %v", err.Code, apperror.CodeChainConnectionFailed)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error does not unwrap to its cause")
	}
}

func TestWrap_Nil(t *testing.T) {
	if err := apperror.Wrap(nil, apperror.CodeInternalError, "ctx"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrap_PreservesExistingAppError(t *testing.T) {
	inner := apperror.New(apperror.CodeBlockNotFound, apperror.WithContext("height 7"))
	outer := apperror.Wrap(inner, apperror.CodeBlockFetchFailed, "sampling")

	// The original code and context win; wrapping must not re-code the error.
	if outer.Code != apperror.CodeBlockNotFound {
		t.Errorf("Code = %v, want %v", outer.Code, apperror.CodeBlockNotFound)
	}
	if outer.Context != "height 7" {
		t.Errorf("Context = %q, want %q", outer.Context, "height 7")
	}
}

func TestWrap_DoesNotMutateSharedError(t *testing.T) {
	shared := apperror.New(apperror.CodeBlockFetchFailed)
	wrapped := apperror.Wrap(shared, apperror.CodeInternalError, "sampling at height 9")

	if shared.Context != "" {
		t.Errorf("shared error context mutated to %q", shared.Context)
	}
	if wrapped.Context != "sampling at height 9" {
		t.Errorf("wrapped context = %q, want %q", wrapped.Context, "sampling at height 9")
	}
	if wrapped.Code != apperror.CodeBlockFetchFailed {
		t.Errorf("wrapped code = %v, want %v", wrapped.Code, apperror.CodeBlockFetchFailed)
	}
}

func TestWrap_ThroughFmtErrorf(t *testing.T) {
	inner := apperror.New(apperror.CodeCircuitOpen)
	wrapped := fmt.Errorf("fetch block: %w", inner)

	if got := apperror.GetCode(wrapped); got != apperror.CodeCircuitOpen {
		t.Errorf("GetCode = %v, want %v", got, apperror.CodeCircuitOpen)
	}
	if !apperror.IsAppError(wrapped) {
		t.Error("IsAppError = false for a wrapped AppError")
	}
}

func TestIs_MatchesOnCode(t *testing.T) {
	a := apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext("a"))
	b := apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext("b"))
	c := apperror.New(apperror.CodeCircuitOpen)

	if !errors.Is(a, b) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
}

func TestGetCode_PlainError(t *testing.T) {
	if got := apperror.GetCode(errors.New("boom")); got != apperror.CodeUnknownError {
		t.Errorf("GetCode = %v, want %v", got, apperror.CodeUnknownError)
	}
}

func TestToLog(t *testing.T) {
	cause := errors.New("socket closed")
	err := apperror.External(apperror.CodeChainRPCError, "eth_blockNumber", cause)

	log := err.ToLog()
	if log["code"] != apperror.CodeChainRPCError {
		t.Errorf("log code = %v, want %v", log["code"], apperror.CodeChainRPCError)
	}
	if log["context"] != "eth_blockNumber" {
		t.Errorf("log context = %v, want eth_blockNumber", log["context"])
	}
	if log["cause"] != "socket closed" {
		t.Errorf("log cause = %v, want socket closed", log["cause"])
	}
	if _, ok := log["stack"]; !ok {
		t.Error("log missing stack")
	}
}
