package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	testCases := []struct {
		err      *Error
		expected int
	}{
		{NewValidation("bad"), http.StatusBadRequest},
		{NewNotFound("missing"), http.StatusNotFound},
		{NewConflict("dupe"), http.StatusConflict},
		{NewTransport("down", nil), http.StatusInternalServerError},
		{&Error{Kind: Unexpected, Message: "boom"}, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		if got := tc.err.StatusCode(); got != tc.expected {
			t.Errorf("%q: status = %d, want %d", tc.err.Message, got, tc.expected)
		}
	}
}

func TestFromStatusCode(t *testing.T) {
	testCases := []struct {
		status   int
		expected Kind
	}{
		{http.StatusBadRequest, Validation},
		{http.StatusNotFound, NotFound},
		{http.StatusConflict, Conflict},
		{http.StatusInternalServerError, Unexpected},
		{http.StatusBadGateway, Unexpected},
	}
	for _, tc := range testCases {
		err := FromStatusCode(tc.status, "msg")
		if err.Kind != tc.expected {
			t.Errorf("status %d: kind = %v, want %v", tc.status, err.Kind, tc.expected)
		}
		if err.Error() != "msg" {
			t.Errorf("status %d: message lost: %q", tc.status, err.Error())
		}
	}
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while creating topic: %w", NewConflict("dupe"))
	if !IsBusiness(wrapped) {
		t.Error("wrapped conflict should still be a business error")
	}
	if KindOf(wrapped) != Conflict {
		t.Errorf("KindOf = %v, want Conflict", KindOf(wrapped))
	}

	transport := fmt.Errorf("call failed: %w", NewTransport("down", nil))
	if !IsTransport(transport) {
		t.Error("wrapped transport error not recognized")
	}
	if IsBusiness(transport) {
		t.Error("transport error must not be a business error")
	}

	if IsBusiness(fmt.Errorf("plain")) {
		t.Error("plain error must not be a business error")
	}
}
