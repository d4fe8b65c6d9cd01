package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendSuccess(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"reply": "Hi there"})
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Send(context.Background(), "Hello")
	require.NoError(t, err)
	require.Equal(t, "Hi there", reply)
	require.Equal(t, "Hello", gotBody.Message)
}

func TestSendEmptyReplyDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Send(context.Background(), "Hello")
	require.NoError(t, err)
	require.Equal(t, NoReply, reply)
}

func TestSendServerErrorWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model unavailable"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Send(context.Background(), "Hello")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, "model unavailable", serverErr.Message)
}

func TestSendServerErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Send(context.Background(), "Hello")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, "Server error", serverErr.Message)
}

func TestSendErrorFieldOnSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Send(context.Background(), "Hello")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Equal(t, "quota exceeded", serverErr.Message)
}

func TestSendUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Send(context.Background(), "Hello")
	require.Error(t, err)

	var serverErr *ServerError
	require.False(t, errors.As(err, &serverErr), "parse failure is not a server error")
}

func TestSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).Send(context.Background(), "Hello")
	require.Error(t, err)

	var serverErr *ServerError
	require.False(t, errors.As(err, &serverErr))
}
