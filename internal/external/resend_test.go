package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nudge/internal/types"
)

func TestResendSendSuccess(t *testing.T) {
	var gotAuth string
	var gotBody resendSendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	client := NewResendClient(srv.Client(), types.SecretString("re_test_key"), WithResendBaseURL(srv.URL))

	id, err := client.Send(context.Background(), SendEmailInput{
		From:    "team@example.com",
		To:      []string{"user@example.com"},
		Subject: "Complete Your Course Registration - 30 Days Coding",
		HTML:    "<p>hi</p>",
		Tags: []Tag{
			{Name: "course_type", Value: "beginner"},
			{Name: "utm_source", Value: "direct"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "Bearer re_test_key", gotAuth)
	assert.Equal(t, "team@example.com", gotBody.From)
	assert.Equal(t, []string{"user@example.com"}, gotBody.To)
	require.Len(t, gotBody.Tags, 2)
	assert.Equal(t, "course_type", gotBody.Tags[0].Name)
}

func TestResendSendClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"Invalid to address"}`))
	}))
	defer srv.Close()

	client := NewResendClient(srv.Client(), types.SecretString("re_test_key"), WithResendBaseURL(srv.URL))

	_, err := client.Send(context.Background(), SendEmailInput{
		From: "team@example.com",
		To:   []string{"bad"},
	})

	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamEmailProvider, appErr.Code)
	assert.Contains(t, appErr.Err.Error(), "Invalid to address")
}

func TestResendSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewResendClient(srv.Client(), types.SecretString("re_test_key"), WithResendBaseURL(srv.URL))

	_, err := client.Send(context.Background(), SendEmailInput{From: "a@b.c", To: []string{"u@x.com"}})

	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamUnavailable, appErr.Code)
}

func TestResendSendRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewResendClient(srv.Client(), types.SecretString("re_test_key"), WithResendBaseURL(srv.URL))

	_, err := client.Send(context.Background(), SendEmailInput{From: "a@b.c", To: []string{"u@x.com"}})

	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamRateLimited, appErr.Code)
}

func TestResendSendNetworkFailure(t *testing.T) {
	client := NewResendClient(&http.Client{}, types.SecretString("re_test_key"),
		WithResendBaseURL("http://127.0.0.1:1"))

	_, err := client.Send(context.Background(), SendEmailInput{From: "a@b.c", To: []string{"u@x.com"}})

	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamUnavailable, appErr.Code)
}
