package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/clinic/internal/core/domain"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newServer(t *testing.T, status int, reply string, calls *[]recorded) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*calls = append(*calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", time.Second, zerolog.Nop())
}

func TestPatientsList(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `[{"_id":"a1","id":"P001","name":"Rajesh Kumar","progress":80}]`, &calls)

	got, err := c.Patients().List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a1", got[0].ID)
	require.Equal(t, "P001", got[0].PatientID)
	require.Equal(t, 80, got[0].ProgressPercent())

	require.Equal(t, http.MethodGet, calls[0].method)
	require.Equal(t, "/api/patients", calls[0].path)
}

func TestListNullBodyIsEmpty(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `null`, &calls)

	got, err := c.Therapies().List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCreateSendsFields(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusCreated, `{"_id":"t1","name":"Abhyanga","duration":7}`, &calls)

	got, err := c.Therapies().Create(context.Background(), map[string]any{"name": "Abhyanga", "duration": 7})
	require.NoError(t, err)
	require.Equal(t, "t1", got.ID)

	require.Equal(t, http.MethodPost, calls[0].method)
	require.Equal(t, "/api/therapies", calls[0].path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].body), &sent))
	require.Equal(t, "Abhyanga", sent["name"])
}

func TestUpdateAndGetUseIDPath(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `{"_id":"n1","message":"hi"}`, &calls)

	_, err := c.Notifications().Update(context.Background(), "n1", map[string]any{"message": "hi"})
	require.NoError(t, err)
	_, err = c.Notifications().Get(context.Background(), "n1")
	require.NoError(t, err)

	require.Equal(t, http.MethodPut, calls[0].method)
	require.Equal(t, "/api/notifications/n1", calls[0].path)
	require.Equal(t, http.MethodGet, calls[1].method)
}

func TestDeleteReturnsResultBody(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `{"success":false,"error":"in use"}`, &calls)

	res, err := c.Patients().Delete(context.Background(), "a1")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, "in use", res.Error)
	require.Equal(t, http.MethodDelete, calls[0].method)
}

func TestNon2xxIsTransportError(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusInternalServerError, `{"error":"boom"}`, &calls)

	_, err := c.Patients().List(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrTransport))
	require.True(t, IsTransport(err))
	require.Equal(t, "API error: Internal Server Error", err.Error())

	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, http.StatusInternalServerError, te.Status)
	require.Len(t, calls, 1, "requests are never retried")
}

func TestUnreachableIsTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1/api", 200*time.Millisecond, zerolog.Nop())

	_, err := c.SendEmail(context.Background(), domain.Email{To: "a@b.c"})
	require.ErrorIs(t, err, domain.ErrTransport)
}

func TestSendEmail(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `{"success":true}`, &calls)

	res, err := c.SendEmail(context.Background(), domain.Email{To: "a@b.c", Subject: "AyurSutra Notification", Message: "m"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "/api/send-email", calls[0].path)
}

func TestCreateRejectedWrapper(t *testing.T) {
	var calls []recorded
	c := newServer(t, http.StatusOK, `{"success":false,"error":"duplicate clinic number"}`, &calls)

	_, err := c.Patients().Create(context.Background(), map[string]any{"name": "X"})
	require.ErrorIs(t, err, domain.ErrRejected)
	require.ErrorContains(t, err, "duplicate clinic number")
	require.False(t, IsTransport(err))
}
