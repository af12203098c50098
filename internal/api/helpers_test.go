package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetUsers(t *testing.T) {
	t.Helper()
	_, err := testStore.GetPool().Exec(context.Background(), `TRUNCATE users RESTART IDENTITY`)
	require.NoError(t, err)
}

func doRequest(t *testing.T, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	testRouter.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return doRequest(t, method, target, bytes.NewReader(raw), map[string]string{"Content-Type": "application/json"})
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func createUserAPI(t *testing.T, name, email, password string) UserResponse {
	t.Helper()
	rr := doJSON(t, http.MethodPost, "/users", map[string]string{
		"username": name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[UserResponse](t, rr)
}

func multipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
