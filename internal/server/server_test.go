package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-directory-be/internal/bootstrap"
	"user-directory-be/internal/config"
	"user-directory-be/internal/dto"
	"user-directory-be/internal/entity"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			CorsAllowedOrigins: "*",
			IDStrategy:         "sequence",
		},
		Directory:    config.DirectoryConfig{Enabled: false, Timeout: time.Second, DefaultDepartment: "Default Department"},
		Session:      config.SessionConfig{TTL: time.Hour},
		Notification: config.NotificationConfig{TTL: time.Minute},
		Events:       config.EventsConfig{Topic: "user.events"},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	container, err := bootstrap.NewContainer(testConfig(), logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return New(testConfig(), container).GetApp()
}

func do(t *testing.T, app *fiber.App, method, target string, body interface{}, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeData[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var res serverutils.BaseResponse[T]
	require.NoError(t, json.Unmarshal(raw, &res))
	return res.Data
}

var ann = dto.CreateUserRequest{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Eng"}

func TestUsers_AddAndList(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, "POST", "/api/users", ann)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	created := decodeData[dto.UserResponse](t, body)
	assert.NotEmpty(t, created.Id)

	resp, body = do(t, app, "GET", "/api/users", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeData[[]dto.UserResponse](t, body)
	assert.Equal(t, []dto.UserResponse{created}, list)
}

func TestUsers_ErrorMapping(t *testing.T) {
	app := newTestApp(t)
	withID := ann
	withID.Id = "42"
	resp, _ := do(t, app, "POST", "/api/users", withID)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	tests := []struct {
		name   string
		method string
		target string
		body   interface{}
		want   int
	}{
		{name: "empty first name", method: "POST", target: "/api/users", body: dto.CreateUserRequest{LastName: "Lee", Email: "a@x.com", Department: "Eng"}, want: 400},
		{name: "duplicate id", method: "POST", target: "/api/users", body: withID, want: 409},
		{name: "update unknown", method: "PUT", target: "/api/users/99", body: map[string]string{"department": "Sales"}, want: 404},
		{name: "delete unknown", method: "DELETE", target: "/api/users/99", want: 404},
		{name: "get unknown", method: "GET", target: "/api/users/99", want: 404},
		{name: "bad body", method: "POST", target: "/api/users", body: "not an object", want: 400},
		{name: "first name too long", method: "POST", target: "/api/users", body: dto.CreateUserRequest{FirstName: strings.Repeat("a", 101), LastName: "Lee", Email: "a@x.com", Department: "Eng"}, want: 400},
		{name: "update department too long", method: "PUT", target: "/api/users/42", body: map[string]string{"department": strings.Repeat("d", 101)}, want: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
		})
	}

	_, body := do(t, app, "GET", "/api/users", nil)
	assert.Len(t, decodeData[[]dto.UserResponse](t, body), 1)
}

func TestUsers_UpdateKeepsID(t *testing.T) {
	app := newTestApp(t)
	withID := ann
	withID.Id = "7"
	do(t, app, "POST", "/api/users", withID)

	resp, body := do(t, app, "PUT", "/api/users/7", map[string]string{"id": "8", "department": "Sales"})

	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	updated := decodeData[dto.UserResponse](t, body)
	assert.Equal(t, dto.UserResponse{Id: "7", FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales"}, updated)
}

func TestForms_SubmitNotifiesSession(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, "POST", "/api/forms", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	sid := decodeData[dto.FormResponse](t, body).Session.Id

	fields := map[string]string{"firstName": "Ann", "lastName": "Lee", "email": "a@x.com", "department": "Eng"}
	for field, value := range fields {
		resp, body = do(t, app, "PATCH", "/api/forms/"+sid+"/fields", dto.FieldChangeRequest{Field: field, Value: value})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	}

	resp, body = do(t, app, "POST", "/api/forms/"+sid+"/submit", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	submitted := decodeData[dto.FormResponse](t, body)
	require.NotNil(t, submitted.User)
	assert.Equal(t, "Ann", submitted.User.FirstName)

	_, body = do(t, app, "GET", "/api/notifications?session="+sid, nil)
	notes := decodeData[[]entity.Notification](t, body)
	require.Len(t, notes, 1)
	assert.Equal(t, "User added successfully!", notes[0].Message)
	assert.Equal(t, sid, notes[0].SessionId)
}

func TestForms_EditUnknownAndBadField(t *testing.T) {
	app := newTestApp(t)
	_, body := do(t, app, "POST", "/api/forms", nil)
	sid := decodeData[dto.FormResponse](t, body).Session.Id

	resp, _ := do(t, app, "POST", "/api/forms/"+sid+"/edit/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, "PATCH", "/api/forms/"+sid+"/fields", dto.FieldChangeRequest{Field: "phone", Value: "1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/forms/unknown-session", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/api/forms/"+sid, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteToastIsBroadcastWithoutSession(t *testing.T) {
	app := newTestApp(t)
	withID := ann
	withID.Id = "5"
	do(t, app, "POST", "/api/users", withID, serverutils.SessionHeader, "operator-1")

	resp, _ := do(t, app, "DELETE", "/api/users/5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := do(t, app, "GET", "/api/notifications", nil)
	notes := decodeData[[]entity.Notification](t, body)
	require.Len(t, notes, 1)
	assert.Equal(t, "User deleted successfully!", notes[0].Message)
}

func TestOperationalEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	do(t, app, "POST", "/api/users", ann)
	resp, body := do(t, app, "GET", "/metrics", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `user_directory_store_operations_total{op="add",outcome="ok"} 1`)

	resp, body = do(t, app, "GET", "/api/directory/status", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "disabled", decodeData[dto.DirectoryStatusResponse](t, body).State)

	resp, _ = do(t, app, "GET", "/api/notifications/ws", nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
