package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"user-directory-be/internal/entity"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/pkg/form"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: fmt.Errorf("%w: missing email", entity.ErrValidation), want: 400},
		{name: "duplicate", err: fmt.Errorf("%w: 42", entity.ErrDuplicateID), want: 409},
		{name: "not found", err: fmt.Errorf("%w: 7", entity.ErrNotFound), want: 404},
		{name: "session not found", err: form.ErrSessionNotFound, want: 404},
		{name: "unknown field", err: form.ErrUnknownField, want: 400},
		{name: "request validation", err: &ValidationError{}, want: 400},
		{name: "fiber error", err: fiber.ErrUnprocessableEntity, want: 422},
		{name: "anything else", err: errors.New("boom"), want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/missing", func(ctx *fiber.Ctx) error {
		return fmt.Errorf("%w: 9", entity.ErrNotFound)
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("secret detail")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "user not found")

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Message, "secret")

	resp, err = app.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Field string `json:"field" validate:"required"`
	}

	err := ValidateRequest(req{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []FieldError{{Field: "field", Rule: "required"}}, vErr.Fields)
	assert.NoError(t, ValidateRequest(req{Field: "x"}))
}

func TestFormSessionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(FormSessionMiddleware)
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(form.SessionIDFrom(ctx.UserContext()))
	})

	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "header", target: "/", header: "abc", want: "abc"},
		{name: "query", target: "/?session=q1", want: "q1"},
		{name: "none", target: "/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
