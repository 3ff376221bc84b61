package serverutils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notebooklm-be/pkg/notebooklm"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"app error", NewNotFoundError("Query not found"), http.StatusNotFound},
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "bad"), http.StatusBadRequest},
		{"validation", &ValidationError{Fields: map[string]string{"Question": "required"}}, http.StatusBadRequest},
		{"engine unavailable", notebooklm.ErrEngineUnavailable, http.StatusServiceUnavailable},
		{"refresh failed", &notebooklm.RefreshFailedError{Cause: errors.New("session"), RefreshErr: errors.New("ssh")}, http.StatusServiceUnavailable},
		{"exhausted", &notebooklm.ExhaustedRetriesError{Attempts: 2, Last: errors.New("session")}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := StatusFor(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}
}

type askRequest struct {
	Question string `validate:"required,min=1,max=5000"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(askRequest{Question: "why?"}))

	err := ValidateRequest(askRequest{})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "required", validationErr.Fields["Question"])
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewJwtMiddleware("secret"))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
