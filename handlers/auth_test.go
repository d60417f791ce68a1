// handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"wanderlust/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func postRegister(t *testing.T, app *fiber.App, req RegisterRequest) (int, AuthResponse) {
	t.Helper()

	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}

	httpReq := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(httpReq, -1)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var body AuthResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode response %q: %v", raw, err)
	}
	return resp.StatusCode, body
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	setupTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret-for-register-flow")

	app := fiber.New()
	app.Post("/auth/register", Register)

	first := RegisterRequest{
		Username:        "asha",
		Email:           "asha@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
	status, body := postRegister(t, app, first)
	if status != 200 || body.Token == "" {
		t.Fatalf("first register: status = %d, body = %+v", status, body)
	}

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"same username", RegisterRequest{Username: "asha", Email: "other@example.com", Password: "secret123", ConfirmPassword: "secret123"}},
		{"same email", RegisterRequest{Username: "other", Email: "asha@example.com", Password: "secret123", ConfirmPassword: "secret123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := postRegister(t, app, tc.req)
			if status != 400 {
				t.Fatalf("status = %d, body = %+v", status, body)
			}
			if body.Error == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

// The pre-insert existence checks can both pass when two registrations race;
// the unique index then reports the conflict from Create, and the handler
// depends on the driver translating that to gorm.ErrDuplicatedKey.
func TestDuplicateUserCreateTranslatesToDuplicatedKey(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Create(&models.User{Username: "asha", Email: "asha@example.com", Password: "x"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	err := db.Create(&models.User{Username: "asha", Email: "else@example.com", Password: "x"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate create error = %v, want gorm.ErrDuplicatedKey", err)
	}
}
