package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

type refreshResponse struct {
	Token        JwtAccessToken `json:"token"`
	RefreshToken string         `json:"refresh_token"`
}

func registerAndLogin(t *testing.T, c *TestClient, ctx context.Context) (AuthLoginResponse, string) {
	t.Helper()

	email := fmt.Sprintf("e2e-user-%d@example.com", time.Now().UnixNano())
	password := "correct-horse-battery"

	reg := RegisterRequest{
		GymID:    1,
		Email:    email,
		Password: password,
		FullName: "E2E User",
	}
	regJSON, err := json.Marshal(reg)
	if err != nil {
		t.Fatalf("json.Marshal(RegisterRequest) failed: %v", err)
	}

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/auth/register", "", regJSON)
	requireStatus(t, resp, http.StatusCreated, body)

	loginJSON, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/auth/login", "", loginJSON)
	requireStatus(t, resp, http.StatusOK, body)

	login := mustDecodeLogin(t, body)
	if login.User.Role != "STUDENT" {
		t.Fatalf("role=%q want STUDENT", login.User.Role)
	}
	if login.RefreshToken == "" {
		t.Fatalf("refresh token is empty: body=%s", string(body))
	}
	return login, password
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	login, _ := registerAndLogin(t, c, ctx)

	resp, body := c.doJSON(ctx, t, http.MethodGet, "/auth/me", login.Token.AccessToken, nil)
	requireStatus(t, resp, http.StatusOK, body)

	var me struct {
		User UserDTO `json:"user"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("json.Unmarshal(me) failed: %v body=%s", err, string(body))
	}
	if me.User.ID != login.User.ID {
		t.Fatalf("user id mismatch: %d vs %d", me.User.ID, login.User.ID)
	}
}

func TestAuth_WeakPasswordRejected(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reg := RegisterRequest{
		GymID:    1,
		Email:    fmt.Sprintf("e2e-weak-%d@example.com", time.Now().UnixNano()),
		Password: "123456789012",
		FullName: "E2E Weak",
	}
	regJSON, _ := json.Marshal(reg)

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/auth/register", "", regJSON)
	requireStatus(t, resp, http.StatusBadRequest, body)

	e := mustDecodeError(t, body)
	if !strings.Contains(e.Error, "weak password") {
		t.Fatalf("error=%q want weak password", e.Error)
	}
}

// ローテーション後に旧refresh tokenを再提示すると全セッション破棄
func TestAuth_RefreshRotationAndReplay(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	login, _ := registerAndLogin(t, c, ctx)

	refreshJSON, _ := json.Marshal(map[string]string{"refresh_token": login.RefreshToken})
	resp, body := c.doJSON(ctx, t, http.MethodPost, "/auth/refresh", "", refreshJSON)
	requireStatus(t, resp, http.StatusOK, body)

	var rotated refreshResponse
	if err := json.Unmarshal(body, &rotated); err != nil {
		t.Fatalf("json.Unmarshal(refreshResponse) failed: %v body=%s", err, string(body))
	}
	if rotated.RefreshToken == "" || rotated.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	//旧tokenの再提示はreplay扱いで401
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/auth/refresh", "", refreshJSON)
	requireStatus(t, resp, http.StatusUnauthorized, body)

	//replay検知で新token側も破棄されている
	rotatedJSON, _ := json.Marshal(map[string]string{"refresh_token": rotated.RefreshToken})
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/auth/refresh", "", rotatedJSON)
	requireStatus(t, resp, http.StatusUnauthorized, body)
}

func TestAuth_LogoutRevokesRefresh(t *testing.T) {
	c := NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	login, _ := registerAndLogin(t, c, ctx)

	logoutJSON, _ := json.Marshal(map[string]string{"refresh_token": login.RefreshToken})
	resp, body := c.doJSON(ctx, t, http.MethodPost, "/auth/logout", "", logoutJSON)
	requireStatus(t, resp, http.StatusOK, body)

	//revoke済みtokenではrefreshできない
	resp, body = c.doJSON(ctx, t, http.MethodPost, "/auth/refresh", "", logoutJSON)
	requireStatus(t, resp, http.StatusUnauthorized, body)
}
