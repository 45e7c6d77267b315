package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserDTO struct {
	ID           int64  `json:"id"`
	GymID        int64  `json:"gym_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	IsActive     bool   `json:"is_active"`
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		GymID:        u.GymID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         string(u.Role),
		TokenVersion: u.TokenVersion,
		IsActive:     u.IsActive,
	}
}

type JwtAccessTokenDTO struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type AuthRegisterRequest struct {
	GymID    int64  `json:"gym_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type LoginResult struct {
	Body              AuthLoginResponse
	RefreshTokenPlain string
}

type RefreshResult struct {
	Body              JwtAccessTokenDTO
	RefreshTokenPlain string
}

type AuthUsecase struct {
	cfg    config.Config
	users  repo.UserRepository
	gyms   repo.GymRepository
	rtRepo repo.RefreshTokenRepository
}

func NewAuthUsecase(
	cfg config.Config,
	users repo.UserRepository,
	gyms repo.GymRepository,
	rtRepo repo.RefreshTokenRepository,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:    cfg,
		users:  users,
		gyms:   gyms,
		rtRepo: rtRepo,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (UserDTO, error) {
	if req.GymID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "gym_id required")
	}
	if !isValidEmailFormat(req.Email) {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if len(req.Password) < 12 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}
	if isWeakPassword(req.Password) {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "weak password")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "full_name required")
	}

	//登録先のジムが実在して営業中であること
	gym, err := u.gyms.FindByID(ctx, req.GymID)
	if err == repo.ErrNotFound || (err == nil && !gym.IsActive) {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "gym not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//email重複チェック
	existing, err := u.users.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "email already exists")
	}
	if err != nil && err != repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//初期ロールはSTUDENT。昇格はMANAGER以上の操作で行う。
	user := &model.User{
		GymID:        req.GymID,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(pwHash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         model.RoleStudent,
		TokenVersion: 0,
		IsActive:     true,
	}

	if err := u.users.Create(ctx, user); err != nil {
		// unique違反はここに落ちる
		return UserDTO{}, NewHTTPError(http.StatusConflict, "email already exists")
	}

	return toUserDTO(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest, userAgent string) (*LoginResult, error) {
	if !isValidEmailFormat(req.Email) || req.Password == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//last_login更新
	now := time.Now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//refresh token発行（DBにはhash保存）
	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		UserAgent: userAgent,
		ExpiresAt: now.Add(u.cfg.RefreshTokenTTL),
	}
	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &LoginResult{
		Body: AuthLoginResponse{
			User: toUserDTO(user),
			Token: JwtAccessTokenDTO{
				AccessToken:  accessToken,
				ExpiresIn:    expiresIn,
				TokenVersion: user.TokenVersion,
			},
		},
		RefreshTokenPlain: refreshPlain,
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !user.IsActive {
		return UserDTO{}, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	return toUserDTO(user), nil
}

// refreshはローテーション方式。旧tokenはusedにして新tokenを返す。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenPlain string, userAgent string) (*RefreshResult, error) {
	if refreshTokenPlain == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	tokenHash := hashToken(refreshTokenPlain)
	rt, err := u.rtRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil || rt == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()

	if rt.ExpiresAt.Before(now) {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if rt.RevokedAt != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//used済みが来たらreplayとみなして全セッション破棄
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//user_agent違いも再認証扱い
	if userAgent != "" && rt.UserAgent != "" && userAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	newPlain, newHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	newRT := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: newHash,
		UserAgent: userAgent,
		ExpiresAt: now.Add(u.cfg.RefreshTokenTTL),
	}
	if err := u.rtRepo.Create(ctx, newRT); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &RefreshResult{
		Body: JwtAccessTokenDTO{
			AccessToken:  accessToken,
			ExpiresIn:    expiresIn,
			TokenVersion: user.TokenVersion,
		},
		RefreshTokenPlain: newPlain,
	}, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenPlain string) error {
	if refreshTokenPlain == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	tokenHash := hashToken(refreshTokenPlain)
	rt, err := u.rtRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil || rt == nil {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.rtRepo.Revoke(ctx, rt.ID, time.Now()); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return nil
}

type ForceLogoutResponse struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

// 強制ログアウト。token_versionを上げて全refresh tokenを破棄する。
func (u *AuthUsecase) ForceLogout(ctx context.Context, actor Actor, targetUserID int64) (*ForceLogoutResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if targetUserID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//対象が同じジムのユーザーであること
	target, err := u.users.FindByIDInGym(ctx, actor.GymID, targetUserID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if target.Role.Tier() > actor.Role.Tier() {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.rtRepo.DeleteAllByUserID(ctx, targetUserID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.users.FindByID(ctx, targetUserID)
	if err != nil || updated == nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &ForceLogoutResponse{
		UserID:          updated.ID,
		NewTokenVersion: updated.TokenVersion,
	}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := time.Now()
	exp := now.Add(u.cfg.AccessTokenTTL)

	claims := jwt.MapClaims{
		"sub":    user.ID,
		"gym_id": user.GymID,
		"role":   string(user.Role),
		"tv":     user.TokenVersion,
		"iat":    now.Unix(),
		"exp":    exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(u.cfg.AccessTokenTTL.Seconds()), nil
}

// refresh token生成（平文 + DB保存hash）
func newRandomTokenAndHash() (plain string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}

	plain = base64.RawURLEncoding.EncodeToString(b)
	hash = hashToken(plain)
	return plain, hash, nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// メールチェック
func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}

// よくある弱いパスワードの拒否
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwerty":       {},
		"qwertyuiop":   {},
		"letmein":      {},
		"admin":        {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}
