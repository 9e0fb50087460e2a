package jwt

import (
	"errors"
	"testing"
	"time"

	"volunteer-dashboard/backend/config"
)

func newTestManager(accessTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:              "test-secret-at-least-16-chars",
		AccessTokenTTL:         accessTTL,
		RefreshTokenTTLDefault: 24 * time.Hour,
	})
}

func TestManager_GenerateAndParse_AccessToken(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	tokenStr, err := m.GenerateAccessToken("user-001", RoleLeader, "dept-001")
	if err != nil {
		t.Fatalf("生成 Access Token 应成功: %v", err)
	}

	claims, err := m.ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("解析 Token 应成功: %v", err)
	}
	if claims.UserID != "user-001" {
		t.Errorf("期望UserID=user-001，实际=%s", claims.UserID)
	}
	if claims.Role != RoleLeader {
		t.Errorf("期望Role=leader，实际=%s", claims.Role)
	}
	if claims.DepartmentID != "dept-001" {
		t.Errorf("期望DepartmentID=dept-001，实际=%s", claims.DepartmentID)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望TokenType=access，实际=%s", claims.TokenType)
	}
}

func TestManager_ParseToken_Expired(t *testing.T) {
	m := newTestManager(-1 * time.Minute) // 已过期

	tokenStr, err := m.GenerateAccessToken("user-001", RoleAdmin, "")
	if err != nil {
		t.Fatalf("生成 Token 应成功: %v", err)
	}

	_, err = m.ParseToken(tokenStr)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager(15 * time.Minute)
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:              "another-secret-16-chars-long",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTLDefault: 24 * time.Hour,
	})

	tokenStr, err := m1.GenerateAccessToken("user-001", RoleVolunteer, "")
	if err != nil {
		t.Fatalf("生成 Token 应成功: %v", err)
	}

	_, err = m2.ParseToken(tokenStr)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestManager_ParseToken_Garbage(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	_, err := m.ParseToken("not-a-jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestManager_RefreshToken_Type(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	tokenStr, err := m.GenerateRefreshToken("user-001", RoleLeader, "dept-001")
	if err != nil {
		t.Fatalf("生成 Refresh Token 应成功: %v", err)
	}

	claims, err := m.ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("解析 Token 应成功: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望TokenType=refresh，实际=%s", claims.TokenType)
	}
}
