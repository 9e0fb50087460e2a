package service

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ── 签到码 ──
//
// 签到码是短时效的 HS256 JWT，载荷为 (volunteer_id, event_id,
// department_id) 三元组，由服务端签发、志愿者设备展示、扫码端回传。
// 签名与有效期在结构校验之前验证；真正的授权仍由服务端对三元组的
// 实时复核兜底，签到码本身只是传递介质。
// 签到码从不落库。

var (
	ErrAttendanceTokenExpired = errors.New("签到码已过期")
	ErrAttendanceTokenInvalid = errors.New("签到码无效")
)

// AttendanceClaims 签到码载荷
type AttendanceClaims struct {
	VolunteerID  string `json:"volunteer_id"`
	EventID      string `json:"event_id"`
	DepartmentID string `json:"department_id"`
	jwtv5.RegisteredClaims
}

// AttendanceTokenManager 签到码签发与验证
type AttendanceTokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewAttendanceTokenManager 创建签到码管理器
func NewAttendanceTokenManager(secret string, ttl time.Duration) *AttendanceTokenManager {
	return &AttendanceTokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue 签发签到码
func (m *AttendanceTokenManager) Issue(volunteerID, eventID, departmentID string) (string, error) {
	now := time.Now()
	claims := AttendanceClaims{
		VolunteerID:  volunteerID,
		EventID:      eventID,
		DepartmentID: departmentID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "volunteer-dashboard/attendance",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// TTL 签到码有效期
func (m *AttendanceTokenManager) TTL() time.Duration {
	return m.ttl
}

// Verify 验证签名与有效期，并检查三元组字段齐全
func (m *AttendanceTokenManager) Verify(tokenString string) (*AttendanceClaims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &AttendanceClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrAttendanceTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrAttendanceTokenExpired
		}
		return nil, ErrAttendanceTokenInvalid
	}

	claims, ok := token.Claims.(*AttendanceClaims)
	if !ok || !token.Valid {
		return nil, ErrAttendanceTokenInvalid
	}

	// 结构校验：三元组缺一不可
	if claims.VolunteerID == "" || claims.EventID == "" || claims.DepartmentID == "" {
		return nil, ErrAttendanceTokenInvalid
	}

	return claims, nil
}
