package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/model"
	"volunteer-dashboard/backend/pkg/jwt"
)

// ── 测试辅助 ──

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestAttendanceService(t *testing.T) (*attendanceService, *mockRepos, *fakeClock) {
	t.Helper()
	cfg := testConfig()
	repo, m := newMockRepos()
	tokenMgr := NewAttendanceTokenManager(cfg.Auth.JWTSecret, cfg.Attendance.TokenTTL)
	svc := NewAttendanceService(cfg, repo, tokenMgr, zap.NewNop()).(*attendanceService)

	clock := &fakeClock{now: time.Now()}
	svc.guard.now = func() time.Time { return clock.now }
	return svc, m, clock
}

func seedAssignment(m *mockRepos, eventID, volID, deptID string) {
	m.eventVol.rows[evKey(eventID, volID, deptID)] = &model.EventVolunteer{
		EventID:      eventID,
		VolunteerID:  volID,
		DepartmentID: deptID,
	}
}

func leaderClaims(deptID string) *jwt.Claims {
	return &jwt.Claims{UserID: "leader-1", Role: jwt.RoleLeader, DepartmentID: deptID}
}

func adminClaims() *jwt.Claims {
	return &jwt.Claims{UserID: "admin-1", Role: jwt.RoleAdmin}
}

func volunteerClaims(userID string) *jwt.Claims {
	return &jwt.Claims{UserID: userID, Role: jwt.RoleVolunteer}
}

// ── IssueToken 测试 ──

func TestAttendanceService_IssueToken_RequiresSchedule(t *testing.T) {
	svc, _, _ := setupTestAttendanceService(t)

	_, err := svc.IssueToken(context.Background(), &dto.IssueAttendanceTokenRequest{
		VolunteerID:  "vol-1",
		EventID:      "e1",
		DepartmentID: "dept-a",
	}, leaderClaims("dept-a"))
	if !errors.Is(err, ErrAttendanceNotScheduled) {
		t.Errorf("未排班不应签发签到码，实际=%v", err)
	}
}

func TestAttendanceService_IssueToken_Success(t *testing.T) {
	svc, m, _ := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")

	resp, err := svc.IssueToken(context.Background(), &dto.IssueAttendanceTokenRequest{
		VolunteerID:  "vol-1",
		EventID:      "e1",
		DepartmentID: "dept-a",
	}, leaderClaims("dept-a"))
	if err != nil {
		t.Fatalf("IssueToken 应成功: %v", err)
	}
	if resp.ExpiresIn != 300 {
		t.Errorf("期望有效期300秒，实际=%d", resp.ExpiresIn)
	}

	claims, err := svc.tokenMgr.Verify(resp.Token)
	if err != nil {
		t.Fatalf("签发的签到码应可验证: %v", err)
	}
	if claims.VolunteerID != "vol-1" || claims.EventID != "e1" || claims.DepartmentID != "dept-a" {
		t.Errorf("三元组载荷不符: %+v", claims)
	}
}

func TestAttendanceService_IssueToken_VolunteerBoundToOwnRecord(t *testing.T) {
	svc, m, _ := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	userID := "user-1"
	m.volunteer.volunteers["vol-1"] = &model.Volunteer{VolunteerID: "vol-1", Name: "张三", UserID: &userID}

	req := &dto.IssueAttendanceTokenRequest{
		VolunteerID:  "vol-1",
		EventID:      "e1",
		DepartmentID: "dept-a",
	}

	// 绑定本人账号：可签发
	if _, err := svc.IssueToken(context.Background(), req, volunteerClaims("user-1")); err != nil {
		t.Errorf("绑定账号的志愿者应可自发签到码: %v", err)
	}

	// 他人账号：拒绝
	if _, err := svc.IssueToken(context.Background(), req, volunteerClaims("user-2")); !errors.Is(err, ErrAttendanceIssueForbidden) {
		t.Errorf("他人账号不应可代发签到码，实际=%v", err)
	}
}

func TestAttendanceService_IssueToken_UnlinkedVolunteerForbidden(t *testing.T) {
	svc, m, _ := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	// 志愿者记录存在但未绑定登录账号
	m.volunteer.volunteers["vol-1"] = &model.Volunteer{VolunteerID: "vol-1", Name: "张三"}

	req := &dto.IssueAttendanceTokenRequest{
		VolunteerID:  "vol-1",
		EventID:      "e1",
		DepartmentID: "dept-a",
	}

	if _, err := svc.IssueToken(context.Background(), req, volunteerClaims("user-1")); !errors.Is(err, ErrAttendanceIssueForbidden) {
		t.Errorf("未绑定账号的志愿者记录应只能由 admin/leader 代发，实际=%v", err)
	}

	// admin 可代发
	if _, err := svc.IssueToken(context.Background(), req, adminClaims()); err != nil {
		t.Errorf("admin 应可代发签到码: %v", err)
	}
}

// ── Confirm 测试 ──

func issueToken(t *testing.T, svc *attendanceService, volID, eventID, deptID string) string {
	t.Helper()
	token, err := svc.tokenMgr.Issue(volID, eventID, deptID)
	if err != nil {
		t.Fatalf("签发签到码失败: %v", err)
	}
	return token
}

func TestAttendanceService_Confirm_Success(t *testing.T) {
	svc, m, _ := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	m.volunteer.volunteers["vol-1"] = &model.Volunteer{VolunteerID: "vol-1", Name: "张三"}
	token := issueToken(t, svc, "vol-1", "e1", "dept-a")

	resp, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{
		Token:   token,
		EventID: "e1",
	}, leaderClaims("dept-a"))
	if err != nil {
		t.Fatalf("Confirm 应成功: %v", err)
	}
	if resp.AlreadyPresent {
		t.Error("首次签到不应标记重复")
	}
	if resp.VolunteerName != "张三" {
		t.Errorf("期望志愿者姓名张三，实际=%s", resp.VolunteerName)
	}
	if resp.DisplayMillis != 2500 {
		t.Errorf("期望展示2500ms，实际=%d", resp.DisplayMillis)
	}

	row, _ := m.eventVol.Get(context.Background(), "e1", "vol-1", "dept-a")
	if !row.Present {
		t.Error("签到后 present 应为 true")
	}
}

func TestAttendanceService_Confirm_Idempotent(t *testing.T) {
	svc, m, clock := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	token := issueToken(t, svc, "vol-1", "e1", "dept-a")
	req := &dto.ConfirmAttendanceRequest{Token: token, EventID: "e1"}

	if _, err := svc.Confirm(context.Background(), req, leaderClaims("dept-a")); err != nil {
		t.Fatalf("首次签到应成功: %v", err)
	}

	// 越过成功展示窗口后重扫同一张码
	clock.advance(3 * time.Second)
	resp, err := svc.Confirm(context.Background(), req, leaderClaims("dept-a"))
	if err != nil {
		t.Fatalf("重复签到应幂等成功: %v", err)
	}
	if !resp.AlreadyPresent {
		t.Error("重复签到应标记 already_present")
	}

	// present 永不回退
	row, _ := m.eventVol.Get(context.Background(), "e1", "vol-1", "dept-a")
	if !row.Present {
		t.Error("present 不应回退")
	}
}

func TestAttendanceService_Confirm_EventMismatch(t *testing.T) {
	svc, m, _ := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	// 上一场次残留的签到码对准新活动
	token := issueToken(t, svc, "vol-1", "e1", "dept-a")

	_, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{
		Token:   token,
		EventID: "e2",
	}, leaderClaims("dept-a"))
	if !errors.Is(err, ErrAttendanceRejected) {
		t.Errorf("活动不匹配应拒绝，实际=%v", err)
	}
}

func TestAttendanceService_Confirm_DepartmentMismatch(t *testing.T) {
	svc, m, clock := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	token := issueToken(t, svc, "vol-1", "e1", "dept-a")
	req := &dto.ConfirmAttendanceRequest{Token: token, EventID: "e1"}

	// 其他部门 leader 扫码：拒绝
	if _, err := svc.Confirm(context.Background(), req, leaderClaims("dept-b")); !errors.Is(err, ErrAttendanceRejected) {
		t.Errorf("跨部门签到应拒绝，实际=%v", err)
	}

	// admin 不受部门限制
	clock.advance(5 * time.Second)
	if _, err := svc.Confirm(context.Background(), req, adminClaims()); err != nil {
		t.Errorf("admin 应可跨部门确认: %v", err)
	}
}

func TestAttendanceService_Confirm_ExpiredToken(t *testing.T) {
	svc, m, _ := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")

	expiredMgr := NewAttendanceTokenManager(testConfig().Auth.JWTSecret, -time.Minute)
	token, err := expiredMgr.Issue("vol-1", "e1", "dept-a")
	if err != nil {
		t.Fatalf("签发签到码失败: %v", err)
	}

	_, err = svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{
		Token:   token,
		EventID: "e1",
	}, leaderClaims("dept-a"))
	if !errors.Is(err, ErrAttendanceTokenExpired) {
		t.Errorf("过期签到码应返回过期错误，实际=%v", err)
	}
}

func TestAttendanceService_Confirm_GarbageToken(t *testing.T) {
	svc, _, _ := setupTestAttendanceService(t)

	_, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{
		Token:   "not-a-token",
		EventID: "e1",
	}, leaderClaims("dept-a"))
	if !errors.Is(err, ErrAttendanceRejected) {
		t.Errorf("非法签到码应统一拒绝，实际=%v", err)
	}
}

func TestAttendanceService_Confirm_ScheduleGone(t *testing.T) {
	svc, _, _ := setupTestAttendanceService(t)
	// 签到码三元组合法但排班已被移除
	token := issueToken(t, svc, "vol-1", "e1", "dept-a")

	_, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{
		Token:   token,
		EventID: "e1",
	}, leaderClaims("dept-a"))
	if !errors.Is(err, ErrAttendanceRejected) {
		t.Errorf("排班不存在应拒绝，实际=%v", err)
	}
}

// ── 扫码防抖测试 ──

func TestAttendanceService_Confirm_ScanGuard(t *testing.T) {
	svc, m, clock := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	seedAssignment(m, "e1", "vol-2", "dept-a")
	token1 := issueToken(t, svc, "vol-1", "e1", "dept-a")
	token2 := issueToken(t, svc, "vol-2", "e1", "dept-a")
	scanner := leaderClaims("dept-a")

	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: token1, EventID: "e1"}, scanner); err != nil {
		t.Fatalf("首次签到应成功: %v", err)
	}

	// 成功展示窗口（2.5s）内的下一次扫码被忽略
	clock.advance(time.Second)
	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: token2, EventID: "e1"}, scanner); !errors.Is(err, ErrScanBusy) {
		t.Errorf("展示窗口内应忽略扫码，实际=%v", err)
	}

	// 窗口结束后放行
	clock.advance(2 * time.Second)
	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: token2, EventID: "e1"}, scanner); err != nil {
		t.Errorf("窗口结束后应放行: %v", err)
	}
}

func TestAttendanceService_Confirm_ErrorWindowLonger(t *testing.T) {
	svc, m, clock := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	token := issueToken(t, svc, "vol-1", "e1", "dept-a")
	scanner := leaderClaims("dept-a")

	// 失败一次：进入 4s 错误展示窗口
	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: "garbage", EventID: "e1"}, scanner); !errors.Is(err, ErrAttendanceRejected) {
		t.Fatalf("非法签到码应拒绝，实际=%v", err)
	}

	// 3s 后仍在错误窗口内（成功窗口只有 2.5s）
	clock.advance(3 * time.Second)
	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: token, EventID: "e1"}, scanner); !errors.Is(err, ErrScanBusy) {
		t.Errorf("错误窗口内应忽略扫码，实际=%v", err)
	}

	// 4s 过后放行
	clock.advance(2 * time.Second)
	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: token, EventID: "e1"}, scanner); err != nil {
		t.Errorf("错误窗口结束后应放行: %v", err)
	}
}

// ── 不同扫码者互不影响 ──

func TestAttendanceService_Confirm_GuardPerScanner(t *testing.T) {
	svc, m, _ := setupTestAttendanceService(t)
	seedAssignment(m, "e1", "vol-1", "dept-a")
	seedAssignment(m, "e1", "vol-2", "dept-a")
	token1 := issueToken(t, svc, "vol-1", "e1", "dept-a")
	token2 := issueToken(t, svc, "vol-2", "e1", "dept-a")

	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: token1, EventID: "e1"}, leaderClaims("dept-a")); err != nil {
		t.Fatalf("首次签到应成功: %v", err)
	}

	// 另一个扫码端不受前者展示窗口影响
	other := &jwt.Claims{UserID: "leader-2", Role: jwt.RoleLeader, DepartmentID: "dept-a"}
	if _, err := svc.Confirm(context.Background(), &dto.ConfirmAttendanceRequest{Token: token2, EventID: "e1"}, other); err != nil {
		t.Errorf("不同扫码端应互不影响: %v", err)
	}
}
