package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"volunteer-dashboard/backend/config"
	"volunteer-dashboard/backend/internal/dto"
	"volunteer-dashboard/backend/internal/repository"
	"volunteer-dashboard/backend/pkg/jwt"
)

// ── 签到模块业务错误 ──

// ErrAttendanceRejected 对外统一的拒绝消息：不泄露具体失败原因
// （事件不符 / 部门不符 / 排班不存在 / 签名无效），细节只进服务端日志
var (
	ErrAttendanceRejected       = errors.New("签到失败，请重新出示签到码")
	ErrAttendanceNotScheduled   = errors.New("该志愿者未排班在此活动")
	ErrAttendanceIssueForbidden = errors.New("无权为该志愿者生成签到码")
	ErrScanBusy                 = errors.New("上一次签到结果展示中，请稍候")
)

// AttendanceService 签到业务接口
type AttendanceService interface {
	// IssueToken 为已排班的三元组签发签到码（前端渲染二维码）；
	// caller 为申请者：admin/leader 可代发，志愿者只能为绑定本人账号的志愿者申请
	IssueToken(ctx context.Context, req *dto.IssueAttendanceTokenRequest, caller *jwt.Claims) (*dto.IssueAttendanceTokenResponse, error)
	// Confirm 扫码端提交确认；scanner 为扫码操作者（leader/admin）
	Confirm(ctx context.Context, req *dto.ConfirmAttendanceRequest, scanner *jwt.Claims) (*dto.ConfirmAttendanceResponse, error)
}

type attendanceService struct {
	cfg      *config.Config
	repo     *repository.Repository
	tokenMgr *AttendanceTokenManager
	guard    *scanGuard
	logger   *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(
	cfg *config.Config,
	repo *repository.Repository,
	tokenMgr *AttendanceTokenManager,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		cfg:      cfg,
		repo:     repo,
		tokenMgr: tokenMgr,
		guard:    newScanGuard(),
		logger:   logger,
	}
}

// ────────────────────── IssueToken ──────────────────────

func (s *attendanceService) IssueToken(ctx context.Context, req *dto.IssueAttendanceTokenRequest, caller *jwt.Claims) (*dto.IssueAttendanceTokenResponse, error) {
	// 签发绑定：签名只在签发被约束时才有意义
	if err := s.checkIssuer(ctx, req.VolunteerID, caller); err != nil {
		return nil, err
	}

	// 只为真实存在的排班签发
	if _, err := s.repo.EventVolunteer.Get(ctx, req.EventID, req.VolunteerID, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotScheduled
		}
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}

	token, err := s.tokenMgr.Issue(req.VolunteerID, req.EventID, req.DepartmentID)
	if err != nil {
		s.logger.Error("签发签到码失败", zap.Error(err))
		return nil, err
	}

	return &dto.IssueAttendanceTokenResponse{
		Token:     token,
		ExpiresIn: int(s.tokenMgr.TTL().Seconds()),
	}, nil
}

// checkIssuer 校验申请者可否为该志愿者签发：
// admin/leader 可为任意志愿者代发（无账号志愿者由现场工作人员出示）；
// 志愿者角色只能为绑定到本人登录账号的志愿者记录申请
func (s *attendanceService) checkIssuer(ctx context.Context, volunteerID string, caller *jwt.Claims) error {
	if caller.Role == jwt.RoleAdmin || caller.Role == jwt.RoleLeader {
		return nil
	}

	v, err := s.repo.Volunteer.GetByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceIssueForbidden
		}
		s.logger.Error("查询志愿者失败", zap.Error(err))
		return err
	}
	if v.UserID == nil || *v.UserID != caller.UserID {
		s.logger.Warn("签到码签发被拒：志愿者未绑定该账号",
			zap.String("caller", caller.UserID),
			zap.String("volunteer_id", volunteerID))
		return ErrAttendanceIssueForbidden
	}
	return nil
}

// ────────────────────── Confirm ──────────────────────
//
// 校验顺序固定：
//  1. 签名与有效期（含三元组字段齐全）
//  2. 签到码所属活动 == 扫码会话当前活动
//  3. 部门归属：leader 只能确认本部门的签到码，admin 不受限
//  4. 排班实时复核 + 翻转 present（事务内，幂等）
//
// 除「已过期」外，所有失败对外统一为 ErrAttendanceRejected。

func (s *attendanceService) Confirm(ctx context.Context, req *dto.ConfirmAttendanceRequest, scanner *jwt.Claims) (*dto.ConfirmAttendanceResponse, error) {
	// 展示窗口内的重复扫码直接忽略
	if !s.guard.begin(scanner.UserID) {
		return nil, ErrScanBusy
	}

	resp, err := s.confirm(ctx, req, scanner)
	if err != nil {
		s.guard.finish(scanner.UserID, s.cfg.Attendance.ErrorDisplayTime)
		return nil, err
	}
	s.guard.finish(scanner.UserID, s.cfg.Attendance.SuccessDisplayTime)
	return resp, nil
}

func (s *attendanceService) confirm(ctx context.Context, req *dto.ConfirmAttendanceRequest, scanner *jwt.Claims) (*dto.ConfirmAttendanceResponse, error) {
	// 1. 签名与有效期
	claims, err := s.tokenMgr.Verify(req.Token)
	if err != nil {
		if errors.Is(err, ErrAttendanceTokenExpired) {
			return nil, ErrAttendanceTokenExpired
		}
		s.logger.Warn("签到码校验失败",
			zap.String("scanner", scanner.UserID), zap.Error(err))
		return nil, ErrAttendanceRejected
	}

	// 2. 活动匹配：拒绝上一场次残留的签到码
	if claims.EventID != req.EventID {
		s.logger.Warn("签到码与当前活动不匹配",
			zap.String("scanner", scanner.UserID),
			zap.String("token_event", claims.EventID),
			zap.String("session_event", req.EventID))
		return nil, ErrAttendanceRejected
	}

	// 3. 部门归属：admin 可跨部门确认
	if scanner.Role != jwt.RoleAdmin && claims.DepartmentID != scanner.DepartmentID {
		s.logger.Warn("签到码部门与扫码者部门不符",
			zap.String("scanner", scanner.UserID),
			zap.String("token_department", claims.DepartmentID),
			zap.String("scanner_department", scanner.DepartmentID))
		return nil, ErrAttendanceRejected
	}

	// 4. 排班实时复核 + 翻转（唯一允许写 present 的路径）
	alreadyPresent, err := s.repo.EventVolunteer.ConfirmPresent(ctx, claims.EventID, claims.VolunteerID, claims.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("签到码对应排班不存在",
				zap.String("event_id", claims.EventID),
				zap.String("volunteer_id", claims.VolunteerID),
				zap.String("department_id", claims.DepartmentID))
			return nil, ErrAttendanceRejected
		}
		s.logger.Error("签到写入失败", zap.Error(err))
		return nil, err
	}

	volunteerName := ""
	if v, err := s.repo.Volunteer.GetByID(ctx, claims.VolunteerID); err == nil {
		volunteerName = v.Name
	}

	s.logger.Info("签到确认成功",
		zap.String("event_id", claims.EventID),
		zap.String("volunteer_id", claims.VolunteerID),
		zap.String("department_id", claims.DepartmentID),
		zap.Bool("already_present", alreadyPresent))

	return &dto.ConfirmAttendanceResponse{
		VolunteerID:    claims.VolunteerID,
		VolunteerName:  volunteerName,
		EventID:        claims.EventID,
		DepartmentID:   claims.DepartmentID,
		AlreadyPresent: alreadyPresent,
		DisplayMillis:  int(s.cfg.Attendance.SuccessDisplayTime.Milliseconds()),
	}, nil
}

// ── 扫码会话防抖 ──

// scanGuard 按扫码者维度的单飞防抖：结果横幅展示期间（成功 2.5s /
// 失败 4s）到达的扫码请求直接丢弃，防止同一张码被连续处理。
// 进程内实现，多实例部署时各实例独立防抖。
type scanGuard struct {
	mu   sync.Mutex
	busy map[string]time.Time // scannerID → 展示窗口截止时刻
	now  func() time.Time
}

func newScanGuard() *scanGuard {
	return &scanGuard{
		busy: make(map[string]time.Time),
		now:  time.Now,
	}
}

// begin 尝试进入处理；处于展示窗口内返回 false
func (g *scanGuard) begin(scannerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if until, ok := g.busy[scannerID]; ok && g.now().Before(until) {
		return false
	}
	// 处理期间视为占用，窗口在 finish 时按结果重设
	g.busy[scannerID] = g.now().Add(time.Minute)
	return true
}

// finish 处理完成，按结果设置展示窗口
func (g *scanGuard) finish(scannerID string, window time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy[scannerID] = g.now().Add(window)
}
