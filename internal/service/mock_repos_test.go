package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"volunteer-dashboard/backend/internal/model"
	"volunteer-dashboard/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	if dept.Version == 0 {
		dept.Version = 1
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		if d.IsActive {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDeptRepo) ListAll(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDeptRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, d := range m.depts {
		if d.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	dept.Version++
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.depts, id)
	return nil
}

// ── Mock VolunteerRepository ──

type mockVolunteerRepo struct {
	volunteers map[string]*model.Volunteer
}

func newMockVolunteerRepo() *mockVolunteerRepo {
	return &mockVolunteerRepo{volunteers: make(map[string]*model.Volunteer)}
}

func (m *mockVolunteerRepo) Create(_ context.Context, v *model.Volunteer) error {
	if v.VolunteerID == "" {
		v.VolunteerID = "vol-" + v.Name
	}
	if v.Version == 0 {
		v.Version = 1
	}
	m.volunteers[v.VolunteerID] = v
	return nil
}

func (m *mockVolunteerRepo) GetByID(_ context.Context, id string) (*model.Volunteer, error) {
	if v, ok := m.volunteers[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVolunteerRepo) ListWithFilters(_ context.Context, filters *repository.VolunteerListFilters, offset, limit int) ([]model.Volunteer, int64, error) {
	var matched []model.Volunteer
	for _, v := range m.volunteers {
		if filters != nil {
			if filters.Status != "" && v.Status != filters.Status {
				continue
			}
			if filters.Search != "" &&
				!strings.Contains(strings.ToLower(v.Name), strings.ToLower(filters.Search)) &&
				!strings.Contains(strings.ToLower(v.Email), strings.ToLower(filters.Search)) {
				continue
			}
		}
		matched = append(matched, *v)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockVolunteerRepo) ListByIDs(_ context.Context, ids []string) ([]model.Volunteer, error) {
	var result []model.Volunteer
	for _, id := range ids {
		if v, ok := m.volunteers[id]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockVolunteerRepo) Update(_ context.Context, v *model.Volunteer) error {
	v.Version++
	m.volunteers[v.VolunteerID] = v
	return nil
}

func (m *mockVolunteerRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.volunteers, id)
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.Event
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("event-%03d", m.seq)
	}
	if event.Version == 0 {
		event.Version = 1
	}
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByDateRange(_ context.Context, from, to time.Time, status string) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if !from.IsZero() && e.EventDate.Format("2006-01-02") < from.Format("2006-01-02") {
			continue
		}
		if !to.IsZero() && e.EventDate.Format("2006-01-02") > to.Format("2006-01-02") {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].EventDate.Equal(result[j].EventDate) {
			return result[i].EventDate.Before(result[j].EventDate)
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockEventRepo) ListAroundDate(ctx context.Context, date time.Time) ([]model.Event, error) {
	return m.ListByDateRange(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1), "")
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	event.Version++
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.events, id)
	return nil
}

// ── Mock EventDepartmentRepository ──

type mockEventDeptRepo struct {
	rows map[string]*model.EventDepartment // "eventID:deptID"
}

func newMockEventDeptRepo() *mockEventDeptRepo {
	return &mockEventDeptRepo{rows: make(map[string]*model.EventDepartment)}
}

func edKey(eventID, deptID string) string { return eventID + ":" + deptID }

func (m *mockEventDeptRepo) Create(_ context.Context, ed *model.EventDepartment) error {
	m.rows[edKey(ed.EventID, ed.DepartmentID)] = ed
	return nil
}

func (m *mockEventDeptRepo) Get(_ context.Context, eventID, departmentID string) (*model.EventDepartment, error) {
	if ed, ok := m.rows[edKey(eventID, departmentID)]; ok {
		return ed, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventDeptRepo) ListByEvent(_ context.Context, eventID string) ([]model.EventDepartment, error) {
	var result []model.EventDepartment
	for _, ed := range m.rows {
		if ed.EventID == eventID {
			result = append(result, *ed)
		}
	}
	return result, nil
}

func (m *mockEventDeptRepo) CountByDepartment(_ context.Context, departmentID string) (int64, error) {
	var count int64
	for _, ed := range m.rows {
		if ed.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (m *mockEventDeptRepo) Delete(_ context.Context, eventID, departmentID string) error {
	delete(m.rows, edKey(eventID, departmentID))
	return nil
}

// ── Mock EventVolunteerRepository ──

type mockEventVolunteerRepo struct {
	rows map[string]*model.EventVolunteer // "eventID:volID:deptID"
}

func newMockEventVolunteerRepo() *mockEventVolunteerRepo {
	return &mockEventVolunteerRepo{rows: make(map[string]*model.EventVolunteer)}
}

func evKey(eventID, volID, deptID string) string {
	return eventID + ":" + volID + ":" + deptID
}

func (m *mockEventVolunteerRepo) Create(_ context.Context, ev *model.EventVolunteer) error {
	m.rows[evKey(ev.EventID, ev.VolunteerID, ev.DepartmentID)] = ev
	return nil
}

func (m *mockEventVolunteerRepo) Get(_ context.Context, eventID, volunteerID, departmentID string) (*model.EventVolunteer, error) {
	if ev, ok := m.rows[evKey(eventID, volunteerID, departmentID)]; ok {
		return ev, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventVolunteerRepo) ListByEvent(_ context.Context, eventID string) ([]model.EventVolunteer, error) {
	var result []model.EventVolunteer
	for _, ev := range m.rows {
		if ev.EventID == eventID {
			result = append(result, *ev)
		}
	}
	return result, nil
}

func (m *mockEventVolunteerRepo) ListByVolunteer(_ context.Context, volunteerID string) ([]model.EventVolunteer, error) {
	var result []model.EventVolunteer
	for _, ev := range m.rows {
		if ev.VolunteerID == volunteerID {
			result = append(result, *ev)
		}
	}
	return result, nil
}

func (m *mockEventVolunteerRepo) ListByDepartmentAndDateRange(_ context.Context, departmentID string, from, to time.Time) ([]model.EventVolunteer, error) {
	var result []model.EventVolunteer
	for _, ev := range m.rows {
		if ev.DepartmentID != departmentID || ev.Event == nil {
			continue
		}
		day := ev.Event.EventDate.Format("2006-01-02")
		if day < from.Format("2006-01-02") || day > to.Format("2006-01-02") {
			continue
		}
		result = append(result, *ev)
	}
	return result, nil
}

func (m *mockEventVolunteerRepo) Delete(_ context.Context, eventID, volunteerID, departmentID string) error {
	delete(m.rows, evKey(eventID, volunteerID, departmentID))
	return nil
}

func (m *mockEventVolunteerRepo) ConfirmPresent(_ context.Context, eventID, volunteerID, departmentID string) (bool, error) {
	ev, ok := m.rows[evKey(eventID, volunteerID, departmentID)]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if ev.Present {
		return true, nil
	}
	ev.Present = true
	return false, nil
}

// ── 聚合构造 ──

type mockRepos struct {
	user      *mockUserRepo
	dept      *mockDeptRepo
	volunteer *mockVolunteerRepo
	event     *mockEventRepo
	eventDept *mockEventDeptRepo
	eventVol  *mockEventVolunteerRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:      newMockUserRepo(),
		dept:      newMockDeptRepo(),
		volunteer: newMockVolunteerRepo(),
		event:     newMockEventRepo(),
		eventDept: newMockEventDeptRepo(),
		eventVol:  newMockEventVolunteerRepo(),
	}
	repo := &repository.Repository{
		User:            m.user,
		Department:      m.dept,
		Volunteer:       m.volunteer,
		Event:           m.event,
		EventDepartment: m.eventDept,
		EventVolunteer:  m.eventVol,
	}
	return repo, m
}
