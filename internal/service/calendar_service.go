package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
)

// ── 时间表模块业务错误 ──

var (
	ErrUnknownSession     = errors.New("存在无效的课程时段 ID")
	ErrExportEmpty        = errors.New("时间表为空，无可导出内容")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// icsWeeks 导出 ICS 时每条时段重复的周数
const icsWeeks = 13

// CalendarService 时间表规划业务接口
//
// 保存语义为整表替换：每次提交完整的时段 ID 列表。
// 冲突不阻止保存，仅随响应回报。
type CalendarService interface {
	ListSessions(ctx context.Context) ([]dto.SelectedSession, error)
	Save(ctx context.Context, sid string, req *dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	GetMy(ctx context.Context, sid string) (*dto.MyTimetableResponse, error)
	ExportExcel(ctx context.Context, sid string) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, sid string) (*bytes.Buffer, string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// ListSessions 返回全部课程时段的扁平列表，供前端规划界面选课
func (s *calendarService) ListSessions(ctx context.Context) ([]dto.SelectedSession, error) {
	sessions, err := s.repo.Course.ListAllSessions(ctx)
	if err != nil {
		return nil, err
	}
	return toSelectedSessions(sessions), nil
}

func (s *calendarService) Save(ctx context.Context, sid string, req *dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	// 1. 去重并校验所有时段 ID 均存在
	ids := dedupe(req.SessionIDs)
	sessions, err := s.repo.Course.GetSessionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(sessions) != len(ids) {
		return nil, ErrUnknownSession
	}

	// 2. 整表替换
	if err := s.repo.Timetable.ReplaceBySID(ctx, sid, ids); err != nil {
		s.logger.Error("保存时间表失败", zap.String("sid", sid), zap.Error(err))
		return nil, err
	}

	// 3. 冲突随响应回报，不阻止保存
	selected := toSelectedSessions(sessions)
	return &dto.SaveTimetableResponse{
		Saved:     len(ids),
		Conflicts: DetectConflicts(selected),
	}, nil
}

func (s *calendarService) GetMy(ctx context.Context, sid string) (*dto.MyTimetableResponse, error) {
	selected, err := s.loadSelected(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &dto.MyTimetableResponse{
		Sessions:  selected,
		Conflicts: DetectConflicts(selected),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出个人时间表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 表格布局：行按 weekday + startTime 排序，
// 列为 星期 / 时间 / 课程 / 班别 / 校区。

func (s *calendarService) ExportExcel(ctx context.Context, sid string) (*bytes.Buffer, string, error) {
	selected, err := s.loadSelected(ctx, sid)
	if err != nil {
		return nil, "", err
	}
	if len(selected) == 0 {
		return nil, "", ErrExportEmpty
	}

	sortSelected(selected)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 24)
	f.SetColWidth(sheetName, "D", "D", 8)
	f.SetColWidth(sheetName, "E", "E", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Day", "Time", "Course", "Class", "Campus"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 2
	for _, sess := range selected {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), weekdayName(sess.Weekday))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%s - %s", sess.StartTime, sess.EndTime))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sess.Code)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sess.ClassNo)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), sess.Campus)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s.xlsx", sid)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出个人时间表为 iCalendar (RFC 5545)
// ═══════════════════════════════════════════════════════════
//
// 每条时段生成一个带 WEEKLY RRULE 的 VEVENT，
// DTSTART 取下一次该 weekday 对应的日期。

func (s *calendarService) ExportICS(ctx context.Context, sid string) (*bytes.Buffer, string, error) {
	selected, err := s.loadSelected(ctx, sid)
	if err != nil {
		return nil, "", err
	}
	if len(selected) == 0 {
		return nil, "", ErrExportEmpty
	}

	sortSelected(selected)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//EFS Platform//Timetable//EN")

	now := time.Now()
	for _, sess := range selected {
		start, end, ok := nextOccurrence(now, sess)
		if !ok {
			continue
		}

		evt := cal.AddEvent(fmt.Sprintf("%s-%s@efs-platform", sess.ID, sid))
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(fmt.Sprintf("%s (%s)", sess.Code, sess.ClassNo))
		if sess.Campus != "" {
			evt.SetLocation(sess.Campus)
		}
		evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", icsWeeks))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("timetable_%s.ics", sid)
	return buf, filename, nil
}

// ── 辅助函数 ──

func (s *calendarService) loadSelected(ctx context.Context, sid string) ([]dto.SelectedSession, error) {
	selections, err := s.repo.Timetable.ListBySID(ctx, sid)
	if err != nil {
		return nil, err
	}

	selected := make([]dto.SelectedSession, 0, len(selections))
	for _, sel := range selections {
		if sel.Session == nil {
			continue // 课程被删除后残留的选课记录
		}
		selected = append(selected, toSelectedSession(sel.Session))
	}
	return selected, nil
}

func toSelectedSession(sess *model.CourseSession) dto.SelectedSession {
	return dto.SelectedSession{
		ID:        sess.SessionID,
		Weekday:   sess.Weekday,
		StartTime: sess.StartTime,
		EndTime:   sess.EndTime,
		Code:      sess.CourseCode,
		ClassNo:   sess.ClassNo,
		Campus:    sess.Campus,
	}
}

func toSelectedSessions(sessions []model.CourseSession) []dto.SelectedSession {
	selected := make([]dto.SelectedSession, 0, len(sessions))
	for i := range sessions {
		selected = append(selected, toSelectedSession(&sessions[i]))
	}
	return selected
}

func sortSelected(sessions []dto.SelectedSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Weekday != sessions[j].Weekday {
			return sessions[i].Weekday < sessions[j].Weekday
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// nextOccurrence 计算从 now 起下一次该时段的起止时间
func nextOccurrence(now time.Time, sess dto.SelectedSession) (time.Time, time.Time, bool) {
	startMin, ok1 := parseMinutes(sess.StartTime)
	endMin, ok2 := parseMinutes(sess.EndTime)
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, false
	}

	daysAhead := (sess.Weekday - int(now.Weekday()) + 7) % 7
	day := now.AddDate(0, 0, daysAhead)
	start := time.Date(day.Year(), day.Month(), day.Day(), startMin/60, startMin%60, 0, 0, now.Location())
	if start.Before(now) {
		start = start.AddDate(0, 0, 7)
	}
	end := time.Date(start.Year(), start.Month(), start.Day(), endMin/60, endMin%60, 0, 0, now.Location())
	return start, end, true
}
