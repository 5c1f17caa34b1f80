package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
	"github.com/MyFGitAccount/platform-efs/internal/model"
)

// ── 测试辅助 ──

func setupTestCalendarService(t *testing.T) (CalendarService, *testMocks) {
	repo, mocks := newTestMocks()
	svc := NewCalendarService(repo, zap.NewNop())
	return svc, mocks
}

// seedCourseWithSessions 创建一门两个时段的课程并返回时段 ID
func seedCourseWithSessions(t *testing.T, mocks *testMocks, code string, sessions ...model.CourseSession) []string {
	t.Helper()
	for i := range sessions {
		sessions[i].CourseCode = code
		if sessions[i].ClassNo == "" {
			sessions[i].ClassNo = "01"
		}
	}
	course := &model.Course{Code: code, Title: "测试课程 " + code, Sessions: sessions}
	if err := mocks.courses.Create(context.Background(), course); err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	ids := make([]string, 0, len(course.Sessions))
	for _, s := range course.Sessions {
		ids = append(ids, s.SessionID)
	}
	return ids
}

// ── Save 测试 ──

func TestCalendarService_Save_ReplacesAndReportsConflicts(t *testing.T) {
	svc, mocks := setupTestCalendarService(t)

	ids1 := seedCourseWithSessions(t, mocks, "COMP1001",
		model.CourseSession{Weekday: 1, StartTime: "09:00", EndTime: "11:00"})
	ids2 := seedCourseWithSessions(t, mocks, "MATH2001",
		model.CourseSession{Weekday: 1, StartTime: "10:00", EndTime: "12:00"})

	resp, err := svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{
		SessionIDs: []string{ids1[0], ids2[0]},
	})
	if err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}
	if resp.Saved != 2 {
		t.Errorf("期望保存 2 条，得到 %d", resp.Saved)
	}
	// 冲突不阻止保存，仅回报
	if len(resp.Conflicts) != 1 {
		t.Errorf("期望 1 个冲突，得到 %d", len(resp.Conflicts))
	}

	// 整表替换为单条
	resp, err = svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{
		SessionIDs: []string{ids1[0]},
	})
	if err != nil {
		t.Fatalf("二次 Save 应成功: %v", err)
	}
	if resp.Saved != 1 || len(resp.Conflicts) != 0 {
		t.Errorf("替换后应 1 条无冲突，得到 saved=%d conflicts=%d", resp.Saved, len(resp.Conflicts))
	}

	my, _ := svc.GetMy(context.Background(), "20260001")
	if len(my.Sessions) != 1 {
		t.Errorf("我的时间表应剩 1 条，得到 %d", len(my.Sessions))
	}
}

func TestCalendarService_Save_UnknownSession(t *testing.T) {
	svc, mocks := setupTestCalendarService(t)
	ids := seedCourseWithSessions(t, mocks, "COMP1001",
		model.CourseSession{Weekday: 1, StartTime: "09:00", EndTime: "11:00"})

	_, err := svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{
		SessionIDs: []string{ids[0], "ghost-session"},
	})
	if !errors.Is(err, ErrUnknownSession) {
		t.Errorf("期望 ErrUnknownSession，得到: %v", err)
	}
}

func TestCalendarService_Save_DeduplicatesIDs(t *testing.T) {
	svc, mocks := setupTestCalendarService(t)
	ids := seedCourseWithSessions(t, mocks, "COMP1001",
		model.CourseSession{Weekday: 1, StartTime: "09:00", EndTime: "11:00"})

	resp, err := svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{
		SessionIDs: []string{ids[0], ids[0], ids[0]},
	})
	if err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}
	if resp.Saved != 1 {
		t.Errorf("重复 ID 应去重，期望 1，得到 %d", resp.Saved)
	}
}

func TestCalendarService_Save_Empty(t *testing.T) {
	svc, mocks := setupTestCalendarService(t)
	ids := seedCourseWithSessions(t, mocks, "COMP1001",
		model.CourseSession{Weekday: 1, StartTime: "09:00", EndTime: "11:00"})

	if _, err := svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{SessionIDs: ids}); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	resp, err := svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{})
	if err != nil {
		t.Fatalf("空列表 Save 应成功（清空时间表）: %v", err)
	}
	if resp.Saved != 0 {
		t.Errorf("期望 0 条，得到 %d", resp.Saved)
	}
}

// ── ListSessions / GetMy 测试 ──

func TestCalendarService_ListSessions(t *testing.T) {
	svc, mocks := setupTestCalendarService(t)
	seedCourseWithSessions(t, mocks, "COMP1001",
		model.CourseSession{Weekday: 1, StartTime: "09:00", EndTime: "11:00"},
		model.CourseSession{Weekday: 3, StartTime: "14:00", EndTime: "16:00"})

	sessions, err := svc.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions 失败: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("期望 2 条时段，得到 %d", len(sessions))
	}
}

func TestCalendarService_GetMy_EmptyTimetable(t *testing.T) {
	svc, _ := setupTestCalendarService(t)

	my, err := svc.GetMy(context.Background(), "20260001")
	if err != nil {
		t.Fatalf("空时间表 GetMy 应成功: %v", err)
	}
	if len(my.Sessions) != 0 || len(my.Conflicts) != 0 {
		t.Errorf("空时间表应无时段无冲突: %+v", my)
	}
}

// ── 导出测试 ──

func TestCalendarService_ExportExcel(t *testing.T) {
	svc, mocks := setupTestCalendarService(t)
	ids := seedCourseWithSessions(t, mocks, "COMP1001",
		model.CourseSession{Weekday: 1, StartTime: "09:00", EndTime: "11:00", Campus: "Main"})

	svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{SessionIDs: ids})

	buf, filename, err := svc.ExportExcel(context.Background(), "20260001")
	if err != nil {
		t.Fatalf("ExportExcel 失败: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Excel 内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾: %s", filename)
	}
}

func TestCalendarService_ExportExcel_Empty(t *testing.T) {
	svc, _ := setupTestCalendarService(t)

	if _, _, err := svc.ExportExcel(context.Background(), "20260001"); !errors.Is(err, ErrExportEmpty) {
		t.Errorf("空时间表导出期望 ErrExportEmpty，得到: %v", err)
	}
}

func TestCalendarService_ExportICS(t *testing.T) {
	svc, mocks := setupTestCalendarService(t)
	ids := seedCourseWithSessions(t, mocks, "COMP1001",
		model.CourseSession{Weekday: 1, StartTime: "09:00", EndTime: "11:00", Campus: "Main"})

	svc.Save(context.Background(), "20260001", &dto.SaveTimetableRequest{SessionIDs: ids})

	buf, filename, err := svc.ExportICS(context.Background(), "20260001")
	if err != nil {
		t.Fatalf("ExportICS 失败: %v", err)
	}
	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("ICS 内容缺少日历结构")
	}
	if !strings.Contains(content, "COMP1001 (01)") {
		t.Error("ICS 事件应含课程标识")
	}
	if !strings.Contains(content, "FREQ=WEEKLY") {
		t.Error("ICS 事件应含 WEEKLY 重复规则")
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾: %s", filename)
	}
}
