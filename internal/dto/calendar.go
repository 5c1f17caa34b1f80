package dto

// ── 时间表模块 DTO ──

// SelectedSession 冲突检测的输入：一条已选课程时段
type SelectedSession struct {
	ID        string `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Code      string `json:"code"`
	ClassNo   string `json:"classNo"`
	Campus    string `json:"campus"`
}

// SessionConflict 一对时段的冲突记录（派生数据，不持久化）
type SessionConflict struct {
	Course1 string `json:"course1"` // "CODE (classNo)"
	Course2 string `json:"course2"`
	Day     string `json:"day"`  // 周几名称
	Time    string `json:"time"` // 第一个时段的时间窗口
	Campus1 string `json:"campus1"`
	Campus2 string `json:"campus2"`
}

// SaveTimetableRequest 保存时间表请求（整表替换）
type SaveTimetableRequest struct {
	SessionIDs []string `json:"session_ids" binding:"omitempty,dive,uuid"`
}

// SaveTimetableResponse 保存结果与即时冲突回报
type SaveTimetableResponse struct {
	Saved     int               `json:"saved"`
	Conflicts []SessionConflict `json:"conflicts"`
}

// MyTimetableResponse 我的时间表
type MyTimetableResponse struct {
	Sessions  []SelectedSession `json:"sessions"`
	Conflicts []SessionConflict `json:"conflicts"`
}
