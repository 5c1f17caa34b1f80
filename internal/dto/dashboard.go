package dto

// DashboardSummaryResponse 学生首页概览
type DashboardSummaryResponse struct {
	Credits            int               `json:"credits"`
	SelectedSessions   int               `json:"selected_sessions"`
	Conflicts          []SessionConflict `json:"conflicts"`
	ActiveGroupRequest bool              `json:"active_group_request"`
	OpenQuestionnaires int64             `json:"open_questionnaires"`
}
