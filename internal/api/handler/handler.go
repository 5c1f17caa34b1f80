package handler

import "github.com/MyFGitAccount/platform-efs/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Course        *CourseHandler
	Calendar      *CalendarHandler
	Group         *GroupHandler
	Questionnaire *QuestionnaireHandler
	Material      *MaterialHandler
	Admin         *AdminHandler
	Dashboard     *DashboardHandler
	Upload        *UploadHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, blobs service.BlobStore) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Profile:       NewProfileHandler(svc.Profile),
		Course:        NewCourseHandler(svc.Course),
		Calendar:      NewCalendarHandler(svc.Calendar),
		Group:         NewGroupHandler(svc.Group),
		Questionnaire: NewQuestionnaireHandler(svc.Questionnaire),
		Material:      NewMaterialHandler(svc.Material),
		Admin:         NewAdminHandler(svc.Admin),
		Dashboard:     NewDashboardHandler(svc.Dashboard),
		Upload:        NewUploadHandler(blobs),
	}
}
