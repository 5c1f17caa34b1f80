package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User           UserRepository
	PendingAccount PendingAccountRepository
	Course         CourseRepository
	PendingCourse  PendingCourseRepository
	GroupRequest   GroupRequestRepository
	Questionnaire  QuestionnaireRepository
	Material       MaterialRepository
	Timetable      TimetableRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:           NewUserRepo(db),
		PendingAccount: NewPendingAccountRepo(db),
		Course:         NewCourseRepo(db),
		PendingCourse:  NewPendingCourseRepo(db),
		GroupRequest:   NewGroupRequestRepo(db),
		Questionnaire:  NewQuestionnaireRepo(db),
		Material:       NewMaterialRepo(db),
		Timetable:      NewTimetableRepo(db),
	}
}
