package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"github.com/MyFGitAccount/platform-efs/internal/model"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
	"github.com/MyFGitAccount/platform-efs/pkg/blobstore"
	pkgerrors "github.com/MyFGitAccount/platform-efs/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User

	// 在 AddCredits 执行前调用，用于模拟并发写
	addCreditsHook func()
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.SID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.SID] = user
	return nil
}

func (m *mockUserRepo) GetBySID(_ context.Context, sid string) (*model.User, error) {
	if u, ok := m.users[sid]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsBySIDOrEmail(_ context.Context, sid, email string) (bool, error) {
	for _, u := range m.users {
		if u.SID == sid || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.SID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	m.users[user.SID] = &copied
	return nil
}

func (m *mockUserRepo) UpdateFields(_ context.Context, sid string, fields map[string]interface{}) error {
	if _, ok := m.users[sid]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, sid string) error {
	if _, ok := m.users[sid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, sid)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) AddCredits(_ context.Context, sid string, delta int) error {
	if m.addCreditsHook != nil {
		m.addCreditsHook()
	}
	u, ok := m.users[sid]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Credits += delta
	return nil
}

// ── Mock PendingAccountRepository ──

type mockPendingAccountRepo struct {
	accounts map[string]*model.PendingAccount
	users    *mockUserRepo
}

func newMockPendingAccountRepo(users *mockUserRepo) *mockPendingAccountRepo {
	return &mockPendingAccountRepo{
		accounts: make(map[string]*model.PendingAccount),
		users:    users,
	}
}

func (m *mockPendingAccountRepo) Create(_ context.Context, account *model.PendingAccount) error {
	if _, ok := m.accounts[account.SID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	m.accounts[account.SID] = account
	return nil
}

func (m *mockPendingAccountRepo) GetBySID(_ context.Context, sid string) (*model.PendingAccount, error) {
	if a, ok := m.accounts[sid]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPendingAccountRepo) ExistsBySIDOrEmail(_ context.Context, sid, email string) (bool, error) {
	for _, a := range m.accounts {
		if a.SID == sid || a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPendingAccountRepo) List(_ context.Context) ([]model.PendingAccount, error) {
	var result []model.PendingAccount
	for _, a := range m.accounts {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockPendingAccountRepo) Delete(_ context.Context, sid string) error {
	if _, ok := m.accounts[sid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.accounts, sid)
	return nil
}

func (m *mockPendingAccountRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.accounts)), nil
}

func (m *mockPendingAccountRepo) Promote(ctx context.Context, sid string, build func(*model.PendingAccount) *model.User) (*model.User, error) {
	account, ok := m.accounts[sid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := build(account)
	if err := m.users.Create(ctx, user); err != nil {
		return nil, err
	}
	delete(m.accounts, sid)
	return user, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses   map[string]*model.Course
	materials *mockMaterialRepo
	nextID    int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) assignIDs(course *model.Course) {
	for i := range course.Sessions {
		if course.Sessions[i].SessionID == "" {
			m.nextID++
			course.Sessions[i].SessionID = fmt.Sprintf("sess-%d", m.nextID)
		}
	}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if _, ok := m.courses[course.Code]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.assignIDs(course)
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	m.courses[course.Code] = course
	return nil
}

func (m *mockCourseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	c, ok := m.courses[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	if m.materials != nil {
		copied.Materials, _ = m.materials.ListByCourse(ctx, code)
	}
	return &copied, nil
}

func (m *mockCourseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := m.courses[code]
	return ok, nil
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	existing, ok := m.courses[course.Code]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sessions := existing.Sessions
	copied := *course
	if copied.Sessions == nil {
		copied.Sessions = sessions
	}
	m.courses[course.Code] = &copied
	return nil
}

func (m *mockCourseRepo) ReplaceSessions(_ context.Context, code string, sessions []model.CourseSession) error {
	c, ok := m.courses[code]
	if !ok {
		c = &model.Course{Code: code}
		m.courses[code] = c
	}
	c.Sessions = sessions
	m.assignIDs(c)
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, code string) error {
	if _, ok := m.courses[code]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, code)
	return nil
}

func (m *mockCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.courses)), nil
}

func (m *mockCourseRepo) ListAllSessions(_ context.Context) ([]model.CourseSession, error) {
	var result []model.CourseSession
	for _, c := range m.courses {
		result = append(result, c.Sessions...)
	}
	return result, nil
}

func (m *mockCourseRepo) GetSessionsByIDs(_ context.Context, ids []string) ([]model.CourseSession, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var result []model.CourseSession
	for _, c := range m.courses {
		for _, sess := range c.Sessions {
			if want[sess.SessionID] {
				result = append(result, sess)
			}
		}
	}
	return result, nil
}

// ── Mock PendingCourseRepository ──

type mockPendingCourseRepo struct {
	pendings map[string]*model.PendingCourse
	courses  *mockCourseRepo
}

func newMockPendingCourseRepo(courses *mockCourseRepo) *mockPendingCourseRepo {
	return &mockPendingCourseRepo{
		pendings: make(map[string]*model.PendingCourse),
		courses:  courses,
	}
}

func (m *mockPendingCourseRepo) Create(_ context.Context, pending *model.PendingCourse) error {
	if _, ok := m.pendings[pending.Code]; ok {
		return gorm.ErrDuplicatedKey
	}
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now()
	}
	m.pendings[pending.Code] = pending
	return nil
}

func (m *mockPendingCourseRepo) GetByCode(_ context.Context, code string) (*model.PendingCourse, error) {
	if p, ok := m.pendings[code]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPendingCourseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := m.pendings[code]
	return ok, nil
}

func (m *mockPendingCourseRepo) List(_ context.Context) ([]model.PendingCourse, error) {
	var result []model.PendingCourse
	for _, p := range m.pendings {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPendingCourseRepo) Delete(_ context.Context, code string) error {
	if _, ok := m.pendings[code]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.pendings, code)
	return nil
}

func (m *mockPendingCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.pendings)), nil
}

func (m *mockPendingCourseRepo) Promote(ctx context.Context, code string, build func(*model.PendingCourse) *model.Course) (*model.Course, error) {
	pending, ok := m.pendings[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	course := build(pending)
	if err := m.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	delete(m.pendings, code)
	return course, nil
}

// ── Mock GroupRequestRepository ──

type mockGroupRequestRepo struct {
	requests map[string]*model.GroupRequest
	nextID   int
}

func newMockGroupRequestRepo() *mockGroupRequestRepo {
	return &mockGroupRequestRepo{requests: make(map[string]*model.GroupRequest)}
}

func (m *mockGroupRequestRepo) Create(_ context.Context, request *model.GroupRequest) error {
	for _, r := range m.requests {
		if r.SID == request.SID && r.Status == model.GroupRequestActive {
			return pkgerrors.ErrDuplicateActiveRequest
		}
	}
	if request.RequestID == "" {
		m.nextID++
		request.RequestID = fmt.Sprintf("req-%d", m.nextID)
	}
	if request.Status == "" {
		request.Status = model.GroupRequestActive
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	m.requests[request.RequestID] = request
	return nil
}

func (m *mockGroupRequestRepo) GetByID(_ context.Context, requestID string) (*model.GroupRequest, error) {
	if r, ok := m.requests[requestID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRequestRepo) GetActiveBySID(_ context.Context, sid string) (*model.GroupRequest, error) {
	for _, r := range m.requests {
		if r.SID == sid && r.Status == model.GroupRequestActive {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRequestRepo) ListActive(_ context.Context) ([]model.GroupRequest, error) {
	var result []model.GroupRequest
	for _, r := range m.requests {
		if r.Status == model.GroupRequestActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockGroupRequestRepo) Cancel(_ context.Context, sid string) error {
	for _, r := range m.requests {
		if r.SID == sid && r.Status == model.GroupRequestActive {
			r.Status = model.GroupRequestCancelled
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGroupRequestRepo) Count(_ context.Context) (int64, error) {
	var n int64
	for _, r := range m.requests {
		if r.Status == model.GroupRequestActive {
			n++
		}
	}
	return n, nil
}

// ── Mock QuestionnaireRepository ──

type mockQuestionnaireRepo struct {
	questionnaires map[string]*model.Questionnaire
	fills          map[string]bool // "qid:sid"
	users          *mockUserRepo
	nextID         int
}

func newMockQuestionnaireRepo(users *mockUserRepo) *mockQuestionnaireRepo {
	return &mockQuestionnaireRepo{
		questionnaires: make(map[string]*model.Questionnaire),
		fills:          make(map[string]bool),
		users:          users,
	}
}

func (m *mockQuestionnaireRepo) CreateWithDebit(_ context.Context, q *model.Questionnaire) error {
	creator, ok := m.users.users[q.CreatorSID]
	if !ok || creator.Credits < model.QuestionnaireCost {
		return pkgerrors.ErrInsufficientCredits
	}
	creator.Credits -= model.QuestionnaireCost

	if q.QuestionnaireID == "" {
		m.nextID++
		q.QuestionnaireID = fmt.Sprintf("qn-%d", m.nextID)
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	m.questionnaires[q.QuestionnaireID] = q
	return nil
}

func (m *mockQuestionnaireRepo) Fill(_ context.Context, questionnaireID, fillerSID string) (*model.Questionnaire, int, error) {
	q, ok := m.questionnaires[questionnaireID]
	if !ok {
		return nil, 0, gorm.ErrRecordNotFound
	}
	if q.CreatorSID == fillerSID {
		return nil, 0, pkgerrors.ErrOwnQuestionnaire
	}
	if q.CurrentResponses >= q.TargetResponses {
		return nil, 0, pkgerrors.ErrQuestionnaireClosed
	}
	key := questionnaireID + ":" + fillerSID
	if m.fills[key] {
		return nil, 0, pkgerrors.ErrDuplicateFill
	}

	filler, ok := m.users.users[fillerSID]
	if !ok {
		return nil, 0, gorm.ErrRecordNotFound
	}

	m.fills[key] = true
	q.CurrentResponses++
	filler.Credits += model.FillReward

	copied := *q
	return &copied, filler.Credits, nil
}

func (m *mockQuestionnaireRepo) GetByID(_ context.Context, questionnaireID string) (*model.Questionnaire, error) {
	if q, ok := m.questionnaires[questionnaireID]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuestionnaireRepo) ListFillable(_ context.Context, sid string) ([]model.Questionnaire, error) {
	var result []model.Questionnaire
	for _, q := range m.questionnaires {
		if q.CreatorSID == sid {
			continue
		}
		if q.CurrentResponses >= q.TargetResponses {
			continue
		}
		if m.fills[q.QuestionnaireID+":"+sid] {
			continue
		}
		result = append(result, *q)
	}
	return result, nil
}

func (m *mockQuestionnaireRepo) ListByCreator(_ context.Context, sid string) ([]model.Questionnaire, error) {
	var result []model.Questionnaire
	for _, q := range m.questionnaires {
		if q.CreatorSID == sid {
			result = append(result, *q)
		}
	}
	return result, nil
}

func (m *mockQuestionnaireRepo) Delete(_ context.Context, questionnaireID string) error {
	if _, ok := m.questionnaires[questionnaireID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.questionnaires, questionnaireID)
	return nil
}

func (m *mockQuestionnaireRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.questionnaires)), nil
}

func (m *mockQuestionnaireRepo) CountOpen(_ context.Context) (int64, error) {
	var n int64
	for _, q := range m.questionnaires {
		if q.CurrentResponses < q.TargetResponses {
			n++
		}
	}
	return n, nil
}

func (m *mockQuestionnaireRepo) CountFillsBySID(_ context.Context, sid string) (int64, error) {
	var n int64
	suffix := ":" + sid
	for key := range m.fills {
		if len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			n++
		}
	}
	return n, nil
}

// ── Mock MaterialRepository ──

type mockMaterialRepo struct {
	materials map[string]*model.Material
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{materials: make(map[string]*model.Material)}
}

func (m *mockMaterialRepo) Create(_ context.Context, material *model.Material) error {
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now()
	}
	m.materials[material.MaterialID] = material
	return nil
}

func (m *mockMaterialRepo) GetByID(_ context.Context, materialID string) (*model.Material, error) {
	if mat, ok := m.materials[materialID]; ok {
		copied := *mat
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaterialRepo) ListByCourse(_ context.Context, courseCode string) ([]model.Material, error) {
	var result []model.Material
	for _, mat := range m.materials {
		if mat.CourseCode == courseCode {
			result = append(result, *mat)
		}
	}
	return result, nil
}

func (m *mockMaterialRepo) IncrementDownloads(_ context.Context, materialID string) error {
	mat, ok := m.materials[materialID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	mat.Downloads++
	return nil
}

func (m *mockMaterialRepo) Delete(_ context.Context, materialID string) error {
	if _, ok := m.materials[materialID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.materials, materialID)
	return nil
}

func (m *mockMaterialRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.materials)), nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	selections map[string][]string // sid → session IDs
	courses    *mockCourseRepo
}

func newMockTimetableRepo(courses *mockCourseRepo) *mockTimetableRepo {
	return &mockTimetableRepo{
		selections: make(map[string][]string),
		courses:    courses,
	}
}

func (m *mockTimetableRepo) ReplaceBySID(_ context.Context, sid string, sessionIDs []string) error {
	m.selections[sid] = append([]string(nil), sessionIDs...)
	return nil
}

func (m *mockTimetableRepo) ListBySID(ctx context.Context, sid string) ([]model.TimetableSelection, error) {
	ids := m.selections[sid]
	sessions, err := m.courses.GetSessionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.CourseSession, len(sessions))
	for i := range sessions {
		byID[sessions[i].SessionID] = &sessions[i]
	}

	var result []model.TimetableSelection
	for _, id := range ids {
		result = append(result, model.TimetableSelection{
			SID:       sid,
			SessionID: id,
			Session:   byID[id],
		})
	}
	return result, nil
}

func (m *mockTimetableRepo) CountBySID(_ context.Context, sid string) (int64, error) {
	return int64(len(m.selections[sid])), nil
}

// ── Mock BlobStore ──

type mockBlobStore struct {
	files  map[string][]byte
	metas  map[string]blobstore.Metadata
	nextID int
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{
		files: make(map[string][]byte),
		metas: make(map[string]blobstore.Metadata),
	}
}

func (m *mockBlobStore) Upload(_ context.Context, filename string, data []byte, meta blobstore.Metadata) (string, error) {
	m.nextID++
	id := fmt.Sprintf("file-%d", m.nextID)
	m.files[id] = append([]byte(nil), data...)
	m.metas[id] = meta
	return id, nil
}

func (m *mockBlobStore) Download(_ context.Context, fileID string) ([]byte, error) {
	data, ok := m.files[fileID]
	if !ok {
		return nil, blobstore.ErrFileNotFound
	}
	return data, nil
}

func (m *mockBlobStore) StreamTo(_ context.Context, fileID string, w io.Writer) (int64, error) {
	data, ok := m.files[fileID]
	if !ok {
		return 0, blobstore.ErrFileNotFound
	}
	n, err := io.Copy(w, bytes.NewReader(data))
	return n, err
}

func (m *mockBlobStore) Delete(_ context.Context, fileID string) error {
	if _, ok := m.files[fileID]; !ok {
		return blobstore.ErrFileNotFound
	}
	delete(m.files, fileID)
	delete(m.metas, fileID)
	return nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	tokens map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{tokens: make(map[string]bool)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.tokens[jti] = true
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.tokens[jti], nil
}

// ── 测试用 Repository 聚合 ──

type testMocks struct {
	users          *mockUserRepo
	pendingAccount *mockPendingAccountRepo
	courses        *mockCourseRepo
	pendingCourse  *mockPendingCourseRepo
	groupRequests  *mockGroupRequestRepo
	questionnaires *mockQuestionnaireRepo
	materials      *mockMaterialRepo
	timetable      *mockTimetableRepo
	blobs          *mockBlobStore
}

func newTestMocks() (*repository.Repository, *testMocks) {
	users := newMockUserRepo()
	courses := newMockCourseRepo()
	materials := newMockMaterialRepo()
	courses.materials = materials

	m := &testMocks{
		users:          users,
		pendingAccount: newMockPendingAccountRepo(users),
		courses:        courses,
		pendingCourse:  newMockPendingCourseRepo(courses),
		groupRequests:  newMockGroupRequestRepo(),
		questionnaires: newMockQuestionnaireRepo(users),
		materials:      materials,
		timetable:      newMockTimetableRepo(courses),
		blobs:          newMockBlobStore(),
	}
	repo := &repository.Repository{
		User:           m.users,
		PendingAccount: m.pendingAccount,
		Course:         m.courses,
		PendingCourse:  m.pendingCourse,
		GroupRequest:   m.groupRequests,
		Questionnaire:  m.questionnaires,
		Material:       m.materials,
		Timetable:      m.timetable,
	}
	return repo, m
}
