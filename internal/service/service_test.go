package service

import (
	"fmt"
	"physbank_backend/internal/model"
	"physbank_backend/internal/repository"
	"physbank_backend/internal/util"
	"physbank_backend/pkg/database"
	"physbank_backend/pkg/logger"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	logger.InitLogger("debug")
}

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db         *gorm.DB
	users      *repository.UserRepository
	problems   *repository.ProblemRepository
	events     *repository.ScoreEventRepository
	ai         *repository.AIPerformanceRepository
	score      *ScoreService
	review     *ReviewService
	assignment *AssignmentService
	problem    *ProblemService
	user       *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	problems := repository.NewProblemRepository(db)
	events := repository.NewScoreEventRepository(db)
	ai := repository.NewAIPerformanceRepository(db)

	score := NewScoreService(events, users, db, nil)
	return &testEnv{
		db:         db,
		users:      users,
		problems:   problems,
		events:     events,
		ai:         ai,
		score:      score,
		review:     NewReviewService(problems, events, score, db, 5),
		assignment: NewAssignmentService(problems, users, db, nil),
		problem:    NewProblemService(problems, ai, db),
		user:       NewUserService(users),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createProblem(t *testing.T, owner *model.User, tag model.ProblemTag, offererEmail *string) *model.Problem {
	t.Helper()

	problem := &model.Problem{
		Title:            "test problem",
		Content:          "a block slides down an incline",
		Tag:              tag,
		Status:           model.StatusPending,
		TranslatedStatus: model.TranslatedPending,
		Nominated:        "No",
		OffererEmail:     offererEmail,
		UserID:           owner.ID,
	}
	require.NoError(t, e.problems.Create(problem))
	return problem
}

func claimsFor(user *model.User) *util.Claims {
	return &util.Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
	}
}

// assignExaminer 直接写 join 表，把审题人挂到题目上
func (e *testEnv) assignExaminer(t *testing.T, problem *model.Problem, examiner *model.User) {
	t.Helper()
	require.NoError(t, e.db.Model(problem).Association("Examiners").Append(examiner))
}

func (e *testEnv) assignTranslator(t *testing.T, problem *model.Problem, translator *model.User) {
	t.Helper()
	require.NoError(t, e.db.Model(problem).Association("Translators").Append(translator))
}

func (e *testEnv) reloadProblem(t *testing.T, id uint) *model.Problem {
	t.Helper()
	problem, err := e.problems.FindByID(id)
	require.NoError(t, err)
	return problem
}
