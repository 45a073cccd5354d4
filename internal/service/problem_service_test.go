package service

import (
	"physbank_backend/internal/model"
	"physbank_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateProblemDefaults(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)

	problem, err := env.problem.Create(owner.ID, ProblemRequest{
		Title:   "pendulum",
		Content: "a pendulum of length L",
		Variables: []ProblemVariableRequest{
			{Name: "L", LowerBound: 0.5, UpperBound: 2},
		},
		AIPerformances: []AIPerformanceRequest{
			{AIName: "gpt-4", AIAnswer: "T=2pi sqrt(L/g)", IsCorrect: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.TagOther, problem.Tag)
	assert.Equal(t, model.StatusPending, problem.Status)
	assert.Equal(t, model.TranslatedPending, problem.TranslatedStatus)
	assert.Nil(t, problem.Score)
	require.Len(t, problem.Variables, 1)
	require.Len(t, problem.AIPerformances, 1)
	assert.Equal(t, model.AISubmitted, problem.AIPerformances[0].Tag)
}

func TestCreateProblemValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)

	_, err := env.problem.Create(owner.ID, ProblemRequest{
		Title: "t", Content: "c", Tag: "ASTROLOGY",
	})
	assert.True(t, util.IsValidation(err))

	_, err = env.problem.Create(owner.ID, ProblemRequest{
		Title: "t", Content: "c",
		Variables: []ProblemVariableRequest{
			{Name: "m", LowerBound: 5, UpperBound: 1},
		},
	})
	assert.True(t, util.IsValidation(err))
}

func TestGetProblemVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)
	examiner := env.createUser(t, "examiner", model.RoleUser)
	stranger := env.createUser(t, "stranger", model.RoleUser)
	admin := env.createUser(t, "admin", model.RoleAdmin)

	problem := env.createProblem(t, owner, model.TagMechanics, nil)
	env.assignExaminer(t, problem, examiner)

	for _, viewer := range []*model.User{owner, examiner, admin} {
		_, err := env.problem.Get(claimsFor(viewer), problem.ID)
		assert.NoError(t, err, viewer.Username)
	}

	_, err := env.problem.Get(claimsFor(stranger), problem.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.problem.Get(claimsFor(admin), 9999)
	assert.ErrorIs(t, err, util.ErrProblemNotFound)
}

func TestEditProblemResetsStatusAndReplacesChildren(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)

	problem, err := env.problem.Create(owner.ID, ProblemRequest{
		Title: "old", Content: "old body", Tag: model.TagMechanics,
		Variables: []ProblemVariableRequest{
			{Name: "a", UpperBound: 1},
			{Name: "b", UpperBound: 2},
		},
	})
	require.NoError(t, err)
	require.NoError(t, env.db.Model(problem).Update("status", model.StatusApproved).Error)

	edited, err := env.problem.Edit(claimsFor(owner), problem.ID, ProblemRequest{
		Title: "new", Content: "new body", Tag: model.TagOptics,
		Variables: []ProblemVariableRequest{
			{Name: "c", UpperBound: 3},
		},
	})
	require.NoError(t, err)

	// 编辑后回到待审，子集合整体换新
	assert.Equal(t, model.StatusPending, edited.Status)
	assert.Equal(t, "new", edited.Title)
	assert.Equal(t, model.TagOptics, edited.Tag)
	require.Len(t, edited.Variables, 1)
	assert.Equal(t, "c", edited.Variables[0].Name)
}

func TestEditProblemForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)
	stranger := env.createUser(t, "stranger", model.RoleUser)
	problem := env.createProblem(t, owner, model.TagMechanics, nil)

	_, err := env.problem.Edit(claimsFor(stranger), problem.ID, ProblemRequest{
		Title: "x", Content: "y",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestDeleteProblemCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)
	examiner := env.createUser(t, "examiner", model.RoleUser)

	problem, err := env.problem.Create(owner.ID, ProblemRequest{
		Title: "t", Content: "c", Tag: model.TagMechanics,
		Variables: []ProblemVariableRequest{{Name: "v", UpperBound: 1}},
	})
	require.NoError(t, err)
	env.assignExaminer(t, problem, examiner)

	require.NoError(t, env.problem.Delete(claimsFor(owner), problem.ID))

	_, err = env.problems.FindByID(problem.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var varCount int64
	require.NoError(t, env.db.Model(&model.ProblemVariable{}).
		Where("problem_id = ?", problem.ID).Count(&varCount).Error)
	assert.Equal(t, int64(0), varCount)

	assigned, err := env.assignment.ListAssigned(AxisExamine, examiner.ID)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestSetTranslationRequiresAssignment(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)
	translator := env.createUser(t, "translator", model.RoleUser)
	problem := env.createProblem(t, owner, model.TagMechanics, nil)

	err := env.problem.SetTranslation(claimsFor(translator), problem.ID, "译文")
	assert.ErrorIs(t, err, util.ErrNotAssigned)

	env.assignTranslator(t, problem, translator)
	require.NoError(t, env.problem.SetTranslation(claimsFor(translator), problem.ID, "译文"))

	fresh := env.reloadProblem(t, problem.ID)
	assert.Equal(t, "译文", fresh.Translation)
	// 译文更新不动翻译轴状态
	assert.Equal(t, model.TranslatedPending, fresh.TranslatedStatus)
}

func TestAddEvaluation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.RoleUser)
	problem := env.createProblem(t, owner, model.TagMechanics, nil)

	perf, err := env.problem.AddEvaluation(problem.ID, AIPerformanceRequest{
		AIName: "gemini", AIAnswer: "42", IsCorrect: false, Comment: "wrong sign",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AIEvaluation, perf.Tag)

	perfs, err := env.problem.ListAIPerformances(problem.ID)
	require.NoError(t, err)
	assert.Len(t, perfs, 1)

	_, err = env.problem.AddEvaluation(9999, AIPerformanceRequest{AIName: "gemini"})
	assert.ErrorIs(t, err, util.ErrProblemNotFound)
}
