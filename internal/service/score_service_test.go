package service

import (
	"physbank_backend/internal/model"
	"physbank_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCredit(t *testing.T) {
	submit, offer := SplitCredit(10, false)
	assert.Equal(t, 10.0, submit)
	assert.Equal(t, 0.0, offer)

	submit, offer = SplitCredit(10, true)
	assert.Equal(t, 5.0, submit)
	assert.Equal(t, 5.0, offer)

	// 奇数分对半不丢精度
	submit, offer = SplitCredit(7, true)
	assert.Equal(t, 3.5, submit)
	assert.Equal(t, 3.5, offer)
}

func TestRecomputeUserScoreSumsAllEvents(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", model.RoleUser)

	for _, score := range []float64{3, -1, 5} {
		_, err := env.score.CreateEvent(CreateEventRequest{
			UserID: user.ID,
			Score:  score,
			Tag:    model.EventDebug,
		})
		require.NoError(t, err)
	}

	// 台账追加不顺手刷新缓存
	fresh, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fresh.Score)

	updated, err := env.score.RecomputeUserScore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, updated.Score)

	fresh, err = env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, fresh.Score)
}

func TestRecomputeUserScoreUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.score.RecomputeUserScore(4242)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestSubmitBallotSplitsCreditWithOfferer(t *testing.T) {
	env := newTestEnv(t)
	submitter := env.createUser(t, "submitter", model.RoleUser)
	offerer := env.createUser(t, "offerer", model.RoleUser)
	examiner := env.createUser(t, "examiner", model.RoleUser)

	problem := env.createProblem(t, submitter, model.TagMechanics, &offerer.Email)
	env.assignExaminer(t, problem, examiner)

	_, err := env.review.GetOrCreateBallot(claimsFor(examiner), problem.ID)
	require.NoError(t, err)
	require.NoError(t, env.review.SubmitBallot(claimsFor(examiner), problem.ID, SubmitBallotRequest{
		Status: model.StatusApproved,
		Score:  "10",
	}))

	submitEv, err := env.events.FindByUserProblemTag(submitter.ID, problem.ID, model.EventSubmit)
	require.NoError(t, err)
	assert.Equal(t, 5.0, submitEv.Score)

	offerEv, err := env.events.FindByUserProblemTag(offerer.ID, problem.ID, model.EventOffer)
	require.NoError(t, err)
	assert.Equal(t, 5.0, offerEv.Score)
}

func TestSubmitBallotFullCreditWithoutOfferer(t *testing.T) {
	env := newTestEnv(t)
	submitter := env.createUser(t, "submitter", model.RoleUser)
	examiner := env.createUser(t, "examiner", model.RoleUser)

	problem := env.createProblem(t, submitter, model.TagMechanics, nil)
	env.assignExaminer(t, problem, examiner)

	_, err := env.review.GetOrCreateBallot(claimsFor(examiner), problem.ID)
	require.NoError(t, err)
	require.NoError(t, env.review.SubmitBallot(claimsFor(examiner), problem.ID, SubmitBallotRequest{
		Status: model.StatusApproved,
		Score:  "10",
	}))

	submitEv, err := env.events.FindByUserProblemTag(submitter.ID, problem.ID, model.EventSubmit)
	require.NoError(t, err)
	assert.Equal(t, 10.0, submitEv.Score)

	var offerCount int64
	require.NoError(t, env.db.Model(&model.ScoreEvent{}).
		Where("tag = ?", model.EventOffer).Count(&offerCount).Error)
	assert.Equal(t, int64(0), offerCount)
}

func TestResubmitOverwritesCreditInPlace(t *testing.T) {
	env := newTestEnv(t)
	submitter := env.createUser(t, "submitter", model.RoleUser)
	examiner := env.createUser(t, "examiner", model.RoleUser)

	problem := env.createProblem(t, submitter, model.TagMechanics, nil)
	env.assignExaminer(t, problem, examiner)

	_, err := env.review.GetOrCreateBallot(claimsFor(examiner), problem.ID)
	require.NoError(t, err)
	require.NoError(t, env.review.SubmitBallot(claimsFor(examiner), problem.ID, SubmitBallotRequest{
		Status: model.StatusApproved,
		Score:  "10",
	}))
	require.NoError(t, env.review.SubmitBallot(claimsFor(examiner), problem.ID, SubmitBallotRequest{
		Status: model.StatusApproved,
		Score:  "4",
	}))

	// 覆盖而不是追加
	var count int64
	require.NoError(t, env.db.Model(&model.ScoreEvent{}).
		Where("tag = ? AND user_id = ?", model.EventSubmit, submitter.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	submitEv, err := env.events.FindByUserProblemTag(submitter.ID, problem.ID, model.EventSubmit)
	require.NoError(t, err)
	assert.Equal(t, 4.0, submitEv.Score)
}

func TestSetExamineRewardOnlyTouchesExamineEvents(t *testing.T) {
	env := newTestEnv(t)
	submitter := env.createUser(t, "submitter", model.RoleUser)
	examiner := env.createUser(t, "examiner", model.RoleUser)

	problem := env.createProblem(t, submitter, model.TagMechanics, nil)
	env.assignExaminer(t, problem, examiner)

	_, err := env.review.GetOrCreateBallot(claimsFor(examiner), problem.ID)
	require.NoError(t, err)
	require.NoError(t, env.review.SubmitBallot(claimsFor(examiner), problem.ID, SubmitBallotRequest{
		Status: model.StatusApproved,
		Score:  "10",
	}))

	affected, err := env.score.SetExamineReward(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	examineEv, err := env.events.FindByUserProblemTag(examiner.ID, problem.ID, model.EventExamine)
	require.NoError(t, err)
	assert.Equal(t, 2.0, examineEv.Score)

	submitEv, err := env.events.FindByUserProblemTag(submitter.ID, problem.ID, model.EventSubmit)
	require.NoError(t, err)
	assert.Equal(t, 10.0, submitEv.Score)
}

func TestCreateEventValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", model.RoleUser)

	_, err := env.score.CreateEvent(CreateEventRequest{UserID: user.ID, Tag: "BOGUS"})
	assert.True(t, util.IsValidation(err))

	_, err = env.score.CreateEvent(CreateEventRequest{UserID: 9999, Tag: model.EventPunish})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	event, err := env.score.CreateEvent(CreateEventRequest{
		UserID: user.ID,
		Score:  -3,
		Tag:    model.EventPunish,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EventPunish, event.Tag)
	assert.Nil(t, event.ProblemID)
}

func TestRecomputeAllScores(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)

	_, err := env.score.CreateEvent(CreateEventRequest{UserID: alice.ID, Score: 4, Tag: model.EventDebug})
	require.NoError(t, err)
	_, err = env.score.CreateEvent(CreateEventRequest{UserID: bob.ID, Score: 6, Tag: model.EventDebug})
	require.NoError(t, err)

	updated, err := env.score.RecomputeAllScores()
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	for _, want := range []struct {
		id    uint
		score float64
	}{{alice.ID, 4}, {bob.ID, 6}} {
		user, err := env.users.FindByID(want.id)
		require.NoError(t, err)
		assert.Equal(t, want.score, user.Score)
	}
}

func TestClearEvents(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", model.RoleUser)

	_, err := env.score.CreateEvent(CreateEventRequest{UserID: user.ID, Score: 4, Tag: model.EventDebug})
	require.NoError(t, err)
	require.NoError(t, env.score.ClearEvents())

	events, err := env.score.ListUserEvents(user.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	// 清空后重算把缓存归零
	updated, err := env.score.RecomputeUserScore(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Score)
}

func TestBallotLifecycleSurvivesClearEvents(t *testing.T) {
	env := newTestEnv(t)
	submitter := env.createUser(t, "submitter", model.RoleUser)
	examiner := env.createUser(t, "examiner", model.RoleUser)

	problem := env.createProblem(t, submitter, model.TagMechanics, nil)
	env.assignExaminer(t, problem, examiner)

	_, err := env.review.GetOrCreateBallot(claimsFor(examiner), problem.ID)
	require.NoError(t, err)
	require.NoError(t, env.review.SubmitBallot(claimsFor(examiner), problem.ID, SubmitBallotRequest{
		Status: model.StatusApproved,
		Score:  "8",
	}))

	require.NoError(t, env.score.ClearEvents())

	// 清空后同一人重开同一题：旧行必须真正让出唯一索引
	view, err := env.review.GetOrCreateBallot(claimsFor(examiner), problem.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ExaminerNo)
	assert.Equal(t, model.StatusApproved, view.ExaminerAssignedStatus)

	// 再次提交要能重建 SUBMIT 积分事件
	require.NoError(t, env.review.SubmitBallot(claimsFor(examiner), problem.ID, SubmitBallotRequest{
		Status: model.StatusApproved,
		Score:  "6",
	}))
	submitEv, err := env.events.FindByUserProblemTag(submitter.ID, problem.ID, model.EventSubmit)
	require.NoError(t, err)
	assert.Equal(t, 6.0, submitEv.Score)
}
