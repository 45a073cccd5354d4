package model

type ScoreEventTag string

const (
	EventOffer   ScoreEventTag = "OFFER"
	EventSubmit  ScoreEventTag = "SUBMIT"
	EventExamine ScoreEventTag = "EXAMINE"
	EventDebug   ScoreEventTag = "DEBUG"
	EventPunish  ScoreEventTag = "PUNISH"
)

func (t ScoreEventTag) Valid() bool {
	switch t {
	case EventOffer, EventSubmit, EventExamine, EventDebug, EventPunish:
		return true
	}
	return false
}

// ScoreEvent 积分台账：用户总分以此为准。
// tag=EXAMINE 的事件同时承载该审题人对题目的个人意见（problem_* 影子字段），
// (user_id, problem_id, tag) 唯一索引保证同一题同一人至多一张选票，
// 并发首开选票依赖该索引而不是应用层加锁。
// swagger:model ScoreEvent
type ScoreEvent struct {
	BaseModel
	Tag       ScoreEventTag `gorm:"size:10;not null;uniqueIndex:idx_event_user_problem_tag" json:"tag"`
	UserID    uint          `gorm:"not null;uniqueIndex:idx_event_user_problem_tag" json:"userId"`
	ProblemID *uint         `gorm:"uniqueIndex:idx_event_user_problem_tag" json:"problemId"`
	Score     float64       `gorm:"default:0" json:"score"`

	// 仅 tag=EXAMINE 时有意义
	ProblemStatus    *ProblemStatus `gorm:"size:20" json:"problemStatus"`
	ProblemScore     *float64       `json:"problemScore"`
	ProblemRemark    *string        `gorm:"type:text" json:"problemRemark"`
	ProblemNominated *string        `gorm:"size:3" json:"problemNominated"`
}

func (ScoreEvent) TableName() string {
	return "score_events"
}
