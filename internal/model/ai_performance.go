package model

type AIPerformanceTag string

const (
	AISubmitted  AIPerformanceTag = "SUBMITTED"
	AIEvaluation AIPerformanceTag = "EVALUATION"
)

// AIPerformance 记录某个 AI 模型对题目的一次作答，独立于审核流程。
// SUBMITTED 为投题人随题提交的对话记录，EVALUATION 为管理员后补的评测记录。
// swagger:model AIPerformance
type AIPerformance struct {
	BaseModel
	ProblemID  uint             `gorm:"index;not null" json:"problemId"`
	AIName     string           `gorm:"size:100;not null" json:"aiName"`
	AISolution string           `gorm:"type:text" json:"aiSolution"`
	AIAnswer   string           `gorm:"type:text" json:"aiAnswer"`
	IsCorrect  bool             `gorm:"default:false" json:"isCorrect"`
	Comment    string           `gorm:"type:text" json:"comment"`
	Tag        AIPerformanceTag `gorm:"size:12;default:'SUBMITTED'" json:"tag"`
}

func (AIPerformance) TableName() string {
	return "ai_performances"
}
