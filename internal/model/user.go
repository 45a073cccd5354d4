package model

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:100;not null" json:"username"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'user'" json:"role"`
	// Score 是该用户全部 ScoreEvent 的缓存总和，只由重算任务刷新
	Score float64 `gorm:"default:0" json:"score"`

	Problems          []Problem    `gorm:"foreignKey:UserID" json:"problems,omitempty"`
	ExamineProblems   []*Problem   `gorm:"many2many:problem_examiners" json:"examineProblems,omitempty"`
	TranslateProblems []*Problem   `gorm:"many2many:problem_translators" json:"translateProblems,omitempty"`
	ScoreEvents       []ScoreEvent `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
