package model

type ProblemTag string

const (
	TagMechanics      ProblemTag = "MECHANICS"
	TagElectricity    ProblemTag = "ELECTRICITY"
	TagThermodynamics ProblemTag = "THERMODYNAMICS"
	TagOptics         ProblemTag = "OPTICS"
	TagModern         ProblemTag = "MODERN"
	TagAdvanced       ProblemTag = "ADVANCED"
	TagOther          ProblemTag = "OTHER"
)

// AssignableTags 可分配审题/翻译的六个分类（OTHER 不参与分配）
var AssignableTags = []ProblemTag{
	TagMechanics,
	TagElectricity,
	TagThermodynamics,
	TagOptics,
	TagModern,
	TagAdvanced,
}

type ProblemStatus string

const (
	StatusPending  ProblemStatus = "PENDING"
	StatusReturned ProblemStatus = "RETURNED"
	StatusApproved ProblemStatus = "APPROVED"
	StatusRejected ProblemStatus = "REJECTED"
	StatusArchived ProblemStatus = "ARCHIVED"
)

func (s ProblemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReturned, StatusApproved, StatusRejected, StatusArchived:
		return true
	}
	return false
}

type TranslatedStatus string

const (
	TranslatedPending  TranslatedStatus = "PENDING"
	TranslatedArchived TranslatedStatus = "ARCHIVED"
)

func (s TranslatedStatus) Valid() bool {
	return s == TranslatedPending || s == TranslatedArchived
}

// swagger:model Problem
type Problem struct {
	BaseModel
	Title   string     `gorm:"size:255;not null" json:"title"`
	Content string     `gorm:"type:text" json:"content"`
	Tag     ProblemTag `gorm:"size:20;index;default:'OTHER'" json:"tag"`

	// 审核轴与翻译轴相互独立
	Status           ProblemStatus    `gorm:"size:20;index;default:'PENDING'" json:"status"`
	TranslatedStatus TranslatedStatus `gorm:"size:20;index;default:'PENDING'" json:"translatedStatus"`
	Translation      string           `gorm:"type:text" json:"translation"`

	// 审核结论（权威字段），Score 在审核前为空
	Score     *float64 `json:"score"`
	Remark    string   `gorm:"type:text" json:"remark"`
	Nominated string   `gorm:"size:3;default:'No'" json:"nominated"`

	// 供题人与提交人可以不是同一个用户
	OffererEmail *string `gorm:"size:100" json:"offererEmail"`
	FigureURL    string  `gorm:"size:255" json:"figureUrl"`
	UserID       uint    `gorm:"index;not null" json:"userId"`

	Variables      []ProblemVariable `gorm:"foreignKey:ProblemID" json:"variables,omitempty"`
	AIPerformances []AIPerformance   `gorm:"foreignKey:ProblemID" json:"aiPerformances,omitempty"`
	Examiners      []*User           `gorm:"many2many:problem_examiners" json:"examiners,omitempty"`
	Translators    []*User           `gorm:"many2many:problem_translators" json:"translators,omitempty"`
}

func (Problem) TableName() string {
	return "problems"
}

func (p *Problem) HasOfferer() bool {
	return p.OffererEmail != nil && *p.OffererEmail != ""
}

// swagger:model ProblemVariable
type ProblemVariable struct {
	BaseModel
	ProblemID  uint    `gorm:"index;not null" json:"problemId"`
	Name       string  `gorm:"size:100;not null" json:"name"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
}

func (ProblemVariable) TableName() string {
	return "problem_variables"
}
