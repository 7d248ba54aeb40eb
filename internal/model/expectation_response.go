package model

// ExpectationResponse 培训前期望问卷回答，对应 attentes_formation
// "其他"职务已合并进 Fonction，不单独存储
type ExpectationResponse struct {
	BaseModel
	SessionFields
	RespondentFields

	NiveauConnaissance *int `gorm:"column:niveau_connaissance" json:"niveau_connaissance"`
	ImportanceSujet    *int `gorm:"column:importance_sujet"    json:"importance_sujet"`

	AttentesPrincipales    *string `gorm:"column:attentes_principales"    json:"attentes_principales"`
	ThemesPrioritaires     *string `gorm:"column:themes_prioritaires"     json:"themes_prioritaires"`
	DifficultesRencontrees *string `gorm:"column:difficultes_rencontrees" json:"difficultes_rencontrees"`
	Contraintes            *string `gorm:"column:contraintes"             json:"contraintes"`

	ProvenanceFields
}

// TableName 指定表名
func (ExpectationResponse) TableName() string { return "attentes_formation" }

// Respondent 返回受访者字段
func (r *ExpectationResponse) Respondent() *RespondentFields { return &r.RespondentFields }
