package model

// EvaluationResponse 培训评估问卷回答，对应 evaluation_responses（旧表名 reponses_formation）
type EvaluationResponse struct {
	BaseModel
	SessionFields
	RespondentFields
	AutreFonction *string `gorm:"column:autre_fonction" json:"autre_fonction"`

	// 组织与后勤（1-5）
	OrgObjectifs  *int `gorm:"column:org_objectifs"  json:"org_objectifs"`
	OrgPlateforme *int `gorm:"column:org_plateforme" json:"org_plateforme"`
	OrgRythme     *int `gorm:"column:org_rythme"     json:"org_rythme"`
	OrgOutil      *int `gorm:"column:org_outil"      json:"org_outil"`

	// 内容与教学（1-5）
	ContAdequation *int `gorm:"column:cont_adequation" json:"cont_adequation"`
	ContEquilibre  *int `gorm:"column:cont_equilibre"  json:"cont_equilibre"`
	ContSupports   *int `gorm:"column:cont_supports"   json:"cont_supports"`

	// 专题（1-5）
	TRts     *int `gorm:"column:t_rts"      json:"t_rts"`
	TVf      *int `gorm:"column:t_vf"       json:"t_vf"`
	TTva     *int `gorm:"column:t_tva"      json:"t_tva"`
	TTvaRemb *int `gorm:"column:t_tva_remb" json:"t_tva_remb"`
	TIs      *int `gorm:"column:t_is"       json:"t_is"`
	TRns     *int `gorm:"column:t_rns"      json:"t_rns"`
	TPf      *int `gorm:"column:t_pf"       json:"t_pf"`

	// 讲师（1-5）
	AnimMaitrise    *int `gorm:"column:anim_maitrise"    json:"anim_maitrise"`
	AnimInteraction *int `gorm:"column:anim_interaction" json:"anim_interaction"`

	// 成果（1-5）
	ResObjectifs *int `gorm:"column:res_objectifs" json:"res_objectifs"`

	// 自由文本
	Competences   *string `gorm:"column:competences"   json:"competences"`
	PointsForts   *string `gorm:"column:points_forts"  json:"points_forts"`
	Ameliorations *string `gorm:"column:ameliorations" json:"ameliorations"`
	BesoinsSuivi  *string `gorm:"column:besoins_suivi" json:"besoins_suivi"`

	// 净推荐值（0-10）
	NPS *int `gorm:"column:nps" json:"nps"`

	ProvenanceFields
}

// TableName 默认表名；运行时可通过 form.table 覆盖
func (EvaluationResponse) TableName() string { return "evaluation_responses" }

// Respondent 返回受访者字段
func (r *EvaluationResponse) Respondent() *RespondentFields { return &r.RespondentFields }
