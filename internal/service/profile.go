package service

import (
	"fmt"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/dto"
	"formation-feedback/backend/internal/model"
)

// 表单类型
const (
	ProfileEvaluation = "evaluation"
	ProfileAttentes   = "attentes"
)

// requiredFields 所有表单共用的必填字段
var requiredFields = []string{"prenom", "nom", "email", "fonction"}

// FormProfile 一种表单的字段集合与写入策略
type FormProfile struct {
	Name          string
	Table         string
	Required      []string
	FoldOtherRole bool
	Defaults      config.FormDefaultsConfig

	build func(fp *FormProfile, p dto.Payload, meta dto.SubmissionMeta) model.Row
}

// NewFormProfile 根据配置选择表单类型，并应用表名与合并策略的覆盖
func NewFormProfile(cfg *config.FormConfig) (*FormProfile, error) {
	var fp FormProfile
	switch cfg.Profile {
	case ProfileEvaluation, "":
		fp = FormProfile{Name: ProfileEvaluation, Table: "evaluation_responses", build: buildEvaluation}
	case ProfileAttentes:
		fp = FormProfile{Name: ProfileAttentes, Table: "attentes_formation", FoldOtherRole: true, build: buildExpectation}
	default:
		return nil, fmt.Errorf("未知的表单类型 %q", cfg.Profile)
	}

	fp.Required = requiredFields
	fp.Defaults = cfg.Defaults
	if cfg.Table != "" {
		fp.Table = cfg.Table
	}
	if cfg.FoldOtherRole != nil {
		fp.FoldOtherRole = *cfg.FoldOtherRole
	}
	return &fp, nil
}

// Build 将已通过必填校验的表单规范化为一行数据
func (fp *FormProfile) Build(p dto.Payload, meta dto.SubmissionMeta) model.Row {
	return fp.build(fp, p, meta)
}

func (fp *FormProfile) session(p dto.Payload) model.SessionFields {
	return model.SessionFields{
		FormationTitre:    textOrDefault(p, "formation_titre", fp.Defaults.Titre),
		FormationModalite: textOrDefault(p, "formation_modalite", fp.Defaults.Modalite),
		FormationDebut:    textOrDefault(p, "formation_debut", fp.Defaults.Debut),
		FormationFin:      textOrDefault(p, "formation_fin", fp.Defaults.Fin),
	}
}

// respondent 返回身份字段与（可能已被合并的）autre_fonction
func (fp *FormProfile) respondent(p dto.Payload) (model.RespondentFields, *string) {
	r := model.RespondentFields{
		Prenom:    identity(p, "prenom"),
		Nom:       identity(p, "nom"),
		Email:     identity(p, "email"),
		Telephone: textOrNull(p, "telephone"),
		Fonction:  identity(p, "fonction"),
	}
	autre := textOrNull(p, "autre_fonction")
	if fp.FoldOtherRole {
		if folded, ok := foldOtherRole(r.Fonction, autre); ok {
			r.Fonction = folded
		}
		autre = nil
	}
	return r, autre
}

func provenance(meta dto.SubmissionMeta) model.ProvenanceFields {
	return model.ProvenanceFields{
		UserAgent:  optionalText(meta.UserAgent),
		RemoteAddr: optionalText(meta.RemoteAddr),
	}
}

func buildEvaluation(fp *FormProfile, p dto.Payload, meta dto.SubmissionMeta) model.Row {
	respondent, autre := fp.respondent(p)
	rate := func(key string) *int { return ratingOrNull(p, key, 1, 5) }

	return &model.EvaluationResponse{
		SessionFields:    fp.session(p),
		RespondentFields: respondent,
		AutreFonction:    autre,

		OrgObjectifs:  rate("org_objectifs"),
		OrgPlateforme: rate("org_plateforme"),
		OrgRythme:     rate("org_rythme"),
		OrgOutil:      rate("org_outil"),

		ContAdequation: rate("cont_adequation"),
		ContEquilibre:  rate("cont_equilibre"),
		ContSupports:   rate("cont_supports"),

		TRts:     rate("t_rts"),
		TVf:      rate("t_vf"),
		TTva:     rate("t_tva"),
		TTvaRemb: rate("t_tva_remb"),
		TIs:      rate("t_is"),
		TRns:     rate("t_rns"),
		TPf:      rate("t_pf"),

		AnimMaitrise:    rate("anim_maitrise"),
		AnimInteraction: rate("anim_interaction"),

		ResObjectifs: rate("res_objectifs"),

		Competences:   textOrNull(p, "competences"),
		PointsForts:   textOrNull(p, "points_forts"),
		Ameliorations: textOrNull(p, "ameliorations"),
		BesoinsSuivi:  textOrNull(p, "besoins_suivi"),

		NPS: ratingOrNull(p, "nps", 0, 10),

		ProvenanceFields: provenance(meta),
	}
}

func buildExpectation(fp *FormProfile, p dto.Payload, meta dto.SubmissionMeta) model.Row {
	respondent, _ := fp.respondent(p)

	return &model.ExpectationResponse{
		SessionFields:    fp.session(p),
		RespondentFields: respondent,

		NiveauConnaissance: ratingOrNull(p, "niveau_connaissance", 1, 5),
		ImportanceSujet:    ratingOrNull(p, "importance_sujet", 1, 5),

		AttentesPrincipales:    textOrNull(p, "attentes_principales"),
		ThemesPrioritaires:     textOrNull(p, "themes_prioritaires"),
		DifficultesRencontrees: textOrNull(p, "difficultes_rencontrees"),
		Contraintes:            textOrNull(p, "contraintes"),

		ProvenanceFields: provenance(meta),
	}
}
