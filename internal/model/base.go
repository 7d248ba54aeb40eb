package model

import "time"

// BaseModel 表单回答公共字段：自增主键与入库时间
type BaseModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"   json:"created_at"`
}

// PrimaryKey 入库后由数据库回填的主键
func (b *BaseModel) PrimaryKey() int64 { return b.ID }

// SessionFields 培训场次元数据（缺省时由配置补全）
type SessionFields struct {
	FormationTitre    *string `gorm:"column:formation_titre"    json:"formation_titre"`
	FormationModalite *string `gorm:"column:formation_modalite" json:"formation_modalite"`
	FormationDebut    *string `gorm:"column:formation_debut"    json:"formation_debut"`
	FormationFin      *string `gorm:"column:formation_fin"      json:"formation_fin"`
}

// RespondentFields 受访者身份信息
type RespondentFields struct {
	Prenom    string  `gorm:"column:prenom;not null"   json:"prenom"`
	Nom       string  `gorm:"column:nom;not null"      json:"nom"`
	Email     string  `gorm:"column:email;not null"    json:"email"`
	Telephone *string `gorm:"column:telephone"         json:"telephone"`
	Fonction  string  `gorm:"column:fonction;not null" json:"fonction"`
}

// ProvenanceFields 请求来源（仅用于审计，不参与任何鉴权判断）
type ProvenanceFields struct {
	UserAgent  *string `gorm:"column:user_agent"  json:"user_agent"`
	RemoteAddr *string `gorm:"column:remote_addr" json:"remote_addr"`
}

// Row 可入库的表单回答
type Row interface {
	TableName() string
	PrimaryKey() int64
	Respondent() *RespondentFields
}
