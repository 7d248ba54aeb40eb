package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/model"
	"formation-feedback/backend/pkg/database"
	apperrors "formation-feedback/backend/pkg/errors"
	"formation-feedback/backend/pkg/supabase"
)

// staticDB 直接返回预先打开的 sqlite 句柄
type staticDB struct{ db *gorm.DB }

func (s staticDB) Configured() bool { return true }
func (s staticDB) DB(ctx context.Context) (*gorm.DB, error) {
	return s.db.WithContext(ctx), nil
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开 sqlite 失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.EvaluationResponse{}, &model.ExpectationResponse{}); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	if err := db.Table("reponses_formation").AutoMigrate(&model.EvaluationResponse{}); err != nil {
		t.Fatalf("AutoMigrate reponses_formation 失败: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSubmissionRepo_Insert_DefaultTable(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSubmissionRepo(staticDB{db})

	row := &model.EvaluationResponse{
		RespondentFields: model.RespondentFields{Prenom: "Alice", Nom: "Dupont", Email: "a@example.com", Fonction: "RH"},
		OrgObjectifs:     intPtr(4),
		Competences:      strPtr("TVA"),
	}
	if err := repo.Insert(context.Background(), "", row); err != nil {
		t.Fatalf("Insert 应成功: %v", err)
	}
	if row.ID == 0 {
		t.Error("期望回填自增主键")
	}

	var got model.EvaluationResponse
	if err := db.First(&got, row.ID).Error; err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got.Prenom != "Alice" || got.OrgObjectifs == nil || *got.OrgObjectifs != 4 {
		t.Errorf("读回数据不符: %+v", got)
	}
	if got.NPS != nil || got.Telephone != nil {
		t.Error("未提供的可选字段应为 NULL")
	}
}

func TestSubmissionRepo_Insert_TableOverride(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSubmissionRepo(staticDB{db})

	row := &model.EvaluationResponse{
		RespondentFields: model.RespondentFields{Prenom: "B", Nom: "C", Email: "d", Fonction: "E"},
	}
	if err := repo.Insert(context.Background(), "reponses_formation", row); err != nil {
		t.Fatalf("Insert 应成功: %v", err)
	}

	var n int64
	db.Table("reponses_formation").Count(&n)
	if n != 1 {
		t.Errorf("期望 reponses_formation 有 1 行，实际 %d", n)
	}
	db.Table("evaluation_responses").Count(&n)
	if n != 0 {
		t.Errorf("期望 evaluation_responses 为空，实际 %d", n)
	}
}

func TestSubmissionRepo_Insert_IdenticalRowsAreIndependent(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSubmissionRepo(staticDB{db})

	for i := 0; i < 2; i++ {
		row := &model.ExpectationResponse{
			RespondentFields: model.RespondentFields{Prenom: "A", Nom: "B", Email: "c", Fonction: "D"},
		}
		if err := repo.Insert(context.Background(), "", row); err != nil {
			t.Fatalf("Insert 应成功: %v", err)
		}
	}
	var n int64
	db.Model(&model.ExpectationResponse{}).Count(&n)
	if n != 2 {
		t.Errorf("期望 2 行，实际 %d", n)
	}
}

func TestSubmissionRepo_Insert_UnknownTable(t *testing.T) {
	db := setupSQLite(t)
	repo := NewSubmissionRepo(staticDB{db})

	row := &model.EvaluationResponse{
		RespondentFields: model.RespondentFields{Prenom: "A", Nom: "B", Email: "c", Fonction: "D"},
	}
	if err := repo.Insert(context.Background(), "no_such_table", row); err == nil {
		t.Error("写入不存在的表应返回错误")
	}
}

func TestSubmissionRepo_NotConfigured(t *testing.T) {
	client := database.NewClient(&config.SupabaseConfig{}, zap.NewNop())
	repo := NewSubmissionRepo(client)

	if repo.Configured() {
		t.Error("未配置时 Configured 应为 false")
	}
	err := repo.Insert(context.Background(), "", &model.EvaluationResponse{})
	if !errors.Is(err, apperrors.ErrNotConfigured) {
		t.Errorf("期望 ErrNotConfigured，实际: %v", err)
	}
}

// ── REST 通道 ──

type recordingInserter struct {
	table string
	row   interface{}
	err   error
}

func (r *recordingInserter) Configured() bool { return true }
func (r *recordingInserter) Insert(_ context.Context, table string, row interface{}) error {
	r.table, r.row = table, row
	return r.err
}

func TestRESTSubmissionRepo_Insert(t *testing.T) {
	ins := &recordingInserter{}
	repo := NewRESTSubmissionRepo(ins)

	row := &model.ExpectationResponse{
		RespondentFields: model.RespondentFields{Prenom: "A", Nom: "B", Email: "c", Fonction: "D"},
	}
	if err := repo.Insert(context.Background(), "", row); err != nil {
		t.Fatalf("Insert 应成功: %v", err)
	}
	if ins.table != "attentes_formation" || ins.row != row {
		t.Errorf("应按默认表名写入同一行，实际 %s", ins.table)
	}

	if err := repo.Insert(context.Background(), "reponses_formation", row); err != nil || ins.table != "reponses_formation" {
		t.Errorf("表名覆盖未生效: %s %v", ins.table, err)
	}
}

func TestRESTSubmissionRepo_UpstreamError(t *testing.T) {
	ins := &recordingInserter{err: errors.New("(42501) permission denied")}
	repo := NewRESTSubmissionRepo(ins)

	err := repo.Insert(context.Background(), "", &model.EvaluationResponse{})
	if err == nil || err.Error() != "(42501) permission denied" {
		t.Errorf("应原样返回上游错误，实际 %v", err)
	}
}

func TestRESTRepository_UsesSupabaseClient(t *testing.T) {
	client := supabase.NewClient(&config.SupabaseConfig{URL: "https://abcd.supabase.co"}, zap.NewNop())
	repo := NewRESTRepository(client).Submission

	if repo.Configured() {
		t.Error("缺少密钥时不应视为已配置")
	}
	if err := repo.Insert(context.Background(), "", &model.EvaluationResponse{}); !errors.Is(err, apperrors.ErrNotConfigured) {
		t.Errorf("期望 ErrNotConfigured，实际 %v", err)
	}
}
