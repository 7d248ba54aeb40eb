package repository

import (
	"context"

	"gorm.io/gorm"

	"formation-feedback/backend/internal/model"
)

// SubmissionRepository 表单回答数据访问接口
type SubmissionRepository interface {
	// Configured 存储连接配置是否齐备
	Configured() bool
	// Insert 向指定表写入一行；整行成功或整行失败
	Insert(ctx context.Context, table string, row model.Row) error
}

// DBProvider 按需提供 gorm 句柄
type DBProvider interface {
	Configured() bool
	DB(ctx context.Context) (*gorm.DB, error)
}

type submissionRepo struct {
	db DBProvider
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db DBProvider) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Configured() bool {
	return r.db.Configured()
}

func (r *submissionRepo) Insert(ctx context.Context, table string, row model.Row) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	if table == "" {
		table = row.TableName()
	}
	return db.Table(table).Create(row).Error
}

// RowInserter 通过 HTTP 端点写入一行的存储（Supabase REST）
type RowInserter interface {
	Configured() bool
	Insert(ctx context.Context, table string, row interface{}) error
}

type restSubmissionRepo struct {
	rest RowInserter
}

// NewRESTSubmissionRepo 创建基于 REST 端点的 SubmissionRepository
func NewRESTSubmissionRepo(rest RowInserter) SubmissionRepository {
	return &restSubmissionRepo{rest: rest}
}

func (r *restSubmissionRepo) Configured() bool {
	return r.rest.Configured()
}

func (r *restSubmissionRepo) Insert(ctx context.Context, table string, row model.Row) error {
	if table == "" {
		table = row.TableName()
	}
	return r.rest.Insert(ctx, table, row)
}
