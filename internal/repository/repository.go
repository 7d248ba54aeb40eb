package repository

import (
	"formation-feedback/backend/pkg/database"
	"formation-feedback/backend/pkg/supabase"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Submission SubmissionRepository
}

// NewRepository 创建基于数据库直连（postgres:// 或关键字连接串）的 Repository 聚合
func NewRepository(client *database.Client) *Repository {
	return &Repository{
		Submission: NewSubmissionRepo(client),
	}
}

// NewRESTRepository 创建基于 Supabase REST 端点（https://<ref>.supabase.co）的 Repository 聚合
func NewRESTRepository(client *supabase.Client) *Repository {
	return &Repository{
		Submission: NewRESTSubmissionRepo(client),
	}
}
