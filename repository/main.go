package repository

import (
	"github.com/draftdeck/design-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	DesignFileRepo    *DesignFileRepository
	CommentRepo       *CommentRepository
	ApprovalEventRepo *ApprovalEventRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		DesignFileRepo:    NewDesignFileRepository(infra.Postgres.DB),
		CommentRepo:       NewCommentRepository(infra.Postgres.DB),
		ApprovalEventRepo: NewApprovalEventRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		DesignFileRepo:    NewDesignFileRepository(tx),
		CommentRepo:       NewCommentRepository(tx),
		ApprovalEventRepo: NewApprovalEventRepository(tx),
	}
}
