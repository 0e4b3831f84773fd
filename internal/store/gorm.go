package store

import (
	"context"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Create(doc).Error
}

func (g *GormStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (g *GormStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]*model.Document, error) {
	var docs []*model.Document
	q := g.db.WithContext(ctx).Model(&model.Document{})
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.TenantID != "" {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.MemberID != "" {
		q = q.Where("owner_id = ? OR id IN (?)",
			filter.MemberID,
			g.db.Model(&model.Permission{}).Select("document_id").Where("user_id = ?", filter.MemberID),
		)
	}
	err := q.Order("created_at asc").Find(&docs).Error
	return docs, err
}

func (g *GormStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Save(doc).Error
}

func (g *GormStore) DeleteDocument(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Document{}).Error
}

func (g *GormStore) UpsertPermission(ctx context.Context, perm *model.Permission) error {
	var existing model.Permission
	err := g.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", perm.DocumentID, perm.UserID).
		First(&existing).Error
	if err == nil {
		existing.Level = perm.Level
		existing.GrantedBy = perm.GrantedBy
		existing.ExpiresAt = perm.ExpiresAt
		return g.db.WithContext(ctx).Save(&existing).Error
	}
	return g.db.WithContext(ctx).Create(perm).Error
}

func (g *GormStore) GetPermission(ctx context.Context, docID, userID string) (*model.Permission, error) {
	var perm model.Permission
	err := g.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", docID, userID).
		First(&perm).Error
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (g *GormStore) ListPermissions(ctx context.Context, docID string) ([]*model.Permission, error) {
	var perms []*model.Permission
	err := g.db.WithContext(ctx).Where("document_id = ?", docID).Find(&perms).Error
	return perms, err
}

func (g *GormStore) DeletePermission(ctx context.Context, docID, userID string) error {
	return g.db.WithContext(ctx).Unscoped().
		Where("document_id = ? AND user_id = ?", docID, userID).
		Delete(&model.Permission{}).Error
}

func (g *GormStore) DeletePermissionsByDocument(ctx context.Context, docID string) error {
	return g.db.WithContext(ctx).Unscoped().Where("document_id = ?", docID).Delete(&model.Permission{}).Error
}

func (g *GormStore) CreateOperation(ctx context.Context, op *model.Operation) error {
	return g.db.WithContext(ctx).Create(op).Error
}

func (g *GormStore) ListOperations(ctx context.Context, docID string) ([]*model.Operation, error) {
	var ops []*model.Operation
	err := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("version asc").Find(&ops).Error
	return ops, err
}

func (g *GormStore) ListOperationsAfter(ctx context.Context, docID string, version int64) ([]*model.Operation, error) {
	var ops []*model.Operation
	err := g.db.WithContext(ctx).
		Where("document_id = ? AND version > ?", docID, version).
		Order("version asc").Find(&ops).Error
	return ops, err
}

func (g *GormStore) CountOperations(ctx context.Context, docID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Operation{}).Where("document_id = ?", docID).Count(&count).Error
	return count, err
}

func (g *GormStore) DeleteOperationsByDocument(ctx context.Context, docID string) error {
	return g.db.WithContext(ctx).Unscoped().Where("document_id = ?", docID).Delete(&model.Operation{}).Error
}

func (g *GormStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	return g.db.WithContext(ctx).Create(comment).Error
}

func (g *GormStore) GetComment(ctx context.Context, docID, id string) (*model.Comment, error) {
	var comment model.Comment
	err := g.db.WithContext(ctx).Where("document_id = ? AND id = ?", docID, id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (g *GormStore) ListComments(ctx context.Context, docID string) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("created_at asc").Find(&comments).Error
	return comments, err
}

func (g *GormStore) UpdateComment(ctx context.Context, comment *model.Comment) error {
	return g.db.WithContext(ctx).Save(comment).Error
}

func (g *GormStore) DeleteComments(ctx context.Context, docID string, ids []string) error {
	return g.db.WithContext(ctx).Unscoped().
		Where("document_id = ? AND id IN (?)", docID, ids).
		Delete(&model.Comment{}).Error
}

func (g *GormStore) DeleteCommentsByDocument(ctx context.Context, docID string) error {
	return g.db.WithContext(ctx).Unscoped().Where("document_id = ?", docID).Delete(&model.Comment{}).Error
}

func (g *GormStore) CountComments(ctx context.Context, docID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Comment{}).Where("document_id = ?", docID).Count(&count).Error
	return count, err
}

func (g *GormStore) CreateVersion(ctx context.Context, version *model.DocumentVersion) error {
	return g.db.WithContext(ctx).Create(version).Error
}

func (g *GormStore) GetVersion(ctx context.Context, docID string, version int64) (*model.DocumentVersion, error) {
	var v model.DocumentVersion
	err := g.db.WithContext(ctx).
		Where("document_id = ? AND version = ?", docID, version).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (g *GormStore) ListVersions(ctx context.Context, docID string) ([]*model.DocumentVersion, error) {
	var versions []*model.DocumentVersion
	err := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("version asc").Find(&versions).Error
	return versions, err
}

func (g *GormStore) CountVersions(ctx context.Context, docID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.DocumentVersion{}).Where("document_id = ?", docID).Count(&count).Error
	return count, err
}

func (g *GormStore) DeleteVersionsByDocument(ctx context.Context, docID string) error {
	return g.db.WithContext(ctx).Unscoped().Where("document_id = ?", docID).Delete(&model.DocumentVersion{}).Error
}

func (g *GormStore) CreateConflict(ctx context.Context, conflict *model.ConflictRecord) error {
	return g.db.WithContext(ctx).Create(conflict).Error
}

func (g *GormStore) CountConflicts(ctx context.Context, docID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.ConflictRecord{}).Where("document_id = ?", docID).Count(&count).Error
	return count, err
}

func (g *GormStore) DeleteConflictsByDocument(ctx context.Context, docID string) error {
	return g.db.WithContext(ctx).Unscoped().Where("document_id = ?", docID).Delete(&model.ConflictRecord{}).Error
}

func (g *GormStore) CreateSession(ctx context.Context, session *model.CollabSession) error {
	return g.db.WithContext(ctx).Create(session).Error
}

func (g *GormStore) GetOpenSession(ctx context.Context, docID string) (*model.CollabSession, error) {
	var session model.CollabSession
	err := g.db.WithContext(ctx).
		Where("document_id = ? AND ended_at IS NULL", docID).
		Order("started_at desc").First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *GormStore) UpdateSession(ctx context.Context, session *model.CollabSession) error {
	return g.db.WithContext(ctx).Save(session).Error
}

func (g *GormStore) ListSessions(ctx context.Context, docID string) ([]*model.CollabSession, error) {
	var sessions []*model.CollabSession
	err := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("started_at asc").Find(&sessions).Error
	return sessions, err
}

func (g *GormStore) DeleteSessionsByDocument(ctx context.Context, docID string) error {
	return g.db.WithContext(ctx).Unscoped().Where("document_id = ?", docID).Delete(&model.CollabSession{}).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
