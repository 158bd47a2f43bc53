package repository

import (
	"context"
	"fmt"

	"exam_bank_backend/internal/model"
	"exam_bank_backend/internal/util"

	"gorm.io/gorm"
)

// InsertStage names the relation being written when an insert fails, for
// diagnostics. Stages run strictly in this order so every foreign key
// target exists before its referencing row.
type InsertStage string

const (
	StagePackage        InsertStage = "package"
	StageMediaAsset     InsertStage = "media_asset"
	StageQuestion       InsertStage = "question"
	StageQuestionOption InsertStage = "question_option"
	StageCorrectAnswer  InsertStage = "correct_answer"
)

// InsertError wraps the store failure that aborted a bundle commit. By the
// time the caller sees one, the transaction has already rolled back and no
// rows for the package remain.
type InsertError struct {
	Stage InsertStage
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert failed at stage %s: %v", e.Stage, e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}

// InsertResult carries the committed package id and the store-confirmed
// row counts per relation.
type InsertResult struct {
	PackageID   string `json:"packageId"`
	MediaAssets int    `json:"mediaAssets"`
	Questions   int    `json:"questions"`
	Options     int    `json:"options"`
	Answers     int    `json:"answers"`
}

type ExamPackageRepository struct {
	DB *gorm.DB
}

func NewExamPackageRepository(db *gorm.DB) *ExamPackageRepository {
	return &ExamPackageRepository{DB: db}
}

// InsertBundle commits one row bundle atomically. The credential is checked
// before any unit of work opens: a missing or non-admin credential yields
// ErrPermissionDenied and zero writes. Any row failure inside the
// transaction rolls back every stage. No retry happens here; a retry is a
// fresh submission by the caller.
func (r *ExamPackageRepository) InsertBundle(ctx context.Context, claims *util.Claims, bundle *model.ExamRowBundle) (*InsertResult, error) {
	if claims == nil || claims.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bundle.Package).Error; err != nil {
			return &InsertError{Stage: StagePackage, Err: err}
		}
		for i := range bundle.MediaAssets {
			if err := tx.Create(&bundle.MediaAssets[i]).Error; err != nil {
				return &InsertError{Stage: StageMediaAsset, Err: err}
			}
		}
		for i := range bundle.Questions {
			if err := tx.Create(&bundle.Questions[i]).Error; err != nil {
				return &InsertError{Stage: StageQuestion, Err: err}
			}
		}
		for i := range bundle.Options {
			if err := tx.Create(&bundle.Options[i]).Error; err != nil {
				return &InsertError{Stage: StageQuestionOption, Err: err}
			}
		}
		for i := range bundle.Answers {
			if err := tx.Create(&bundle.Answers[i]).Error; err != nil {
				return &InsertError{Stage: StageCorrectAnswer, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &InsertResult{
		PackageID:   bundle.Package.ID,
		MediaAssets: len(bundle.MediaAssets),
		Questions:   len(bundle.Questions),
		Options:     len(bundle.Options),
		Answers:     len(bundle.Answers),
	}, nil
}

func (r *ExamPackageRepository) FindByID(ctx context.Context, id string) (*model.ExamPackage, error) {
	var pkg model.ExamPackage
	err := r.DB.WithContext(ctx).First(&pkg, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrPackageNotFound
	}
	return &pkg, err
}

// LoadDetail assembles the committed rows for one package back into the
// read-side shape. includeAnswers controls whether the answer relation is
// loaded at all; it never leaves the store for non-admin reads.
func (r *ExamPackageRepository) LoadDetail(ctx context.Context, id string, includeAnswers bool) (*model.ExamPackageDetail, error) {
	pkg, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.ExamPackageDetail{Package: *pkg}
	db := r.DB.WithContext(ctx)

	if err := db.Where("package_id = ?", id).Order("id").Find(&detail.MediaAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Where("package_id = ?", id).Order("sequence_number").Find(&detail.Questions).Error; err != nil {
		return nil, err
	}

	questionIDs := make([]string, 0, len(detail.Questions))
	for _, q := range detail.Questions {
		questionIDs = append(questionIDs, q.ID)
	}
	if len(questionIDs) > 0 {
		if err := db.Where("question_id IN ?", questionIDs).Order("question_id, option_id").Find(&detail.Options).Error; err != nil {
			return nil, err
		}
		if includeAnswers {
			if err := db.Where("question_id IN ?", questionIDs).Order("question_id").Find(&detail.Answers).Error; err != nil {
				return nil, err
			}
		}
	}

	return detail, nil
}

func (r *ExamPackageRepository) List(ctx context.Context, page, limit int) ([]model.ExamPackage, int64, error) {
	var pkgs []model.ExamPackage
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.ExamPackage{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&pkgs).Error
	return pkgs, total, err
}

// CountRows reports the per-relation row counts for one package id. Used by
// operational checks to confirm atomicity after reported failures.
func (r *ExamPackageRepository) CountRows(ctx context.Context, id string) (map[string]int64, error) {
	db := r.DB.WithContext(ctx)
	counts := make(map[string]int64, 5)

	var n int64
	if err := db.Model(&model.ExamPackage{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["exam_packages"] = n

	if err := db.Model(&model.ExamMediaAsset{}).Where("package_id = ?", id).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["exam_media_assets"] = n

	if err := db.Model(&model.ExamQuestion{}).Where("package_id = ?", id).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["exam_questions"] = n

	questionSub := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&model.ExamQuestion{}).Select("id").Where("package_id = ?", id)
	}
	if err := db.Model(&model.ExamQuestionOption{}).Where("question_id IN (?)", questionSub()).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["exam_question_options"] = n

	if err := db.Model(&model.ExamCorrectAnswer{}).Where("question_id IN (?)", questionSub()).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["exam_correct_answers"] = n

	return counts, nil
}
