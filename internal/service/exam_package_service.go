package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"exam_bank_backend/internal/contract"
	"exam_bank_backend/internal/model"
	"exam_bank_backend/internal/repository"
	"exam_bank_backend/internal/transform"
	"exam_bank_backend/internal/util"
	"exam_bank_backend/pkg/logger"
	"exam_bank_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const detailCacheTTL = 10 * time.Minute

// ExamPackageService runs the ingestion pipeline: structural validation,
// business-rule validation, transformation, transactional insert. The
// validation and transform stages are pure; only the insert touches the
// store. Redis is an optional read cache; a nil client disables it.
type ExamPackageService struct {
	Repo  *repository.ExamPackageRepository
	Redis *redis.Client
}

func NewExamPackageService(repo *repository.ExamPackageRepository, rdb *redis.Client) *ExamPackageService {
	return &ExamPackageService{Repo: repo, Redis: rdb}
}

// Ingest validates, transforms and commits one raw package document. A
// non-nil report with violations means the document was rejected before any
// write; the caller gets every violation at once. Errors from the insert
// stage mean the transaction rolled back completely.
func (s *ExamPackageService) Ingest(ctx context.Context, raw []byte, claims *util.Claims) (*repository.InsertResult, *contract.ValidationReport, error) {
	pkg, report := contract.Validate(raw)
	if !report.Valid() {
		monitoring.IngestOutcomes.WithLabelValues("rejected").Inc()
		return nil, report, nil
	}

	bundle, err := transform.Rows(pkg)
	if err != nil {
		// Unreachable for validated input; if it fires, the contract and
		// the transform have drifted apart.
		monitoring.IngestOutcomes.WithLabelValues("defect").Inc()
		logger.Log.Error("transform defect on validated package",
			zap.String("packageId", pkg.Metadata.ID), zap.Error(err))
		return nil, nil, err
	}

	result, err := s.Repo.InsertBundle(ctx, claims, bundle)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			monitoring.IngestOutcomes.WithLabelValues("denied").Inc()
		} else {
			monitoring.IngestOutcomes.WithLabelValues("failed").Inc()
		}
		return nil, nil, err
	}

	monitoring.IngestOutcomes.WithLabelValues("committed").Inc()
	s.invalidateDetail(ctx, result.PackageID)
	return result, report, nil
}

// ValidateOnly runs both validation stages without touching the store.
func (s *ExamPackageService) ValidateOnly(raw []byte) *contract.ValidationReport {
	_, report := contract.Validate(raw)
	return report
}

// GetDetail loads the committed rows for one package. Admin reads include
// the answer relation and bypass the shared cache; everyone else gets the
// cached public shape.
func (s *ExamPackageService) GetDetail(ctx context.Context, id string, claims *util.Claims) (*model.ExamPackageDetail, error) {
	includeAnswers := claims != nil && claims.Role == model.Admin

	if !includeAnswers && s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, detailCacheKey(id)).Bytes(); err == nil {
			var detail model.ExamPackageDetail
			if err := json.Unmarshal(cached, &detail); err == nil {
				return &detail, nil
			}
		}
	}

	detail, err := s.Repo.LoadDetail(ctx, id, includeAnswers)
	if err != nil {
		return nil, err
	}

	if !includeAnswers && s.Redis != nil {
		if raw, err := json.Marshal(detail); err == nil {
			if err := s.Redis.Set(ctx, detailCacheKey(id), raw, detailCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache package detail", zap.String("packageId", id), zap.Error(err))
			}
		}
	}

	return detail, nil
}

func (s *ExamPackageService) List(ctx context.Context, page, limit int) ([]model.ExamPackage, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(ctx, page, limit)
}

func (s *ExamPackageService) invalidateDetail(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, detailCacheKey(id)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate package cache", zap.String("packageId", id), zap.Error(err))
	}
}

func detailCacheKey(id string) string {
	return fmt.Sprintf("exam_pkg:%s:detail", id)
}
