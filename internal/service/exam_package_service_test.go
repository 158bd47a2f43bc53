package service_test

import (
	"context"
	"errors"
	"testing"

	"exam_bank_backend/internal/contract/contracttest"
	"exam_bank_backend/internal/model"
	"exam_bank_backend/internal/repository"
	"exam_bank_backend/internal/service"
	"exam_bank_backend/internal/util"
	"exam_bank_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *service.ExamPackageService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return service.NewExamPackageService(repository.NewExamPackageRepository(db), nil)
}

func admin() *util.Claims {
	return &util.Claims{UserID: 1, Role: model.Admin, Email: "admin@example.com"}
}

func TestIngestCommitsValidPackage(t *testing.T) {
	svc := newTestService(t)
	raw := contracttest.MustJSON(contracttest.NumeracyPackage())

	result, report, err := svc.Ingest(context.Background(), raw, admin())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if !report.Valid() {
		t.Fatalf("canonical fixture rejected: %+v", report)
	}
	if result.PackageID != contracttest.NumeracyPackageID {
		t.Errorf("committed id = %q, want %q", result.PackageID, contracttest.NumeracyPackageID)
	}
	if result.Questions != 5 || result.Answers != 5 || result.MediaAssets != 1 {
		t.Errorf("unexpected result counts: %+v", result)
	}

	detail, err := svc.GetDetail(context.Background(), contracttest.NumeracyPackageID, admin())
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if len(detail.Questions) != 5 || len(detail.Answers) != 5 {
		t.Errorf("detail has %d questions, %d answers, want 5 and 5", len(detail.Questions), len(detail.Answers))
	}
}

func TestIngestRejectsInvalidDocumentWithoutWriting(t *testing.T) {
	svc := newTestService(t)
	doc := contracttest.MustMap(contracttest.NumeracyPackage())
	doc["metadata"].(map[string]any)["totalMarks"] = 6.0
	raw := contracttest.MustJSON(doc)

	result, report, err := svc.Ingest(context.Background(), raw, admin())
	if err != nil {
		t.Fatalf("rejection is not an error: %v", err)
	}
	if result != nil {
		t.Fatal("rejected document produced an insert result")
	}
	if report.Valid() {
		t.Fatal("document with a rule violation reported valid")
	}
	if len(report.Rules) == 0 {
		t.Fatalf("want rule violations, got %+v", report)
	}

	counts, err := svc.Repo.CountRows(context.Background(), contracttest.NumeracyPackageID)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("%s has %d rows after a rejected ingest, want 0", table, n)
		}
	}
}

func TestIngestDeniesNonAdmin(t *testing.T) {
	svc := newTestService(t)
	raw := contracttest.MustJSON(contracttest.NumeracyPackage())

	author := &util.Claims{UserID: 2, Role: model.Author, Email: "author@example.com"}
	result, _, err := svc.Ingest(context.Background(), raw, author)
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if result != nil {
		t.Fatal("denied ingest produced an insert result")
	}
}

func TestGetDetailHidesAnswersFromNonAdmins(t *testing.T) {
	svc := newTestService(t)
	raw := contracttest.MustJSON(contracttest.ReadingPackage())
	if _, _, err := svc.Ingest(context.Background(), raw, admin()); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	author := &util.Claims{UserID: 2, Role: model.Author}
	detail, err := svc.GetDetail(context.Background(), contracttest.ReadingPackageID, author)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if len(detail.Answers) != 0 {
		t.Errorf("non-admin detail carries %d answer rows, want 0", len(detail.Answers))
	}
	if len(detail.Questions) != 8 {
		t.Errorf("detail has %d questions, want 8", len(detail.Questions))
	}
}

func TestValidateOnlyNeverWrites(t *testing.T) {
	svc := newTestService(t)
	report := svc.ValidateOnly(contracttest.MustJSON(contracttest.FractionsPackage()))
	if !report.Valid() {
		t.Fatalf("canonical fixture rejected: %+v", report)
	}

	counts, err := svc.Repo.CountRows(context.Background(), contracttest.FractionsPackageID)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if counts["exam_packages"] != 0 {
		t.Error("validate-only wrote a package row")
	}
}

func TestListPaginates(t *testing.T) {
	svc := newTestService(t)
	for _, raw := range [][]byte{
		contracttest.MustJSON(contracttest.NumeracyPackage()),
		contracttest.MustJSON(contracttest.FractionsPackage()),
		contracttest.MustJSON(contracttest.ReadingPackage()),
	} {
		if _, _, err := svc.Ingest(context.Background(), raw, admin()); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	pkgs, total, err := svc.List(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(pkgs) != 2 {
		t.Errorf("page 1 has %d packages, want 2", len(pkgs))
	}

	pkgs, _, err = svc.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(pkgs) != 1 {
		t.Errorf("page 2 has %d packages, want 1", len(pkgs))
	}
}
