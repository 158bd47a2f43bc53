package repository_test

import (
	"context"
	"errors"
	"testing"

	"exam_bank_backend/internal/contract/contracttest"
	"exam_bank_backend/internal/model"
	"exam_bank_backend/internal/repository"
	"exam_bank_backend/internal/transform"
	"exam_bank_backend/internal/util"
	"exam_bank_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *repository.ExamPackageRepository {
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
	// A second pool connection would see a separate empty in-memory database.
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewExamPackageRepository(db)
}

func adminClaims() *util.Claims {
	return &util.Claims{UserID: 1, Role: model.Admin, Email: "admin@example.com"}
}

func readingBundle(t *testing.T) *model.ExamRowBundle {
	t.Helper()
	bundle, err := transform.Rows(contracttest.ReadingPackage())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	return bundle
}

func fractionsBundle(t *testing.T) *model.ExamRowBundle {
	t.Helper()
	bundle, err := transform.Rows(contracttest.FractionsPackage())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	return bundle
}

func assertRowCounts(t *testing.T, repo *repository.ExamPackageRepository, id string, want map[string]int64) {
	t.Helper()
	counts, err := repo.CountRows(context.Background(), id)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	for table, n := range want {
		if counts[table] != n {
			t.Errorf("%s has %d rows, want %d", table, counts[table], n)
		}
	}
}

func TestInsertBundleCommitsAllRelations(t *testing.T) {
	repo := newTestRepo(t)
	bundle := readingBundle(t)

	result, err := repo.InsertBundle(context.Background(), adminClaims(), bundle)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if result.PackageID != contracttest.ReadingPackageID {
		t.Errorf("result package id = %q, want %q", result.PackageID, contracttest.ReadingPackageID)
	}
	if result.Questions != 8 || result.Answers != 8 {
		t.Errorf("result counts questions=%d answers=%d, want 8 and 8", result.Questions, result.Answers)
	}

	assertRowCounts(t, repo, contracttest.ReadingPackageID, map[string]int64{
		"exam_packages":         1,
		"exam_media_assets":     2,
		"exam_questions":        8,
		"exam_question_options": int64(result.Options),
		"exam_correct_answers":  8,
	})
}

func TestInsertBundleRollsBackOnOptionFailure(t *testing.T) {
	repo := newTestRepo(t)
	bundle := fractionsBundle(t)

	// Give the third question two rows with the same option id so the
	// option stage violates the composite primary key mid-transaction.
	thirdID := bundle.Questions[2].ID
	var indexes []int
	for i, o := range bundle.Options {
		if o.QuestionID == thirdID {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) < 2 {
		t.Fatalf("fixture third question has %d option rows, need at least 2", len(indexes))
	}
	bundle.Options[indexes[1]].OptionID = bundle.Options[indexes[0]].OptionID

	result, err := repo.InsertBundle(context.Background(), adminClaims(), bundle)
	if result != nil {
		t.Fatalf("failed insert returned a result: %+v", result)
	}
	var insertErr *repository.InsertError
	if !errors.As(err, &insertErr) {
		t.Fatalf("want *repository.InsertError, got %v", err)
	}
	if insertErr.Stage != repository.StageQuestionOption {
		t.Errorf("failure stage = %s, want %s", insertErr.Stage, repository.StageQuestionOption)
	}

	assertRowCounts(t, repo, contracttest.FractionsPackageID, map[string]int64{
		"exam_packages":         0,
		"exam_media_assets":     0,
		"exam_questions":        0,
		"exam_question_options": 0,
		"exam_correct_answers":  0,
	})
}

func TestInsertBundleRequiresAdmin(t *testing.T) {
	repo := newTestRepo(t)

	cases := map[string]*util.Claims{
		"nil claims":    nil,
		"author claims": {UserID: 2, Role: model.Author, Email: "author@example.com"},
	}
	for name, claims := range cases {
		result, err := repo.InsertBundle(context.Background(), claims, readingBundle(t))
		if !errors.Is(err, util.ErrPermissionDenied) {
			t.Errorf("%s: want ErrPermissionDenied, got %v", name, err)
		}
		if result != nil {
			t.Errorf("%s: denied insert returned a result", name)
		}
	}

	assertRowCounts(t, repo, contracttest.ReadingPackageID, map[string]int64{
		"exam_packages":         0,
		"exam_media_assets":     0,
		"exam_questions":        0,
		"exam_question_options": 0,
		"exam_correct_answers":  0,
	})
}

func TestInsertBundleRejectsDuplicatePackage(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.InsertBundle(context.Background(), adminClaims(), readingBundle(t)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := repo.InsertBundle(context.Background(), adminClaims(), readingBundle(t))
	var insertErr *repository.InsertError
	if !errors.As(err, &insertErr) {
		t.Fatalf("want *repository.InsertError, got %v", err)
	}
	if insertErr.Stage != repository.StagePackage {
		t.Errorf("failure stage = %s, want %s", insertErr.Stage, repository.StagePackage)
	}

	assertRowCounts(t, repo, contracttest.ReadingPackageID, map[string]int64{
		"exam_packages":  1,
		"exam_questions": 8,
	})
}

func TestLoadDetailGatesAnswers(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.InsertBundle(context.Background(), adminClaims(), readingBundle(t)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	public, err := repo.LoadDetail(context.Background(), contracttest.ReadingPackageID, false)
	if err != nil {
		t.Fatalf("load public detail: %v", err)
	}
	if len(public.Answers) != 0 {
		t.Errorf("public detail carries %d answer rows, want 0", len(public.Answers))
	}
	if len(public.Questions) != 8 {
		t.Errorf("public detail has %d questions, want 8", len(public.Questions))
	}

	admin, err := repo.LoadDetail(context.Background(), contracttest.ReadingPackageID, true)
	if err != nil {
		t.Fatalf("load admin detail: %v", err)
	}
	if len(admin.Answers) != 8 {
		t.Errorf("admin detail has %d answer rows, want 8", len(admin.Answers))
	}

	for i := 1; i < len(admin.Questions); i++ {
		if admin.Questions[i-1].SequenceNumber >= admin.Questions[i].SequenceNumber {
			t.Fatalf("questions not ordered by sequence: %d before %d",
				admin.Questions[i-1].SequenceNumber, admin.Questions[i].SequenceNumber)
		}
	}
}

func TestFindByIDUnknownPackage(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.FindByID(context.Background(), "00000000-0000-4000-8000-000000000000")
	if !errors.Is(err, util.ErrPackageNotFound) {
		t.Fatalf("want ErrPackageNotFound, got %v", err)
	}
}
