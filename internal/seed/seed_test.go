package seed

import (
	"context"
	"strings"
	"testing"

	"lexstudy_backend/internal/content"
	"lexstudy_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const fixture = `
lessons:
  - id: lesson-1
    title: Contracts
    order: 1
    subsections:
      - title: Overview
        type: OVERVIEW
        order: 1
        content:
          text: Agreement
      - title: Practice
        type: PRACTICE_QUESTIONS
        order: 2
        content:
          questions:
            - question: Is silence acceptance?
              options: ["Yes", "No"]
              correctIndex: 1
`

func TestParseRejectsDuplicateOrder(t *testing.T) {
	_, err := Parse([]byte(`
lessons:
  - title: Torts
    subsections:
      - {title: a, type: OVERVIEW, order: 1}
      - {title: b, type: SUMMARY, order: 1}
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate subsection order") {
		t.Fatalf("got=%v", err)
	}
	if _, err := Parse([]byte("lessons:\n  - description: no title\n")); err == nil {
		t.Fatal("lesson without a title should be rejected")
	}
}

func TestImport(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	if err := db.AutoMigrate(&model.Lesson{}, &model.Subsection{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := Import(context.Background(), db, f)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Lessons != 1 || res.Subsections != 2 {
		t.Fatalf("result: %+v", res)
	}

	var sub model.Subsection
	if err := db.Where("lesson_id = ? AND sort_order = ?", "lesson-1", 2).First(&sub).Error; err != nil {
		t.Fatalf("find subsection: %v", err)
	}
	p, ok := content.Decode(sub.Type, sub.Content).(content.PracticeQuestions)
	if !ok || len(p.Questions) != 1 || p.Questions[0].CorrectIndex != 1 {
		t.Fatalf("stored content does not decode: %s", sub.Content)
	}

	again, err := Import(context.Background(), db, f)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.Skipped != 1 || again.Lessons != 0 {
		t.Fatalf("second import should skip the lesson: %+v", again)
	}
}

func TestSampleFileParses(t *testing.T) {
	f, err := Load("../../configs/seed.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, l := range f.Lessons {
		for _, s := range l.Subsections {
			if !s.Type.Known() {
				t.Fatalf("sample subsection %q has unknown type %q", s.Title, s.Type)
			}
		}
	}
}
