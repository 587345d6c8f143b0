// Package seed imports lessons from a YAML fixture file.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"lexstudy_backend/internal/content"
	"lexstudy_backend/internal/model"
	"lexstudy_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type File struct {
	Lessons []Lesson `yaml:"lessons"`
}

type Lesson struct {
	ID                string       `yaml:"id"`
	Title             string       `yaml:"title"`
	Description       string       `yaml:"description"`
	Order             *int         `yaml:"order"`
	EstimatedDuration *int         `yaml:"estimated_duration"`
	Subsections       []Subsection `yaml:"subsections"`
}

type Subsection struct {
	ID      string         `yaml:"id"`
	Title   string         `yaml:"title"`
	Type    content.Type   `yaml:"type"`
	Order   int            `yaml:"order"`
	Content map[string]any `yaml:"content"`
}

// Load 读取并校验种子文件
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, l := range f.Lessons {
		if l.Title == "" {
			return fmt.Errorf("lesson #%d: title is required", i+1)
		}
		orders := make(map[int]bool, len(l.Subsections))
		for _, s := range l.Subsections {
			if orders[s.Order] {
				return fmt.Errorf("lesson %q: duplicate subsection order %d", l.Title, s.Order)
			}
			orders[s.Order] = true
		}
	}
	return nil
}

type Result struct {
	Lessons     int
	Subsections int
	Skipped     int
}

// Import 写入课程及小节，已存在的课程（按 ID）跳过
func Import(ctx context.Context, db *gorm.DB, f *File) (Result, error) {
	var res Result
	for _, l := range f.Lessons {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if l.ID != "" {
				var existing model.Lesson
				err := tx.Where("id = ?", l.ID).First(&existing).Error
				if err == nil {
					res.Skipped++
					return nil
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}

			lesson := model.Lesson{
				Title:             l.Title,
				Description:       l.Description,
				Order:             l.Order,
				EstimatedDuration: l.EstimatedDuration,
			}
			lesson.ID = l.ID
			if err := tx.Create(&lesson).Error; err != nil {
				return fmt.Errorf("create lesson %q: %w", l.Title, err)
			}

			for _, s := range l.Subsections {
				if !s.Type.Known() {
					logger.Log.Warn("seed subsection has unknown type, it will render as an overview",
						zap.String("lesson", l.Title),
						zap.String("type", string(s.Type)),
					)
				}
				raw, err := json.Marshal(s.Content)
				if err != nil {
					return fmt.Errorf("encode content of %q: %w", s.Title, err)
				}
				sub := model.Subsection{
					LessonID: lesson.ID,
					Title:    s.Title,
					Type:     s.Type,
					Order:    s.Order,
					Content:  datatypes.JSON(raw),
				}
				sub.ID = s.ID
				if err := tx.Create(&sub).Error; err != nil {
					return fmt.Errorf("create subsection %q: %w", s.Title, err)
				}
				res.Subsections++
			}
			res.Lessons++
			return nil
		})
		if err != nil {
			return res, err
		}
	}
	logger.Log.Info("seed imported",
		zap.Int("lessons", res.Lessons),
		zap.Int("subsections", res.Subsections),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}
