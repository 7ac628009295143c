package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"diet-planner/internal/planner"
)

// TemplateStore persists imported meal templates as one JSON file per
// template under a base directory. Templates loaded at startup extend the
// built-in fallback library.
type TemplateStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewTemplateStore creates the store, creating the base directory if needed.
func NewTemplateStore(baseDir string, logger *zap.Logger) (*TemplateStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}
	return &TemplateStore{baseDir: baseDir, logger: logger.Named("storage")}, nil
}

// Save writes a template to disk and returns its file path. The file name is
// derived from the meal type and template name.
func (s *TemplateStore) Save(t planner.MealTemplate) (string, error) {
	if t.Name == "" {
		return "", fmt.Errorf("template has no name")
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal template %s: %w", t.Name, err)
	}

	path := filepath.Join(s.baseDir, fileName(string(t.MealType), t.Name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write template %s: %w", t.Name, err)
	}

	s.logger.Info("saved meal template", zap.String("name", t.Name), zap.String("path", path))
	return path, nil
}

// LoadAll reads every template file from the base directory. Unreadable or
// malformed files are logged and skipped so one bad import cannot block
// startup.
func (s *TemplateStore) LoadAll() ([]planner.MealTemplate, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var templates []planner.MealTemplate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable template", zap.String("path", path), zap.Error(err))
			continue
		}
		var t planner.MealTemplate
		if err := json.Unmarshal(data, &t); err != nil {
			s.logger.Warn("skipping malformed template", zap.String("path", path), zap.Error(err))
			continue
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func fileName(mealType, name string) string {
	slug := strings.ToLower(name)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(strings.Join(strings.FieldsFunc(slug, func(r rune) bool { return r == '-' }), "-"), "-")
	if slug == "" {
		slug = "template"
	}
	return fmt.Sprintf("%s_%s.json", mealType, slug)
}
