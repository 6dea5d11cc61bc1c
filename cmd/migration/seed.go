package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/postgres"
)

const (
	defaultTemplateFile = "./db/seed/question_templates.yaml"
	seedTimeout         = 30 * time.Second
)

type templateFile struct {
	Templates []templateEntry `yaml:"templates"`
}

type templateEntry struct {
	ID         string   `yaml:"id"`
	Text       string   `yaml:"text"`
	Type       string   `yaml:"type"`
	Options    []string `yaml:"options"`
	PointValue int64    `yaml:"point_value"`
}

func newSeedTemplatesCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-templates",
		Short: "Upsert the question template library from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrapf(err, "read template file %s", file)
			}
			templates, err := parseTemplateFile(raw)
			if err != nil {
				return errors.Wrapf(err, "parse template file %s", file)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), seedTimeout)
			defer cancel()

			db, err := sqlx.ConnectContext(ctx, "postgres", opts.dbURL)
			if err != nil {
				return errors.Wrap(err, "connect postgres")
			}
			defer func() {
				_ = db.Close()
			}()

			if err := postgres.NewQuestionTemplateRepository(db).UpsertTemplates(ctx, templates); err != nil {
				return err
			}
			opts.logger.Info("question templates seeded", "file", file, "count", len(templates))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", envOr("TEMPLATE_SEED_FILE", defaultTemplateFile), "template library yaml")
	return cmd
}

// parseTemplateFile decodes and validates a template library. Ids must be
// unique within the file.
func parseTemplateFile(raw []byte) ([]question.Template, error) {
	var doc templateFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if len(doc.Templates) == 0 {
		return nil, errors.New("no templates defined")
	}

	out := make([]question.Template, 0, len(doc.Templates))
	seen := make(map[string]struct{}, len(doc.Templates))
	for i, entry := range doc.Templates {
		id := strings.TrimSpace(entry.ID)
		if _, ok := seen[id]; ok {
			return nil, errors.Newf("templates[%d]: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		typ, err := question.ParseType(entry.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "templates[%d]", i)
		}
		pointValue := entry.PointValue
		if pointValue == 0 {
			pointValue = question.DefaultPointValue
		}

		tpl := question.Template{
			ID: id,
			Content: question.Content{
				Text:       entry.Text,
				Type:       typ,
				Options:    entry.Options,
				PointValue: pointValue,
			}.Clean(),
		}
		if err := tpl.Validate(); err != nil {
			return nil, errors.Wrapf(err, "templates[%d] %s", i, id)
		}
		out = append(out, tpl)
	}

	return out, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
