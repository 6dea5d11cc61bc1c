package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/castaway-league/internal/domain/question"
)

func TestParseTemplateFile(t *testing.T) {
	raw := []byte(`
templates:
  - id: tpl-immunity-winner
    text: "  Which tribe wins immunity?  "
    type: multiple_choice
    options: [" Red", "Blue "]
    point_value: 5
  - id: tpl-voted-out
    text: Who is voted out?
    type: FILL_IN_THE_BLANK
`)

	templates, err := parseTemplateFile(raw)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	assert.Equal(t, "Which tribe wins immunity?", templates[0].Text)
	assert.Equal(t, question.TypeMultipleChoice, templates[0].Type)
	assert.Equal(t, []string{"Red", "Blue"}, templates[0].Options)
	assert.Equal(t, int64(5), templates[0].PointValue)

	assert.Equal(t, question.TypeFillInTheBlank, templates[1].Type)
	assert.Equal(t, question.DefaultPointValue, templates[1].PointValue)
}

func TestParseTemplateFile_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "templates: []",
		"bad yaml":     "templates: [",
		"unknown type": "templates:\n  - id: a\n    text: q\n    type: ESSAY\n",
		"one option":   "templates:\n  - id: a\n    text: q\n    type: MULTIPLE_CHOICE\n    options: [Red]\n",
		"fitb options": "templates:\n  - id: a\n    text: q\n    type: FILL_IN_THE_BLANK\n    options: [Red, Blue]\n",
		"missing id":   "templates:\n  - text: q\n    type: FILL_IN_THE_BLANK\n",
		"duplicate id": "templates:\n  - id: a\n    text: q\n    type: FILL_IN_THE_BLANK\n  - id: a\n    text: r\n    type: FILL_IN_THE_BLANK\n",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseTemplateFile([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseTemplateFile_BundledLibrary(t *testing.T) {
	raw, err := os.ReadFile("../../db/seed/question_templates.yaml")
	require.NoError(t, err)

	templates, err := parseTemplateFile(raw)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(templates), 3)
}
