package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "plain", content: " [] ", want: "[]"},
		{name: "json fence", content: "```json\n[{\"title\":\"a\"}]\n```", want: "[{\"title\":\"a\"}]"},
		{name: "bare fence", content: "```\n[]\n```\n", want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.content))
		})
	}
}

func TestGenerateTaskDrafts(t *testing.T) {
	chat := &fakeChat{content: `[{"title":"Ship it","priority":"High","due_date":"2024-03-02"}]`}
	svc := newAIService(chat)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	drafts, err := svc.GenerateTaskDrafts(context.Background(), "Launch", "ship tomorrow")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Ship it", drafts[0].Title)
	require.NotNil(t, drafts[0].DueDate)
	assert.Equal(t, "2024-03-02", *drafts[0].DueDate)
	assert.Contains(t, chat.prompt, "Today: 2024-03-01")
	assert.Contains(t, chat.prompt, "ship tomorrow")
}

func TestGenerateTaskDrafts_BadJSON(t *testing.T) {
	svc := newAIService(&fakeChat{content: "sorry, no tasks"})

	_, err := svc.GenerateTaskDrafts(context.Background(), "Launch", "text")
	assert.ErrorContains(t, err, "failed to parse AI response")
}

func TestGenerateTaskDrafts_NilService(t *testing.T) {
	var svc *AIService
	_, err := svc.GenerateTaskDrafts(context.Background(), "Launch", "text")
	assert.Error(t, err)
}
