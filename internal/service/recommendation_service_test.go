package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "uniapply/internal/errors"
	"uniapply/internal/model"
)

func TestCleanPreference(t *testing.T) {
	assert.Equal(t, "math", CleanPreference("i'm good at math"))
	assert.Equal(t, " physics", CleanPreference("i'm interested in physics"))
	assert.Equal(t, "chemistry", CleanPreference("i am good at chemistry"))
	// matching is case-sensitive
	assert.Equal(t, "I'm good at art", CleanPreference("I'm good at art"))
}

func TestParseRecommendations(t *testing.T) {
	got := ParseRecommendations(" A of X, B of Y ,, C of Z, D of X, E of Y, F of Z ")
	assert.Equal(t, []string{"A of X", "B of Y", "C of Z", "D of X", "E of Y"}, got)
	assert.Empty(t, ParseRecommendations(" , "))
}

func TestBuildPrompt(t *testing.T) {
	faculties := []model.Faculty{
		{Name: "Physics", University: &model.University{Name: "MIT"}},
		{Name: "Law", University: &model.University{Name: "Yale"}},
	}
	prompt := BuildPrompt(faculties, "space", "math")

	assert.Contains(t, prompt, "Physics of MIT, Law of Yale")
	assert.Contains(t, prompt, "interested in space")
	assert.Contains(t, prompt, "good at math")
	assert.Contains(t, prompt, "5 entries")
}

func TestRecommendationService_Recommend(t *testing.T) {
	universities := new(MockUniversityRepository)
	universities.On("ListFaculties", mock.Anything).Return([]model.Faculty{
		{Name: "Physics", University: &model.University{Name: "MIT"}},
	}, nil)
	completer := &stubCompleter{text: "Physics of MIT, Math of MIT"}

	svc := NewRecommendationService(universities, completer, zap.NewNop())
	picks, err := svc.Recommend(context.Background(), "i'm interested in physics", "i'm good at math")
	require.NoError(t, err)

	assert.Equal(t, []string{"Physics of MIT", "Math of MIT"}, picks)
	assert.Contains(t, completer.prompt, "interested in  physics")
	assert.Contains(t, completer.prompt, "good at math")
	assert.NotContains(t, completer.prompt, "i'm good at")
}

func TestRecommendationService_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
	}{
		{name: "error", completer: &stubCompleter{err: errors.New("connection refused")}},
		{name: "empty text", completer: &stubCompleter{text: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			universities := new(MockUniversityRepository)
			universities.On("ListFaculties", mock.Anything).Return([]model.Faculty{}, nil)

			svc := NewRecommendationService(universities, tt.completer, zap.NewNop())
			_, err := svc.Recommend(context.Background(), "a", "b")
			assert.ErrorIs(t, err, apperrors.ErrUpstream)
		})
	}
}
