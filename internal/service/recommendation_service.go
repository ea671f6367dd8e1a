package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "uniapply/internal/errors"
	"uniapply/internal/llm"
	"uniapply/internal/model"
	"uniapply/internal/repository"
)

// MaxRecommendations is the number of faculties the model is asked to pick.
const MaxRecommendations = 5

// fillerPhrases are removed verbatim from the free-text inputs. Replacement is literal and
// case-sensitive, so "i'm interested in physics" becomes " physics".
var fillerPhrases = []string{
	"i'm good at ",
	"i am good at ",
	"i'm interested in",
	"i am interested in",
}

// RecommendationService relays a student's preferences to a text-generation model.
type RecommendationService interface {
	Recommend(ctx context.Context, interestedIn, goodAt string) ([]string, error)
}

type recommendationService struct {
	universityRepo repository.UniversityRepository
	completer      llm.Completer
	log            *zap.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(universityRepo repository.UniversityRepository, completer llm.Completer, log *zap.Logger) RecommendationService {
	return &recommendationService{universityRepo: universityRepo, completer: completer, log: log}
}

// Recommend asks the model to pick matching "<faculty> of <university>" entries.
func (s *recommendationService) Recommend(ctx context.Context, interestedIn, goodAt string) ([]string, error) {
	interestedIn = CleanPreference(interestedIn)
	goodAt = CleanPreference(goodAt)

	faculties, err := s.universityRepo.ListFaculties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}

	text, err := s.completer.Complete(ctx, BuildPrompt(faculties, interestedIn, goodAt))
	if err != nil {
		s.log.Error("recommendation upstream failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	picks := ParseRecommendations(text)
	if len(picks) == 0 {
		s.log.Warn("recommendation upstream returned no usable text", zap.String("text", text))
		return nil, fmt.Errorf("%w: empty completion", apperrors.ErrUpstream)
	}
	return picks, nil
}

// CleanPreference strips known filler phrases from a free-text preference.
func CleanPreference(s string) string {
	for _, phrase := range fillerPhrases {
		s = strings.ReplaceAll(s, phrase, "")
	}
	return s
}

// BuildPrompt lists every faculty as "<faculty> of <university>" followed by the student's preferences.
func BuildPrompt(faculties []model.Faculty, interestedIn, goodAt string) string {
	entries := make([]string, 0, len(faculties))
	for _, f := range faculties {
		university := ""
		if f.University != nil {
			university = f.University.Name
		}
		entries = append(entries, fmt.Sprintf("%s of %s", f.Name, university))
	}

	var b strings.Builder
	b.WriteString("Here is a list of faculties: ")
	b.WriteString(strings.Join(entries, ", "))
	b.WriteString(".\n")
	fmt.Fprintf(&b, "A student is interested in %s and is good at %s.\n", interestedIn, goodAt)
	fmt.Fprintf(&b, "Pick exactly %d entries from the list that suit the student best. ", MaxRecommendations)
	b.WriteString("Answer with the entries exactly as written, separated by commas, and nothing else.")
	return b.String()
}

// ParseRecommendations splits the model's text on commas, trims each item and keeps at most
// MaxRecommendations non-empty items.
func ParseRecommendations(text string) []string {
	picks := make([]string, 0, MaxRecommendations)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		picks = append(picks, part)
		if len(picks) == MaxRecommendations {
			break
		}
	}
	return picks
}
