package campaign

import (
	"errors"
	"testing"

	"adspark/internal/ai"
	"adspark/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImage = "data:image/png;base64,iVBORw0KGgo="

func draftState(t *testing.T) State {
	t.Helper()
	s, err := Apply(State{}, Uploaded{Campaign: NewCampaign("1", "shoe.png", testImage)})
	require.NoError(t, err)
	return s
}

func TestApplyUploaded(t *testing.T) {
	s := draftState(t)

	assert.Equal(t, models.CampaignStatusDraft, s.Campaign.Status)
	assert.Equal(t, "shoe", s.Campaign.ProductName)
	assert.Empty(t, s.Campaign.Variants)
	assert.Empty(t, s.GenerationToken)
}

func TestApplyGenerationSucceeded(t *testing.T) {
	s := draftState(t)

	s, err := Apply(s, GenerationStarted{Token: "t1"})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusGenerating, s.Campaign.Status)
	assert.Empty(t, s.Campaign.Variants)

	copies := []ai.AdCopy{
		{Headline: "A", Body: "a", CTA: "Go", Angle: "Emotional Appeal"},
		{Headline: "B", Body: "b", CTA: "Go", Angle: "Problem-Solving"},
	}
	s, err = Apply(s, GenerationSucceeded{Token: "t1", Copies: copies})
	require.NoError(t, err)

	want := []models.Variant{
		{ID: "variant-0", Headline: "A", Body: "a", CTA: "Go", Angle: "Emotional Appeal", ImageURL: testImage},
		{ID: "variant-1", Headline: "B", Body: "b", CTA: "Go", Angle: "Problem-Solving", ImageURL: testImage},
	}
	assert.Equal(t, models.CampaignStatusReady, s.Campaign.Status)
	assert.Empty(t, s.GenerationToken)
	if diff := cmp.Diff(want, s.Campaign.Variants); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyGenerationFailedUsesFallback(t *testing.T) {
	s := draftState(t)
	s, err := Apply(s, GenerationStarted{Token: "t1"})
	require.NoError(t, err)

	s, err = Apply(s, GenerationFailed{Token: "t1", Err: ai.ErrGenerationUnavailable})
	require.NoError(t, err)

	assert.Equal(t, models.CampaignStatusReady, s.Campaign.Status)
	require.Len(t, s.Campaign.Variants, 3)
	assert.Equal(t, FallbackVariants(testImage), s.Campaign.Variants)

	angles := []string{}
	for _, v := range s.Campaign.Variants {
		angles = append(angles, v.Angle)
		assert.Equal(t, testImage, v.ImageURL)
	}
	assert.Equal(t, []string{"Emotional Appeal", "Urgency", "Social Proof"}, angles)
}

func TestApplyEmptyBatchUsesFallback(t *testing.T) {
	s := draftState(t)
	s, _ = Apply(s, GenerationStarted{Token: "t1"})

	s, err := Apply(s, GenerationSucceeded{Token: "t1", Copies: []ai.AdCopy{}})
	require.NoError(t, err)
	assert.Equal(t, FallbackVariants(testImage), s.Campaign.Variants)
}

func TestApplyStaleToken(t *testing.T) {
	s := draftState(t)
	s, _ = Apply(s, GenerationStarted{Token: "first"})
	s, _ = Apply(s, GenerationStarted{Token: "second"})
	assert.Equal(t, "second", s.GenerationToken)

	after, err := Apply(s, GenerationSucceeded{Token: "first", Copies: []ai.AdCopy{{Headline: "old"}}})
	assert.ErrorIs(t, err, ErrStaleGeneration)
	assert.Equal(t, s, after)

	after, err = Apply(s, GenerationFailed{Token: "first"})
	assert.ErrorIs(t, err, ErrStaleGeneration)
	assert.Equal(t, s, after)
}

func TestApplyResultWithoutGenerationIsStale(t *testing.T) {
	s := draftState(t)

	_, err := Apply(s, GenerationSucceeded{Token: "", Copies: []ai.AdCopy{{Headline: "x"}}})
	assert.ErrorIs(t, err, ErrStaleGeneration)
}

func TestApplyInvalidTransitions(t *testing.T) {
	s := draftState(t)
	s, _ = Apply(s, GenerationStarted{Token: "t1"})
	s, _ = Apply(s, GenerationFailed{Token: "t1"})
	require.Equal(t, models.CampaignStatusReady, s.Campaign.Status)

	after, err := Apply(s, GenerationStarted{Token: "t2"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, s, after)

	_, err = Apply(draftState(t), GenerationStarted{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := draftState(t)
	s, _ = Apply(s, GenerationStarted{Token: "t1"})
	s, _ = Apply(s, GenerationSucceeded{Token: "t1", Copies: []ai.AdCopy{{Headline: "A"}}})

	snapshot := s.clone()
	next, err := Apply(s, Uploaded{Campaign: NewCampaign("2", "bag.jpg", testImage)})
	require.NoError(t, err)

	assert.Equal(t, snapshot, s)
	assert.Equal(t, "bag", next.Campaign.ProductName)
	assert.Empty(t, next.Campaign.Variants)

	next.Campaign.Variants = append(next.Campaign.Variants, models.Variant{ID: "x"})
	assert.Len(t, s.Campaign.Variants, 1)
}

func TestFallbackVariantsIsFreshCopy(t *testing.T) {
	a := FallbackVariants("img")
	a[0].Headline = "changed"

	b := FallbackVariants("img")
	assert.Equal(t, "Revolutionize Your Look", b[0].Headline)
	assert.Equal(t, []string{"mock-1", "mock-2", "mock-3"}, []string{b[0].ID, b[1].ID, b[2].ID})
}

type unknownEvent struct{}

func (unknownEvent) isEvent() {}

func TestApplyUnknownEvent(t *testing.T) {
	_, err := Apply(draftState(t), unknownEvent{})
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}
