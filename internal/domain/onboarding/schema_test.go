package onboarding_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/domain/onboarding"
)

func fieldErrors(t *testing.T, err error) entity.ValidationErrors {
	t.Helper()
	var errs entity.ValidationErrors
	require.True(t, errors.As(err, &errs), "expected entity.ValidationErrors, got %T", err)
	return errs
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name       string
		input      onboarding.ProfileInput
		want       onboarding.Profile
		wantFields []string
	}{
		{
			name:       "one character first name is rejected",
			input:      onboarding.ProfileInput{FirstName: "A", LastName: "Smith"},
			wantFields: []string{"firstName"},
		},
		{
			name:  "two character names pass",
			input: onboarding.ProfileInput{FirstName: "Al", LastName: "Bo"},
			want:  onboarding.Profile{FirstName: "Al", LastName: "Bo"},
		},
		{
			name:  "whitespace is trimmed",
			input: onboarding.ProfileInput{FirstName: "  Chloé ", LastName: " Dubois", Bio: " hi "},
			want:  onboarding.Profile{FirstName: "Chloé", LastName: "Dubois", Bio: "hi"},
		},
		{
			name:       "missing names are both reported",
			input:      onboarding.ProfileInput{},
			wantFields: []string{"firstName", "lastName"},
		},
		{
			name:       "padding does not count toward the minimum",
			input:      onboarding.ProfileInput{FirstName: " A ", LastName: "Bo"},
			wantFields: []string{"firstName"},
		},
		{
			name:       "names longer than fifty characters are rejected",
			input:      onboarding.ProfileInput{FirstName: strings.Repeat("x", 51), LastName: "Bo"},
			wantFields: []string{"firstName"},
		},
		{
			name:       "bio over limit is rejected",
			input:      onboarding.ProfileInput{FirstName: "Al", LastName: "Bo", Bio: strings.Repeat("b", 281)},
			wantFields: []string{"bio"},
		},
		{
			name:  "multibyte characters count as one",
			input: onboarding.ProfileInput{FirstName: "Éa", LastName: "Öb"},
			want:  onboarding.Profile{FirstName: "Éa", LastName: "Öb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := onboarding.ValidateProfile(tt.input)
			if tt.wantFields != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, entity.ErrValidationFailed)
				assert.Equal(t, tt.wantFields, fieldErrors(t, err).Fields())
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ValidateProfile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func interests(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "topic"
	}
	return out
}

func TestValidateInterests(t *testing.T) {
	tests := []struct {
		name       string
		input      []string
		wantFields []string
	}{
		{name: "zero interests rejected", input: nil, wantFields: []string{"interests"}},
		{name: "one interest passes", input: interests(1)},
		{name: "ten interests pass", input: interests(10)},
		{name: "eleven interests rejected", input: interests(11), wantFields: []string{"interests"}},
		{name: "blank entry rejected", input: []string{"go", "  "}, wantFields: []string{"interests[1]"}},
		{name: "long entry rejected", input: []string{strings.Repeat("z", 51)}, wantFields: []string{"interests[0]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := onboarding.ValidateInterests(onboarding.InterestsInput{Interests: tt.input})
			if tt.wantFields != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantFields, fieldErrors(t, err).Fields())
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.Interests, len(tt.input))
		})
	}
}

func TestValidateInterests_Trims(t *testing.T) {
	got, err := onboarding.ValidateInterests(onboarding.InterestsInput{Interests: []string{" design ", "go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"design", "go"}, got.Interests)
}

func TestBounds(t *testing.T) {
	name := func(n int) string { return strings.Repeat("n", n) }

	_, err := onboarding.ValidateProfile(onboarding.ProfileInput{
		FirstName: name(onboarding.NameMaxLength),
		LastName:  name(onboarding.NameMinLength),
		Bio:       strings.Repeat("b", onboarding.BioMaxLength),
	})
	require.NoError(t, err)

	_, err = onboarding.ValidateProfile(onboarding.ProfileInput{
		FirstName: name(onboarding.NameMinLength - 1),
		LastName:  name(onboarding.NameMaxLength + 1),
		Bio:       strings.Repeat("b", onboarding.BioMaxLength+1),
	})
	errs := fieldErrors(t, err)
	assert.Equal(t, []string{"firstName", "lastName", "bio"}, errs.Fields())
	assert.Equal(t, "must be at most 50 characters", errs[1].Message)
	assert.Equal(t, "must be at most 280 characters", errs[2].Message)

	_, err = onboarding.ValidateInterests(onboarding.InterestsInput{Interests: interests(onboarding.InterestsMax + 1)})
	errs = fieldErrors(t, err)
	assert.Equal(t, "select at most 10 interests", errs[0].Message)

	_, err = onboarding.ValidateInterests(onboarding.InterestsInput{Interests: []string{name(onboarding.InterestMaxLength)}})
	require.NoError(t, err)
}

func TestValidateInterests_ReportsEveryBadEntry(t *testing.T) {
	_, err := onboarding.ValidateInterests(onboarding.InterestsInput{
		Interests: []string{"", "ok", strings.Repeat("z", 51)},
	})
	errs := fieldErrors(t, err)
	assert.Equal(t, []string{"interests[0]", "interests[2]"}, errs.Fields())
	assert.Equal(t, "is required", errs[0].Message)
	assert.Equal(t, "must be at most 50 characters", errs[1].Message)
}
