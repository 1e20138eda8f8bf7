package common

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple title", input: "Beach Trips", want: "beach-trips"},
		{name: "already a slug", input: "beach-trips", want: "beach-trips"},
		{name: "trailing whitespace", input: "beach-trips ", want: "beach-trips"},
		{name: "mixed case and punctuation", input: "G'day, Mate!", want: "g-day-mate"},
		{name: "run of separators", input: "Reef -- & -- Diving", want: "reef-diving"},
		{name: "leading separators", input: "---Outback", want: "outback"},
		{name: "numbers kept", input: "Top 10 Beaches 2024", want: "top-10-beaches-2024"},
		{name: "no alphanumerics", input: "!!!", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.input))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Uluru & Kata Tjuta"), Slugify("Uluru & Kata Tjuta"))
}

func TestSlugifyAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	inputs := []string{"Beach Trips", "G'day, Mate!", "  Great   Ocean   Road  ", "100% Pure"}
	for _, input := range inputs {
		slug := Slugify(input)
		assert.True(t, valid.MatchString(slug), "slug %q from %q", slug, input)
	}
}

func TestUniqueSlug(t *testing.T) {
	ctx := context.Background()

	t.Run("no collision", func(t *testing.T) {
		slug, err := UniqueSlug(ctx, "beach-trips", func(ctx context.Context, slug string) (bool, error) {
			return false, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "beach-trips", slug)
	})

	t.Run("collision appends suffix", func(t *testing.T) {
		taken := map[string]bool{"beach-trips": true}
		slug, err := UniqueSlug(ctx, "beach-trips", func(ctx context.Context, s string) (bool, error) {
			return taken[s], nil
		})
		assert.NoError(t, err)
		assert.NotEqual(t, "beach-trips", slug)
		assert.Regexp(t, `^beach-trips-\d{4}$`, slug)
	})

	t.Run("check error propagates", func(t *testing.T) {
		_, err := UniqueSlug(ctx, "beach-trips", func(ctx context.Context, s string) (bool, error) {
			return false, assert.AnError
		})
		assert.Error(t, err)
	})
}
