package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
)

func TestValidatePage(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "", want: 1},
		{in: "3", want: 3},
		{in: "0", want: 1},
		{in: "-5", want: 1},
		{in: "abc", wantErr: ErrInvalidPage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidatePage(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTextureID(t *testing.T) {
	id, err := ParseTextureID("42")
	require.NoError(t, err)
	assert.Equal(t, texture.ID(42), id)

	for _, bad := range []string{"", "0", "-1", "x"} {
		_, err = ParseTextureID(bad)
		assert.ErrorIs(t, err, ErrInvalidTextureID, bad)
	}
}

func TestParseUploaderID(t *testing.T) {
	id, err := ParseUploaderID("")
	require.NoError(t, err)
	assert.Equal(t, user.ID(0), id)

	id, err = ParseUploaderID("7")
	require.NoError(t, err)
	assert.Equal(t, user.ID(7), id)

	_, err = ParseUploaderID("-7")
	assert.ErrorIs(t, err, ErrInvalidUploader)
}

func TestParseFilterAndSort(t *testing.T) {
	assert.Equal(t, texture.TypeSkinGroup, ParseFilter(""))
	assert.Equal(t, texture.TypeCape, ParseFilter(" cape "))
	assert.Equal(t, texture.SortTime, ParseSort(""))
	assert.Equal(t, texture.SortLikes, ParseSort("likes"))
}

func TestParseVisibility(t *testing.T) {
	assert.Nil(t, ParseVisibility(""))
	assert.Nil(t, ParseVisibility("maybe"))
	require.NotNil(t, ParseVisibility("1"))
	assert.True(t, *ParseVisibility("1"))
	assert.False(t, *ParseVisibility("false"))
}
