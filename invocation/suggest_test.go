package invocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("esm", "esm"))
	assert.Equal(t, 1, levenshtein("esm", "esn"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}

func TestSuggest(t *testing.T) {
	candidates := []string{"esm_malden", "esm_altis", "esm_tanoa", "abc_xyz"}

	assert.Equal(t, []string{"esm_malden"}, Suggest("esm_maldn", candidates, 3))
	assert.Equal(t, []string{"esm_malden", "esm_altis"}, Suggest("esm_alden", candidates, 2))
	assert.Empty(t, Suggest("zzzzzzzzzzzzzz", candidates, 3))
	assert.Nil(t, Suggest("", candidates, 3))
	assert.Nil(t, Suggest("esm", candidates, 0))
}
