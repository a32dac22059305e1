package hashtags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	list := Append(nil, "шашлык")
	list = Append(list, "двор")
	assert.Equal(t, []string{"шашлык", "двор"}, list)

	// Пустое и пробельное не добавляем.
	assert.Equal(t, list, Append(list, ""))
	assert.Equal(t, list, Append(list, "   "))
}

func TestAppend_DoesNotMutateOriginal(t *testing.T) {
	orig := []string{"a"}
	_ = Append(orig, "b")
	assert.Equal(t, []string{"a"}, orig)
}

func TestRemove_FirstOccurrence(t *testing.T) {
	list := []string{"a", "b", "a"}
	got := Remove(list, "a")
	assert.Equal(t, []string{"b", "a"}, got)
	// Исходный список не меняется.
	assert.Equal(t, []string{"a", "b", "a"}, list)

	assert.Equal(t, []string{"a", "b", "a"}, Remove(list, "нет такого"))
}

func TestReplace(t *testing.T) {
	src := []string{"x", "y"}
	got := Replace(src)
	assert.Equal(t, src, got)

	got[0] = "z"
	assert.Equal(t, "x", src[0])
}

func TestWrap(t *testing.T) {
	s, err := Wrap([]string{"плов", "вечер"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hashtags":["плов","вечер"]}`, s)
}

func TestWrap_Empty(t *testing.T) {
	// Пустой список — это [], а не null.
	s, err := Wrap(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hashtags":[]}`, s)
}
