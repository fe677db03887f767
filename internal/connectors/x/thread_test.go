package x

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitThread_ShortTextIsOnePart(t *testing.T) {
	parts, err := SplitThread("  hello world  ", 0, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world"}, parts)
}

func TestSplitThread_Empty(t *testing.T) {
	_, err := SplitThread("   \n ", 280, true)
	assert.Error(t, err)
}

func TestSplitThread_ParagraphBoundaries(t *testing.T) {
	a := strings.Repeat("a", 150)
	b := strings.Repeat("b", 150)
	c := strings.Repeat("c", 150)

	parts, err := SplitThread(a+"\n\n"+b+"\n\n"+c, 280, false)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, parts)
}

func TestSplitThread_PacksSmallParagraphs(t *testing.T) {
	parts, err := SplitThread("one\n\ntwo\n\n"+strings.Repeat("x", 20), 20, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"one\n\ntwo", strings.Repeat("x", 20)}, parts)
}

func TestSplitThread_SentenceBoundaries(t *testing.T) {
	s1 := "First sentence is here."
	s2 := "Second one follows!"
	s3 := "Does the third fit?"

	parts, err := SplitThread(s1+" "+s2+" "+s3, 45, false)
	require.NoError(t, err)
	assert.Equal(t, []string{s1 + " " + s2, s3}, parts)
}

func TestSplitThread_WordBoundaries(t *testing.T) {
	parts, err := SplitThread("alpha beta gamma delta epsilon", 12, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha beta", "gamma delta", "epsilon"}, parts)
}

func TestSplitThread_LongWordIsCut(t *testing.T) {
	parts, err := SplitThread(strings.Repeat("z", 25), 10, false)
	require.NoError(t, err)
	assert.Equal(t, []string{strings.Repeat("z", 10), strings.Repeat("z", 10), strings.Repeat("z", 5)}, parts)
}

func TestSplitThread_NumberingCountsTowardLimit(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 12; i++ {
		paragraphs = append(paragraphs, strings.Repeat("w ", 130))
	}

	parts, err := SplitThread(strings.Join(paragraphs, "\n\n"), 280, true)
	require.NoError(t, err)
	require.Greater(t, len(parts), 9, "two-digit part count exercises suffix growth")

	for i, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 280, "part %d", i+1)
	}
	assert.True(t, strings.HasSuffix(parts[0], " 1/"+strconv.Itoa(len(parts))))
	assert.True(t, strings.HasSuffix(parts[len(parts)-1], " "+strconv.Itoa(len(parts))+"/"+strconv.Itoa(len(parts))))
}

func TestSplitThread_CountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("é", 280)
	parts, err := SplitThread(text, 280, true)
	require.NoError(t, err)
	assert.Equal(t, []string{text}, parts)
}

func TestSplitThread_LimitTooSmall(t *testing.T) {
	_, err := SplitThread("abcdef", 3, true)
	assert.Error(t, err)
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Wait... what?! Yes. v1.2 ships")
	assert.Equal(t, []string{"Wait...", "what?!", "Yes.", "v1.2 ships"}, got)
}
