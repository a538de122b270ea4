package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderDefaults(t *testing.T) {
	l := Loader{}
	comp, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"the", "figure"}, comp.SentenceTokenizer.Tokenize("The figure"),
		"sentence ranking keeps stopwords")
	assert.Equal(t, []string{"figure"}, comp.KeywordTokenizer.Tokenize("The figure"))

	kws, err := comp.Keywords.Extract("figure figure table appendix", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"figure", "appendix", "table"}, kws)

	assert.Equal(t, "One. Two.", comp.Summarizer.Summarize("One. Two.", 1))
}

func TestLoaderExtraStoplist(t *testing.T) {
	path := writeFile(t, "stoplist.yaml", "terms:\n  - Figure\n")

	cfg := Default()
	cfg.StoplistPath = path
	cfg.Keywords.Max = 2

	l := cfg.Loader(nil)
	comp, err := l.Load()
	require.NoError(t, err)

	kws, err := comp.Keywords.Extract("figure figure figure network network protocol", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"network", "protocol"}, kws)
}

func TestLoaderMissingStoplist(t *testing.T) {
	l := Loader{StoplistPath: "/nonexistent/stoplist.yaml"}
	_, err := l.Load()
	assert.Error(t, err)
}
