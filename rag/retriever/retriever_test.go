package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetpotato0/socratiq/contrib/corpus/inmemory"
	errorskg "github.com/sweetpotato0/socratiq/errors"
)

func seed(t *testing.T, docs map[string]string) *inmemory.Store {
	t.Helper()
	s := inmemory.New()
	for key, body := range docs {
		require.NoError(t, s.Put(context.Background(), "finn", key, []byte(body)))
	}
	return s
}

func TestRetrieveRanksFiltersAndCaps(t *testing.T) {
	store := seed(t, map[string]string{
		"documents/roi/rnpv.md": "# rNPV Primer\n\n**Source**: Internal Models\n\nrNPV rnpv rnpv discounting with WACC. Probability of success drives rNPV.",
		"documents/roi/irr.md":  "# IRR\n\nrnpv mentioned once. IRR and NPV compared.",
		"documents/misc/x.md":   "# Unrelated\n\nNothing to see here.",
		"documents/folder/":     "",
	})
	r := New(store)

	docs, err := r.Retrieve(context.Background(), "finn", "rnpv", WithSubRole("FINN-ROI"), WithMaxResults(2))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "rNPV Primer", docs[0].Title)
	assert.Equal(t, "Internal Models", docs[0].Source)
	assert.Equal(t, "roi", docs[0].Category)
	assert.Equal(t, "mem://finn/documents/roi/rnpv.md", docs[0].URL)
	assert.GreaterOrEqual(t, docs[0].RelevanceScore, docs[1].RelevanceScore)
	for _, d := range docs {
		assert.GreaterOrEqual(t, d.RelevanceScore, 0.1)
	}
	assert.Equal(t, "finn", docs[0].Metadata["bucket"])
}

func TestRetrieveEmptyCollection(t *testing.T) {
	docs, err := New(inmemory.New()).Retrieve(context.Background(), "finn", "What is the rNPV")
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)
}

func TestRetrieveSkipsFailedFetch(t *testing.T) {
	store := seed(t, map[string]string{
		"documents/a.md": "budget runway budget runway budget runway",
		"documents/b.md": "budget runway budget runway budget runway",
	})
	store.GetErr = map[string]error{"documents/a.md": errors.New("access denied")}

	docs, err := New(store).Retrieve(context.Background(), "finn", "budget runway", WithSubRole("FINN-Budget"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "documents/b.md", docs[0].Metadata["key"])
}

func TestRetrieveListingFailure(t *testing.T) {
	store := inmemory.New()
	store.ListErr = fmt.Errorf("bucket gone")

	_, err := New(store).Retrieve(context.Background(), "finn", "anything")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorskg.ErrRetrieval))
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestAttribution(t *testing.T) {
	store := seed(t, map[string]string{
		"CORPUS_ATTRIBUTION_METADATA.json": `{"license":"CC-BY-4.0","documents":12}`,
	})
	meta, err := New(store).Attribution(context.Background(), "finn")
	require.NoError(t, err)
	assert.Equal(t, "CC-BY-4.0", meta["license"])

	none, err := New(inmemory.New()).Attribution(context.Background(), "finn")
	require.NoError(t, err)
	assert.Nil(t, none)
}
