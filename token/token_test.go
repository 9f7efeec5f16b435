package token

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libmint-go/royalty"
)

var testTemplate = Template{
	TitlePrefix:   "The Glory Game #",
	Description:   "Glory awaits.",
	MediaBase:     "https://cdn.example.com/media/",
	MediaExt:      ".mp4",
	ReferenceBase: "https://cdn.example.com/meta",
	ReferenceExt:  ".json",
}

func TestParseID(t *testing.T) {
	id, err := ParseID("538")
	require.NoError(t, err)
	assert.Equal(t, ID(538), id)
	assert.Equal(t, "538", id.String())

	for _, bad := range []string{"0", "", "-1", "1.5", "abc"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestTemplateBuild(t *testing.T) {
	md := testTemplate.Build(17, 1663851600123)
	assert.Equal(t, "The Glory Game #17", md.Title)
	assert.Equal(t, "Glory awaits.", md.Description)
	assert.Equal(t, "https://cdn.example.com/media/17.mp4", md.Media)
	assert.Equal(t, "https://cdn.example.com/meta/17.json", md.Reference)
	assert.Equal(t, uint64(1663851600123), md.IssuedAt)
	assert.Empty(t, md.MediaHash)
	assert.Zero(t, md.Copies)
	assert.Zero(t, md.ExpiresAt)
	assert.Empty(t, md.Extra)
}

func TestTemplateBuild_IDRoundTrip(t *testing.T) {
	for _, id := range []ID{1, 9, 10, 538} {
		md := testTemplate.Build(id, 1)
		s := id.String()
		assert.True(t, strings.HasSuffix(md.Title, "#"+s))
		assert.True(t, strings.HasSuffix(md.Media, "/"+s+".mp4"))
		assert.True(t, strings.HasSuffix(md.Reference, "/"+s+".json"))
	}
}

func TestTemplateValidate(t *testing.T) {
	require.NoError(t, testTemplate.Validate())
	for _, mutate := range []func(*Template){
		func(t *Template) { t.TitlePrefix = "" },
		func(t *Template) { t.MediaBase = "" },
		func(t *Template) { t.ReferenceBase = "" },
	} {
		tpl := testTemplate
		mutate(&tpl)
		assert.ErrorIs(t, tpl.Validate(), ErrInvalidTemplate)
	}
}

func TestNewTokenAndView(t *testing.T) {
	split := royalty.Single("platform.near", 1000)
	tok := New(3, "alice.near", split)
	split["platform.near"] = 1
	assert.Equal(t, uint32(1000), tok.Royalty["platform.near"], "royalty is copied")
	assert.Empty(t, tok.Approvals)

	v := NewView(tok, testTemplate.Build(3, 99))
	b, err := json.Marshal(v)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "3", got["token_id"])
	assert.Equal(t, "alice.near", got["owner_id"])
	assert.Equal(t, map[string]any{}, got["approved_account_ids"])
	assert.Equal(t, map[string]any{"platform.near": float64(1000)}, got["royalty"])
	md := got["metadata"].(map[string]any)
	assert.Equal(t, "The Glory Game #3", md["title"])
	assert.NotContains(t, md, "media_hash")
}

func TestContractMetadataValidate(t *testing.T) {
	m := ContractMetadata{Spec: SpecVersion, Name: "TheGloryGames", Symbol: "GLORYGAMES"}
	require.NoError(t, m.Validate())
	m.Symbol = ""
	assert.ErrorIs(t, m.Validate(), ErrInvalidContractMetadata)
}
