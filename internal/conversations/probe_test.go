package conversations

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructure(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewParser(fs, nil)

	writeArchive(t, fs, "/list.json", sampleConversations())
	ok, issues := p.ValidateStructure("/list.json")
	assert.True(t, ok)
	assert.Empty(t, issues)

	writeArchive(t, fs, "/wrapped.json", map[string]any{"conversations": sampleConversations()})
	ok, _ = p.ValidateStructure("/wrapped.json")
	assert.True(t, ok)

	writeArchive(t, fs, "/bad-values.json", map[string]any{"x": "not an object"})
	ok, issues = p.ValidateStructure("/bad-values.json")
	assert.False(t, ok)
	assert.NotEmpty(t, issues)

	writeArchive(t, fs, "/scalar.json", 42)
	ok, issues = p.ValidateStructure("/scalar.json")
	assert.False(t, ok)
	assert.NotEmpty(t, issues)

	require.NoError(t, afero.WriteFile(fs, "/broken.json", []byte("{oops"), 0o644))
	ok, issues = p.ValidateStructure("/broken.json")
	assert.False(t, ok)
	assert.NotEmpty(t, issues)

	ok, issues = p.ValidateStructure("/missing.json")
	assert.False(t, ok)
	assert.Equal(t, []string{"File not found"}, issues)
}

func TestDetectSchemaList(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeArchive(t, fs, "/list.json", sampleConversations())

	info := NewParser(fs, nil).DetectSchema("/list.json")
	assert.Equal(t, "list", info.RootType)
	assert.Equal(t, 2, info.EstimatedConversations)
	assert.Contains(t, info.SampleKeys, "uuid")
	assert.Equal(t, "chat_messages", info.MessageKey)
	assert.Contains(t, info.SampleMessageKeys, "sender")
}

func TestDetectSchemaWrappedObject(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeArchive(t, fs, "/wrapped.json", map[string]any{"data": sampleConversations()})

	info := NewParser(fs, nil).DetectSchema("/wrapped.json")
	assert.Equal(t, "object", info.RootType)
	assert.Equal(t, 2, info.EstimatedConversations)
	assert.Contains(t, info.SampleKeys, "uuid")
}

func TestDetectSchemaNeverFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewParser(fs, nil)

	assert.Equal(t, SchemaInfo{}, p.DetectSchema("/missing.json"))

	require.NoError(t, afero.WriteFile(fs, "/broken.json", []byte("]["), 0o644))
	assert.Equal(t, SchemaInfo{}, p.DetectSchema("/broken.json"))
}

func TestStats(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeArchive(t, fs, "/list.json", sampleConversations())

	convs, err := NewParser(fs, nil).Parse("/list.json")
	require.NoError(t, err)

	stats := Stats(convs)
	assert.Equal(t, 2, stats.TotalConversations)
	assert.Equal(t, 3, stats.TotalMessages)
	assert.InDelta(t, 1.5, stats.AverageMessages, 0.001)
	require.NotNil(t, stats.Earliest)
	require.NotNil(t, stats.Latest)
	assert.True(t, stats.Earliest.Before(*stats.Latest))
	assert.Equal(t, 1, stats.TopicDistribution[TopicTech])
	assert.Equal(t, 1, stats.TopicDistribution[TopicCasual])
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	assert.Equal(t, 0, stats.TotalConversations)
	assert.Zero(t, stats.AverageMessages)
	assert.Nil(t, stats.Earliest)
}
