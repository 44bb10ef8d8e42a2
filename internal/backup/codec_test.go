package backup

import (
	"bytes"
	"compress/gzip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexreader/dexreader/internal/entities"
)

func sampleEnvelope() *Envelope {
	added := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	read := time.Date(2024, 7, 2, 21, 15, 0, 0, time.UTC)
	return &Envelope{
		SchemaVersion: CurrentSchemaVersion,
		ExportedAt:    time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		AppVersion:    "0.9.1",
		Library: LibrarySection{
			Manga: []entities.Manga{
				{
					ID:          "6e2a1517-0000-4000-8000-000000000001",
					Title:       "Berserk",
					Description: "Dark fantasy.",
					Status:      entities.StatusHiatus,
					CoverURL:    "https://covers.example/berserk.jpg",
					Tags:        []string{"Action", "Horror"},
					Authors:     []string{"Kentarou Miura"},
					Artists:     []string{"Kentarou Miura"},
					Links:       map[string]string{"al": "30002"},
					Favorite:    true,
					CreatedAt:   added,
				},
			},
			Chapters: []entities.Chapter{
				{
					ID:          "c0000000-0000-4000-8000-000000000001",
					MangaID:     "6e2a1517-0000-4000-8000-000000000001",
					Title:       "The Black Swordsman",
					Number:      "1",
					Language:    "en",
					Scanlator:   "Dark Horse",
					PublishedAt: added,
				},
			},
		},
		Collections: &CollectionsSection{
			Collections: []entities.Collection{{ID: 1, Name: "Reading"}},
			Items: []entities.CollectionItem{
				{CollectionID: 1, MangaID: "6e2a1517-0000-4000-8000-000000000001", AddedAt: added},
			},
		},
		Progress: &ProgressSection{
			Manga: []entities.MangaProgress{
				{
					MangaID:       "6e2a1517-0000-4000-8000-000000000001",
					LastChapterID: "c0000000-0000-4000-8000-000000000001",
					FirstReadAt:   added,
					LastReadAt:    read,
				},
			},
			Chapters: []entities.ChapterProgress{
				{
					MangaID:     "6e2a1517-0000-4000-8000-000000000001",
					ChapterID:   "c0000000-0000-4000-8000-000000000001",
					CurrentPage: 12,
					Completed:   true,
					LastReadAt:  read,
				},
			},
		},
		ReaderSettings: &ReaderSettingsSection{
			Overrides: []entities.ReaderOverride{
				{
					MangaID:         "6e2a1517-0000-4000-8000-000000000001",
					Mode:            entities.ReadingModeDouble,
					SkipCoverPages:  true,
					ReadRightToLeft: true,
				},
			},
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	env := sampleEnvelope()

	data, err := Encode(env)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, env.SchemaVersion, got.SchemaVersion)
	assert.True(t, got.ExportedAt.Equal(env.ExportedAt))
	assert.Equal(t, env.AppVersion, got.AppVersion)

	require.Len(t, got.Library.Manga, 1)
	m := got.Library.Manga[0]
	assert.Equal(t, "Berserk", m.Title)
	assert.Equal(t, entities.StatusHiatus, m.Status)
	assert.Equal(t, []string{"Action", "Horror"}, m.Tags)
	assert.Equal(t, map[string]string{"al": "30002"}, m.Links)
	assert.True(t, m.Favorite)

	require.Len(t, got.Library.Chapters, 1)
	assert.Equal(t, "Dark Horse", got.Library.Chapters[0].Scanlator)

	require.NotNil(t, got.Collections)
	require.Len(t, got.Collections.Collections, 1)
	assert.Equal(t, "Reading", got.Collections.Collections[0].Name)
	require.Len(t, got.Collections.Items, 1)

	require.NotNil(t, got.Progress)
	require.Len(t, got.Progress.Chapters, 1)
	assert.Equal(t, 12, got.Progress.Chapters[0].CurrentPage)
	assert.True(t, got.Progress.Chapters[0].Completed)
	require.Len(t, got.Progress.Manga, 1)
	assert.True(t, got.Progress.Manga[0].FirstReadAt.Equal(env.Progress.Manga[0].FirstReadAt))

	require.NotNil(t, got.ReaderSettings)
	require.Len(t, got.ReaderSettings.Overrides, 1)
	assert.Equal(t, entities.ReadingModeDouble, got.ReaderSettings.Overrides[0].Mode)
}

func TestCodecOmitsOptionalSections(t *testing.T) {
	env := &Envelope{
		SchemaVersion: CurrentSchemaVersion,
		ExportedAt:    time.Now().UTC(),
		Library: LibrarySection{
			Manga: []entities.Manga{{ID: "6e2a1517-0000-4000-8000-000000000001", Title: "Akira", Favorite: true}},
		},
	}

	data, err := Encode(env)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, got.Collections)
	assert.Nil(t, got.Progress)
	assert.Nil(t, got.ReaderSettings)
}

func TestDecodeRejectsCorruptArchive(t *testing.T) {
	_, err := Decode([]byte("not gzip at all"))
	assert.ErrorIs(t, err, ErrCorruptArchive)

	// Valid gzip header with a truncated body.
	data, err := Encode(sampleEnvelope())
	require.NoError(t, err)
	_, err = Decode(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrCorruptArchive)
}

func TestDecodeRejectsUnrecognizedSchema(t *testing.T) {
	// Well-formed gzip wrapping bytes that are not the expected schema.
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte{0xde, 0xad, 0xbe, 0xef, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Decode(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnrecognizedSchema)
}

func TestDecodeRejectsMissingVersion(t *testing.T) {
	env := sampleEnvelope()
	env.SchemaVersion = 0

	data, err := Encode(env)
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrUnrecognizedSchema)
}

func TestMajorVersion(t *testing.T) {
	assert.Equal(t, uint32(1), MajorVersion(10002))
	assert.Equal(t, uint32(2), MajorVersion(20000))
	assert.Equal(t, uint32(0), MajorVersion(42))
}
