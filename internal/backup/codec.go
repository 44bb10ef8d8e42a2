package backup

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dexreader/dexreader/internal/entities"
	"github.com/dexreader/dexreader/internal/wire"
)

// Native backup files are gzip(wire-encoded envelope). Field numbers are the
// wire contract: they must never be renumbered, only extended, so any minor
// version can read any other minor version of the same major.

// Envelope fields.
const (
	fEnvVersion        protowire.Number = 1
	fEnvExportedAt     protowire.Number = 2
	fEnvAppVersion     protowire.Number = 3
	fEnvLibrary        protowire.Number = 4
	fEnvCollections    protowire.Number = 5
	fEnvProgress       protowire.Number = 6
	fEnvReaderSettings protowire.Number = 7
)

// Library section fields.
const (
	fLibManga    protowire.Number = 1
	fLibChapters protowire.Number = 2
)

// Manga fields.
const (
	fMangaID             protowire.Number = 1
	fMangaTitle          protowire.Number = 2
	fMangaDescription    protowire.Number = 3
	fMangaStatus         protowire.Number = 4
	fMangaCoverURL       protowire.Number = 5
	fMangaTags           protowire.Number = 6
	fMangaAuthors        protowire.Number = 7
	fMangaArtists        protowire.Number = 8
	fMangaLinks          protowire.Number = 9
	fMangaFavorite       protowire.Number = 10
	fMangaHasNewChapters protowire.Number = 11
	fMangaLastChapterID  protowire.Number = 12
	fMangaCreatedAt      protowire.Number = 13
	fMangaUpdatedAt      protowire.Number = 14
)

// Map-entry fields for manga links.
const (
	fLinkKey   protowire.Number = 1
	fLinkValue protowire.Number = 2
)

// Chapter fields.
const (
	fChapterID          protowire.Number = 1
	fChapterMangaID     protowire.Number = 2
	fChapterTitle       protowire.Number = 3
	fChapterNumber      protowire.Number = 4
	fChapterVolume      protowire.Number = 5
	fChapterLanguage    protowire.Number = 6
	fChapterScanlator   protowire.Number = 7
	fChapterExternalURL protowire.Number = 8
	fChapterPublishedAt protowire.Number = 9
	fChapterCreatedAt   protowire.Number = 10
	fChapterUpdatedAt   protowire.Number = 11
)

// Collections section fields.
const (
	fColsCollections protowire.Number = 1
	fColsItems       protowire.Number = 2
)

// Collection fields.
const (
	fColID          protowire.Number = 1
	fColName        protowire.Number = 2
	fColDescription protowire.Number = 3
	fColCreatedAt   protowire.Number = 4
	fColUpdatedAt   protowire.Number = 5
)

// CollectionItem fields.
const (
	fItemCollectionID protowire.Number = 1
	fItemMangaID      protowire.Number = 2
	fItemAddedAt      protowire.Number = 3
	fItemPosition     protowire.Number = 4
)

// Progress section fields.
const (
	fProgManga    protowire.Number = 1
	fProgChapters protowire.Number = 2
)

// MangaProgress fields.
const (
	fMProgMangaID       protowire.Number = 1
	fMProgLastChapterID protowire.Number = 2
	fMProgFirstReadAt   protowire.Number = 3
	fMProgLastReadAt    protowire.Number = 4
)

// ChapterProgress fields.
const (
	fCProgMangaID     protowire.Number = 1
	fCProgChapterID   protowire.Number = 2
	fCProgCurrentPage protowire.Number = 3
	fCProgCompleted   protowire.Number = 4
	fCProgLastReadAt  protowire.Number = 5
)

// ReaderSettings section fields.
const (
	fRSOverrides protowire.Number = 1
)

// ReaderOverride fields.
const (
	fROMangaID         protowire.Number = 1
	fROMode            protowire.Number = 2
	fROSkipCoverPages  protowire.Number = 3
	fROReadRightToLeft protowire.Number = 4
)

// Encode serializes an envelope and compresses it into the on-disk format.
func Encode(env *Envelope) ([]byte, error) {
	body := marshalEnvelope(env)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("compress backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress backup: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode decompresses and parses a native backup file. Decompression failures
// are reported as ErrCorruptArchive, parse failures as ErrUnrecognizedSchema;
// the two need different user-facing remediation.
func Decode(data []byte) (*Envelope, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	env, err := unmarshalEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedSchema, err)
	}
	if env.SchemaVersion == 0 {
		return nil, fmt.Errorf("%w: missing schema version", ErrUnrecognizedSchema)
	}
	return env, nil
}

func marshalEnvelope(env *Envelope) []byte {
	var b []byte
	b = wire.AppendUint32(b, fEnvVersion, env.SchemaVersion)
	b = wire.AppendTime(b, fEnvExportedAt, env.ExportedAt)
	b = wire.AppendString(b, fEnvAppVersion, env.AppVersion)
	b = wire.AppendBytes(b, fEnvLibrary, marshalLibrary(env.Library))
	if env.Collections != nil {
		b = wire.AppendBytes(b, fEnvCollections, marshalCollections(env.Collections))
	}
	if env.Progress != nil {
		b = wire.AppendBytes(b, fEnvProgress, marshalProgress(env.Progress))
	}
	if env.ReaderSettings != nil {
		b = wire.AppendBytes(b, fEnvReaderSettings, marshalReaderSettings(env.ReaderSettings))
	}
	return b
}

func marshalLibrary(lib LibrarySection) []byte {
	var b []byte
	for _, m := range lib.Manga {
		b = wire.AppendBytes(b, fLibManga, marshalManga(m))
	}
	for _, c := range lib.Chapters {
		b = wire.AppendBytes(b, fLibChapters, marshalChapter(c))
	}
	return b
}

func marshalManga(m entities.Manga) []byte {
	var b []byte
	b = wire.AppendString(b, fMangaID, m.ID)
	b = wire.AppendString(b, fMangaTitle, m.Title)
	b = wire.AppendString(b, fMangaDescription, m.Description)
	b = wire.AppendString(b, fMangaStatus, string(m.Status))
	b = wire.AppendString(b, fMangaCoverURL, m.CoverURL)
	b = wire.AppendStrings(b, fMangaTags, m.Tags)
	b = wire.AppendStrings(b, fMangaAuthors, m.Authors)
	b = wire.AppendStrings(b, fMangaArtists, m.Artists)
	for key, value := range m.Links {
		var entry []byte
		entry = wire.AppendString(entry, fLinkKey, key)
		entry = wire.AppendString(entry, fLinkValue, value)
		b = wire.AppendBytes(b, fMangaLinks, entry)
	}
	b = wire.AppendBool(b, fMangaFavorite, m.Favorite)
	b = wire.AppendBool(b, fMangaHasNewChapters, m.HasNewChapters)
	b = wire.AppendString(b, fMangaLastChapterID, m.LastChapterID)
	b = wire.AppendTime(b, fMangaCreatedAt, m.CreatedAt)
	b = wire.AppendTime(b, fMangaUpdatedAt, m.UpdatedAt)
	return b
}

func marshalChapter(c entities.Chapter) []byte {
	var b []byte
	b = wire.AppendString(b, fChapterID, c.ID)
	b = wire.AppendString(b, fChapterMangaID, c.MangaID)
	b = wire.AppendString(b, fChapterTitle, c.Title)
	b = wire.AppendString(b, fChapterNumber, c.Number)
	b = wire.AppendString(b, fChapterVolume, c.Volume)
	b = wire.AppendString(b, fChapterLanguage, c.Language)
	b = wire.AppendString(b, fChapterScanlator, c.Scanlator)
	b = wire.AppendString(b, fChapterExternalURL, c.ExternalURL)
	b = wire.AppendTime(b, fChapterPublishedAt, c.PublishedAt)
	b = wire.AppendTime(b, fChapterCreatedAt, c.CreatedAt)
	b = wire.AppendTime(b, fChapterUpdatedAt, c.UpdatedAt)
	return b
}

func marshalCollections(s *CollectionsSection) []byte {
	var b []byte
	for _, c := range s.Collections {
		var cb []byte
		cb = wire.AppendInt64(cb, fColID, c.ID)
		cb = wire.AppendString(cb, fColName, c.Name)
		cb = wire.AppendString(cb, fColDescription, c.Description)
		cb = wire.AppendTime(cb, fColCreatedAt, c.CreatedAt)
		cb = wire.AppendTime(cb, fColUpdatedAt, c.UpdatedAt)
		b = wire.AppendBytes(b, fColsCollections, cb)
	}
	for _, it := range s.Items {
		var ib []byte
		ib = wire.AppendInt64(ib, fItemCollectionID, it.CollectionID)
		ib = wire.AppendString(ib, fItemMangaID, it.MangaID)
		ib = wire.AppendTime(ib, fItemAddedAt, it.AddedAt)
		ib = wire.AppendInt64(ib, fItemPosition, int64(it.Position))
		b = wire.AppendBytes(b, fColsItems, ib)
	}
	return b
}

func marshalProgress(s *ProgressSection) []byte {
	var b []byte
	for _, p := range s.Manga {
		var pb []byte
		pb = wire.AppendString(pb, fMProgMangaID, p.MangaID)
		pb = wire.AppendString(pb, fMProgLastChapterID, p.LastChapterID)
		pb = wire.AppendTime(pb, fMProgFirstReadAt, p.FirstReadAt)
		pb = wire.AppendTime(pb, fMProgLastReadAt, p.LastReadAt)
		b = wire.AppendBytes(b, fProgManga, pb)
	}
	for _, p := range s.Chapters {
		var pb []byte
		pb = wire.AppendString(pb, fCProgMangaID, p.MangaID)
		pb = wire.AppendString(pb, fCProgChapterID, p.ChapterID)
		pb = wire.AppendInt64(pb, fCProgCurrentPage, int64(p.CurrentPage))
		pb = wire.AppendBool(pb, fCProgCompleted, p.Completed)
		pb = wire.AppendTime(pb, fCProgLastReadAt, p.LastReadAt)
		b = wire.AppendBytes(b, fProgChapters, pb)
	}
	return b
}

func marshalReaderSettings(s *ReaderSettingsSection) []byte {
	var b []byte
	for _, o := range s.Overrides {
		var ob []byte
		ob = wire.AppendString(ob, fROMangaID, o.MangaID)
		ob = wire.AppendString(ob, fROMode, string(o.Mode))
		ob = wire.AppendBool(ob, fROSkipCoverPages, o.SkipCoverPages)
		ob = wire.AppendBool(ob, fROReadRightToLeft, o.ReadRightToLeft)
		b = wire.AppendBytes(b, fRSOverrides, ob)
	}
	return b
}

func unmarshalEnvelope(b []byte) (*Envelope, error) {
	env := &Envelope{}
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fEnvVersion:
			env.SchemaVersion = uint32(d.Varint())
		case fEnvExportedAt:
			env.ExportedAt = wire.ToTime(d.Int64())
		case fEnvAppVersion:
			env.AppVersion = d.Text()
		case fEnvLibrary:
			lib, err := unmarshalLibrary(d.Bytes())
			if err != nil {
				return nil, err
			}
			env.Library = lib
		case fEnvCollections:
			s, err := unmarshalCollections(d.Bytes())
			if err != nil {
				return nil, err
			}
			env.Collections = s
		case fEnvProgress:
			s, err := unmarshalProgress(d.Bytes())
			if err != nil {
				return nil, err
			}
			env.Progress = s
		case fEnvReaderSettings:
			s, err := unmarshalReaderSettings(d.Bytes())
			if err != nil {
				return nil, err
			}
			env.ReaderSettings = s
		default:
			d.Skip()
		}
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return env, nil
}

func unmarshalLibrary(b []byte) (LibrarySection, error) {
	var lib LibrarySection
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fLibManga:
			m, err := unmarshalManga(d.Bytes())
			if err != nil {
				return lib, err
			}
			lib.Manga = append(lib.Manga, m)
		case fLibChapters:
			c, err := unmarshalChapter(d.Bytes())
			if err != nil {
				return lib, err
			}
			lib.Chapters = append(lib.Chapters, c)
		default:
			d.Skip()
		}
	}
	return lib, d.Err()
}

func unmarshalManga(b []byte) (entities.Manga, error) {
	var m entities.Manga
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fMangaID:
			m.ID = d.Text()
		case fMangaTitle:
			m.Title = d.Text()
		case fMangaDescription:
			m.Description = d.Text()
		case fMangaStatus:
			m.Status = entities.PublicationStatus(d.Text())
		case fMangaCoverURL:
			m.CoverURL = d.Text()
		case fMangaTags:
			m.Tags = append(m.Tags, d.Text())
		case fMangaAuthors:
			m.Authors = append(m.Authors, d.Text())
		case fMangaArtists:
			m.Artists = append(m.Artists, d.Text())
		case fMangaLinks:
			key, value, err := unmarshalLink(d.Bytes())
			if err != nil {
				return m, err
			}
			if m.Links == nil {
				m.Links = make(map[string]string)
			}
			m.Links[key] = value
		case fMangaFavorite:
			m.Favorite = d.Bool()
		case fMangaHasNewChapters:
			m.HasNewChapters = d.Bool()
		case fMangaLastChapterID:
			m.LastChapterID = d.Text()
		case fMangaCreatedAt:
			m.CreatedAt = wire.ToTime(d.Int64())
		case fMangaUpdatedAt:
			m.UpdatedAt = wire.ToTime(d.Int64())
		default:
			d.Skip()
		}
	}
	return m, d.Err()
}

func unmarshalLink(b []byte) (key, value string, err error) {
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fLinkKey:
			key = d.Text()
		case fLinkValue:
			value = d.Text()
		default:
			d.Skip()
		}
	}
	return key, value, d.Err()
}

func unmarshalChapter(b []byte) (entities.Chapter, error) {
	var c entities.Chapter
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fChapterID:
			c.ID = d.Text()
		case fChapterMangaID:
			c.MangaID = d.Text()
		case fChapterTitle:
			c.Title = d.Text()
		case fChapterNumber:
			c.Number = d.Text()
		case fChapterVolume:
			c.Volume = d.Text()
		case fChapterLanguage:
			c.Language = d.Text()
		case fChapterScanlator:
			c.Scanlator = d.Text()
		case fChapterExternalURL:
			c.ExternalURL = d.Text()
		case fChapterPublishedAt:
			c.PublishedAt = wire.ToTime(d.Int64())
		case fChapterCreatedAt:
			c.CreatedAt = wire.ToTime(d.Int64())
		case fChapterUpdatedAt:
			c.UpdatedAt = wire.ToTime(d.Int64())
		default:
			d.Skip()
		}
	}
	return c, d.Err()
}

func unmarshalCollections(b []byte) (*CollectionsSection, error) {
	s := &CollectionsSection{}
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fColsCollections:
			c, err := unmarshalCollection(d.Bytes())
			if err != nil {
				return nil, err
			}
			s.Collections = append(s.Collections, c)
		case fColsItems:
			it, err := unmarshalCollectionItem(d.Bytes())
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, it)
		default:
			d.Skip()
		}
	}
	return s, d.Err()
}

func unmarshalCollection(b []byte) (entities.Collection, error) {
	var c entities.Collection
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fColID:
			c.ID = d.Int64()
		case fColName:
			c.Name = d.Text()
		case fColDescription:
			c.Description = d.Text()
		case fColCreatedAt:
			c.CreatedAt = wire.ToTime(d.Int64())
		case fColUpdatedAt:
			c.UpdatedAt = wire.ToTime(d.Int64())
		default:
			d.Skip()
		}
	}
	return c, d.Err()
}

func unmarshalCollectionItem(b []byte) (entities.CollectionItem, error) {
	var it entities.CollectionItem
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fItemCollectionID:
			it.CollectionID = d.Int64()
		case fItemMangaID:
			it.MangaID = d.Text()
		case fItemAddedAt:
			it.AddedAt = wire.ToTime(d.Int64())
		case fItemPosition:
			it.Position = int(d.Int64())
		default:
			d.Skip()
		}
	}
	return it, d.Err()
}

func unmarshalProgress(b []byte) (*ProgressSection, error) {
	s := &ProgressSection{}
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fProgManga:
			p, err := unmarshalMangaProgress(d.Bytes())
			if err != nil {
				return nil, err
			}
			s.Manga = append(s.Manga, p)
		case fProgChapters:
			p, err := unmarshalChapterProgress(d.Bytes())
			if err != nil {
				return nil, err
			}
			s.Chapters = append(s.Chapters, p)
		default:
			d.Skip()
		}
	}
	return s, d.Err()
}

func unmarshalMangaProgress(b []byte) (entities.MangaProgress, error) {
	var p entities.MangaProgress
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fMProgMangaID:
			p.MangaID = d.Text()
		case fMProgLastChapterID:
			p.LastChapterID = d.Text()
		case fMProgFirstReadAt:
			p.FirstReadAt = wire.ToTime(d.Int64())
		case fMProgLastReadAt:
			p.LastReadAt = wire.ToTime(d.Int64())
		default:
			d.Skip()
		}
	}
	return p, d.Err()
}

func unmarshalChapterProgress(b []byte) (entities.ChapterProgress, error) {
	var p entities.ChapterProgress
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fCProgMangaID:
			p.MangaID = d.Text()
		case fCProgChapterID:
			p.ChapterID = d.Text()
		case fCProgCurrentPage:
			p.CurrentPage = int(d.Int64())
		case fCProgCompleted:
			p.Completed = d.Bool()
		case fCProgLastReadAt:
			p.LastReadAt = wire.ToTime(d.Int64())
		default:
			d.Skip()
		}
	}
	return p, d.Err()
}

func unmarshalReaderSettings(b []byte) (*ReaderSettingsSection, error) {
	s := &ReaderSettingsSection{}
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fRSOverrides:
			o, err := unmarshalReaderOverride(d.Bytes())
			if err != nil {
				return nil, err
			}
			s.Overrides = append(s.Overrides, o)
		default:
			d.Skip()
		}
	}
	return s, d.Err()
}

func unmarshalReaderOverride(b []byte) (entities.ReaderOverride, error) {
	var o entities.ReaderOverride
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fROMangaID:
			o.MangaID = d.Text()
		case fROMode:
			o.Mode = entities.ReadingMode(d.Text())
		case fROSkipCoverPages:
			o.SkipCoverPages = d.Bool()
		case fROReadRightToLeft:
			o.ReadRightToLeft = d.Bool()
		default:
			d.Skip()
		}
	}
	return o, d.Err()
}
