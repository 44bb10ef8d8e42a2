// Package mihon translates between the native library model and the backup
// format of Mihon/Tachiyomi (.tachibk / .proto.gz files). The foreign model
// is un-normalized: chapters, history and category references live nested
// inside each manga record, so the adapters flatten and re-nest on the way
// through.
package mihon

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/wire"
)

// Field numbers follow Mihon's backup.proto. Only the fields the adapters
// consume are modeled; everything else is skipped on decode and omitted on
// encode.

// Backup (root) fields.
const (
	fBackupManga      protowire.Number = 1
	fBackupCategories protowire.Number = 2
)

// BackupManga fields.
const (
	fMangaSource       protowire.Number = 1
	fMangaURL          protowire.Number = 2
	fMangaTitle        protowire.Number = 3
	fMangaArtist       protowire.Number = 4
	fMangaAuthor       protowire.Number = 5
	fMangaDescription  protowire.Number = 6
	fMangaGenre        protowire.Number = 7
	fMangaStatus       protowire.Number = 8
	fMangaThumbnailURL protowire.Number = 9
	fMangaDateAdded    protowire.Number = 13
	fMangaViewer       protowire.Number = 14
	fMangaChapters     protowire.Number = 16
	fMangaCategories   protowire.Number = 17
	fMangaFavorite     protowire.Number = 100
	fMangaHistory      protowire.Number = 102
)

// BackupChapter fields.
const (
	fChapterURL          protowire.Number = 1
	fChapterName         protowire.Number = 2
	fChapterScanlator    protowire.Number = 3
	fChapterRead         protowire.Number = 4
	fChapterBookmark     protowire.Number = 5
	fChapterLastPageRead protowire.Number = 6
	fChapterDateFetch    protowire.Number = 7
	fChapterDateUpload   protowire.Number = 8
	fChapterNumber       protowire.Number = 9
	fChapterSourceOrder  protowire.Number = 10
)

// BackupHistory fields.
const (
	fHistoryURL      protowire.Number = 1
	fHistoryLastRead protowire.Number = 2
)

// BackupCategory fields.
const (
	fCategoryName  protowire.Number = 1
	fCategoryOrder protowire.Number = 2
	fCategoryFlags protowire.Number = 100
)

// Backup is the root of a foreign backup file.
type Backup struct {
	Manga      []BackupManga
	Categories []BackupCategory
}

// BackupManga is one un-normalized manga record.
type BackupManga struct {
	Source       int64
	URL          string
	Title        string
	Artist       string
	Author       string
	Description  string
	Genre        []string
	Status       int32
	ThumbnailURL string
	DateAdded    int64
	Viewer       int32
	Chapters     []BackupChapter
	Categories   []int64
	Favorite     bool
	History      []BackupHistory
}

// BackupChapter carries chapter metadata and per-chapter progress in one row.
type BackupChapter struct {
	URL          string
	Name         string
	Scanlator    string
	Read         bool
	Bookmark     bool
	LastPageRead int64
	DateFetch    int64
	DateUpload   int64
	Number       float32
	SourceOrder  int64
}

// BackupHistory is a last-read timestamp keyed by chapter URL.
type BackupHistory struct {
	URL      string
	LastRead int64
}

// BackupCategory is a foreign category. Order doubles as the category's
// numeric identity; OrderSet distinguishes an explicit 0 from an absent
// field, so anonymous categories can still get fallback keys.
type BackupCategory struct {
	Name     string
	Order    int64
	OrderSet bool
	Flags    int64
}

// Marshal encodes and compresses a foreign backup.
func Marshal(bk *Backup) ([]byte, error) {
	var body []byte
	for _, m := range bk.Manga {
		body = wire.AppendBytes(body, fBackupManga, marshalManga(m))
	}
	for _, c := range bk.Categories {
		body = wire.AppendBytes(body, fBackupCategories, marshalCategory(c))
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("compress foreign backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress foreign backup: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decompresses and parses a foreign backup file, with the same
// failure taxonomy as the native codec: gzip problems are ErrCorruptArchive,
// wire problems are ErrUnrecognizedSchema.
func Unmarshal(data []byte) (*Backup, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backup.ErrCorruptArchive, err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backup.ErrCorruptArchive, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", backup.ErrCorruptArchive, err)
	}

	bk := &Backup{}
	d := wire.NewDecoder(body)
	for d.Next() {
		switch d.FieldNumber() {
		case fBackupManga:
			m, err := unmarshalManga(d.Bytes())
			if err != nil {
				return nil, fmt.Errorf("%w: %v", backup.ErrUnrecognizedSchema, err)
			}
			bk.Manga = append(bk.Manga, m)
		case fBackupCategories:
			c, err := unmarshalCategory(d.Bytes())
			if err != nil {
				return nil, fmt.Errorf("%w: %v", backup.ErrUnrecognizedSchema, err)
			}
			bk.Categories = append(bk.Categories, c)
		default:
			d.Skip()
		}
	}
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", backup.ErrUnrecognizedSchema, err)
	}
	return bk, nil
}

func marshalManga(m BackupManga) []byte {
	var b []byte
	b = wire.AppendInt64(b, fMangaSource, m.Source)
	b = wire.AppendString(b, fMangaURL, m.URL)
	b = wire.AppendString(b, fMangaTitle, m.Title)
	b = wire.AppendString(b, fMangaArtist, m.Artist)
	b = wire.AppendString(b, fMangaAuthor, m.Author)
	b = wire.AppendString(b, fMangaDescription, m.Description)
	b = wire.AppendStrings(b, fMangaGenre, m.Genre)
	b = wire.AppendInt64(b, fMangaStatus, int64(m.Status))
	b = wire.AppendString(b, fMangaThumbnailURL, m.ThumbnailURL)
	b = wire.AppendInt64(b, fMangaDateAdded, m.DateAdded)
	b = wire.AppendInt64(b, fMangaViewer, int64(m.Viewer))
	for _, c := range m.Chapters {
		b = wire.AppendBytes(b, fMangaChapters, marshalChapter(c))
	}
	for _, id := range m.Categories {
		b = protowire.AppendTag(b, fMangaCategories, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(id))
	}
	b = wire.AppendBool(b, fMangaFavorite, m.Favorite)
	for _, h := range m.History {
		var hb []byte
		hb = wire.AppendString(hb, fHistoryURL, h.URL)
		hb = wire.AppendInt64(hb, fHistoryLastRead, h.LastRead)
		b = wire.AppendBytes(b, fMangaHistory, hb)
	}
	return b
}

func marshalChapter(c BackupChapter) []byte {
	var b []byte
	b = wire.AppendString(b, fChapterURL, c.URL)
	b = wire.AppendString(b, fChapterName, c.Name)
	b = wire.AppendString(b, fChapterScanlator, c.Scanlator)
	b = wire.AppendBool(b, fChapterRead, c.Read)
	b = wire.AppendBool(b, fChapterBookmark, c.Bookmark)
	b = wire.AppendInt64(b, fChapterLastPageRead, c.LastPageRead)
	b = wire.AppendInt64(b, fChapterDateFetch, c.DateFetch)
	b = wire.AppendInt64(b, fChapterDateUpload, c.DateUpload)
	b = wire.AppendFloat32(b, fChapterNumber, c.Number)
	b = wire.AppendInt64(b, fChapterSourceOrder, c.SourceOrder)
	return b
}

func marshalCategory(c BackupCategory) []byte {
	var b []byte
	b = wire.AppendString(b, fCategoryName, c.Name)
	if c.OrderSet {
		b = protowire.AppendTag(b, fCategoryOrder, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.Order))
	}
	b = wire.AppendInt64(b, fCategoryFlags, c.Flags)
	return b
}

func unmarshalManga(b []byte) (BackupManga, error) {
	var m BackupManga
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fMangaSource:
			m.Source = d.Int64()
		case fMangaURL:
			m.URL = d.Text()
		case fMangaTitle:
			m.Title = d.Text()
		case fMangaArtist:
			m.Artist = d.Text()
		case fMangaAuthor:
			m.Author = d.Text()
		case fMangaDescription:
			m.Description = d.Text()
		case fMangaGenre:
			m.Genre = append(m.Genre, d.Text())
		case fMangaStatus:
			m.Status = int32(d.Int64())
		case fMangaThumbnailURL:
			m.ThumbnailURL = d.Text()
		case fMangaDateAdded:
			m.DateAdded = d.Int64()
		case fMangaViewer:
			m.Viewer = int32(d.Int64())
		case fMangaChapters:
			c, err := unmarshalChapter(d.Bytes())
			if err != nil {
				return m, err
			}
			m.Chapters = append(m.Chapters, c)
		case fMangaCategories:
			m.Categories = append(m.Categories, d.Int64())
		case fMangaFavorite:
			m.Favorite = d.Bool()
		case fMangaHistory:
			h, err := unmarshalHistory(d.Bytes())
			if err != nil {
				return m, err
			}
			m.History = append(m.History, h)
		default:
			d.Skip()
		}
	}
	return m, d.Err()
}

func unmarshalChapter(b []byte) (BackupChapter, error) {
	var c BackupChapter
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fChapterURL:
			c.URL = d.Text()
		case fChapterName:
			c.Name = d.Text()
		case fChapterScanlator:
			c.Scanlator = d.Text()
		case fChapterRead:
			c.Read = d.Bool()
		case fChapterBookmark:
			c.Bookmark = d.Bool()
		case fChapterLastPageRead:
			c.LastPageRead = d.Int64()
		case fChapterDateFetch:
			c.DateFetch = d.Int64()
		case fChapterDateUpload:
			c.DateUpload = d.Int64()
		case fChapterNumber:
			c.Number = d.Float32()
		case fChapterSourceOrder:
			c.SourceOrder = d.Int64()
		default:
			d.Skip()
		}
	}
	return c, d.Err()
}

func unmarshalHistory(b []byte) (BackupHistory, error) {
	var h BackupHistory
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fHistoryURL:
			h.URL = d.Text()
		case fHistoryLastRead:
			h.LastRead = d.Int64()
		default:
			d.Skip()
		}
	}
	return h, d.Err()
}

func unmarshalCategory(b []byte) (BackupCategory, error) {
	var c BackupCategory
	d := wire.NewDecoder(b)
	for d.Next() {
		switch d.FieldNumber() {
		case fCategoryName:
			c.Name = d.Text()
		case fCategoryOrder:
			c.Order = d.Int64()
			c.OrderSet = true
		case fCategoryFlags:
			c.Flags = d.Int64()
		default:
			d.Skip()
		}
	}
	return c, d.Err()
}
