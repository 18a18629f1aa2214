// Package importer loads the CSV fixture set into the database.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Files are imported in dependency order.
var files = []struct {
	name  string
	table string
	load  func(*Importer, context.Context, record) error
}{
	{"category.csv", "categories", (*Importer).importCategory},
	{"genre.csv", "genres", (*Importer).importGenre},
	{"titles.csv", "titles", (*Importer).importTitle},
	{"genre_title.csv", "title_genres", (*Importer).importTitleGenre},
	{"users.csv", "users", (*Importer).importUser},
	{"review.csv", "reviews", (*Importer).importReview},
	{"comments.csv", "comments", (*Importer).importComment},
}

// FileReport counts the outcome of every row in one file.
type FileReport struct {
	File     string
	Imported int
	Skipped  int
	Failed   int
	Missing  bool
}

type Importer struct {
	repo *repository.Repository
	log  *zap.Logger
}

func New(repo *repository.Repository, log *zap.Logger) *Importer {
	return &Importer{
		repo: repo,
		log:  log.With(zap.String("component", "importer")),
	}
}

// StableID maps a fixture's integer id onto the same UUID on every run,
// so re-importing skips rows that already exist.
func StableID(table, id string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("yamdb/"+table+"/"+strings.TrimSpace(id)))
}

// Run imports every known file found in fsys. Bad rows are logged and
// counted; only I/O and CSV syntax errors abort the run.
func (im *Importer) Run(ctx context.Context, fsys fs.FS) ([]FileReport, error) {
	reports := make([]FileReport, 0, len(files))

	for _, f := range files {
		report := FileReport{File: f.name}

		file, err := fsys.Open(f.name)
		if errors.Is(err, fs.ErrNotExist) {
			im.log.Warn("CSV file not found, skipping", zap.String("file", f.name))
			report.Missing = true
			reports = append(reports, report)
			continue
		}
		if err != nil {
			return reports, fmt.Errorf("open %s: %w", f.name, err)
		}

		err = readRecords(file, func(rec record) {
			switch err := f.load(im, ctx, rec); {
			case err == nil:
				report.Imported++
			case errors.Is(err, repository.ErrDuplicate):
				report.Skipped++
			default:
				report.Failed++
				im.log.Warn("Failed to import row",
					zap.String("file", f.name),
					zap.Int("line", rec.line),
					zap.Error(err))
			}
		})
		file.Close()
		if err != nil {
			return reports, fmt.Errorf("read %s: %w", f.name, err)
		}
		if ctx.Err() != nil {
			return reports, ctx.Err()
		}

		im.log.Info("CSV file imported",
			zap.String("file", f.name),
			zap.Int("imported", report.Imported),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed))
		reports = append(reports, report)
	}

	return reports, nil
}

// record is one CSV row addressed by header name.
type record struct {
	line   int
	fields map[string]string
}

func (r record) get(key string) string {
	return strings.TrimSpace(r.fields[key])
}

func (r record) require(key string) (string, error) {
	v := r.get(key)
	if v == "" {
		return "", fmt.Errorf("column %q is empty", key)
	}
	return v, nil
}

func (r record) intValue(key string) (int, error) {
	v, err := r.require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return n, nil
}

// timeValue falls back to now when the column is absent.
func (r record) timeValue(key string) (time.Time, error) {
	v := r.get(key)
	if v == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %q: %w", key, err)
	}
	return t, nil
}

func readRecords(r io.Reader, fn func(record)) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	for i := range header {
		header[i] = strings.TrimPrefix(strings.TrimSpace(header[i]), "\ufeff")
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = row[i]
			}
		}
		fn(record{line: line, fields: fields})
	}
}

// ==================== ROW LOADERS ====================

func (im *Importer) importCategory(ctx context.Context, rec record) error {
	id, err := rec.require("id")
	if err != nil {
		return err
	}
	category := &entity.Category{
		BaseNoDelete: entity.NewBaseNoDelete(),
		Name:         rec.get("name"),
		Slug:         rec.get("slug"),
	}
	category.ID = StableID("categories", id)
	return im.repo.Category.Create(ctx, category)
}

func (im *Importer) importGenre(ctx context.Context, rec record) error {
	id, err := rec.require("id")
	if err != nil {
		return err
	}
	genre := &entity.Genre{
		BaseNoDelete: entity.NewBaseNoDelete(),
		Name:         rec.get("name"),
		Slug:         rec.get("slug"),
	}
	genre.ID = StableID("genres", id)
	return im.repo.Genre.Create(ctx, genre)
}

func (im *Importer) importTitle(ctx context.Context, rec record) error {
	id, err := rec.require("id")
	if err != nil {
		return err
	}
	year, err := rec.intValue("year")
	if err != nil {
		return err
	}

	title := &entity.Title{
		BaseNoDelete: entity.NewBaseNoDelete(),
		Name:         rec.get("name"),
		Year:         year,
	}
	title.ID = StableID("titles", id)
	if desc := rec.get("description"); desc != "" {
		title.Description = &desc
	}
	if category := rec.get("category"); category != "" {
		categoryID := StableID("categories", category)
		title.CategoryID = &categoryID
	}

	return im.repo.Title.Create(ctx, title, nil)
}

func (im *Importer) importTitleGenre(ctx context.Context, rec record) error {
	titleID, err := rec.require("title_id")
	if err != nil {
		return err
	}
	genreID, err := rec.require("genre_id")
	if err != nil {
		return err
	}
	return im.repo.TitleGenre.Create(ctx, &entity.TitleGenre{
		TitleID: StableID("titles", titleID),
		GenreID: StableID("genres", genreID),
	})
}

func (im *Importer) importUser(ctx context.Context, rec record) error {
	id, err := rec.require("id")
	if err != nil {
		return err
	}

	role := entity.UserRole(rec.get("role"))
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	user := &entity.User{
		Base:      entity.NewBase(),
		Username:  rec.get("username"),
		Email:     rec.get("email"),
		FirstName: rec.get("first_name"),
		LastName:  rec.get("last_name"),
		Bio:       rec.get("bio"),
		Role:      role,
	}
	user.ID = StableID("users", id)
	return im.repo.User.Create(ctx, user)
}

func (im *Importer) importReview(ctx context.Context, rec record) error {
	id, err := rec.require("id")
	if err != nil {
		return err
	}
	titleID, err := rec.require("title_id")
	if err != nil {
		return err
	}
	author, err := rec.require("author")
	if err != nil {
		return err
	}
	score, err := rec.intValue("score")
	if err != nil {
		return err
	}
	if score < 1 || score > 10 {
		return fmt.Errorf("score %d out of range", score)
	}
	pubDate, err := rec.timeValue("pub_date")
	if err != nil {
		return err
	}

	review := &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        StableID("reviews", id),
			CreatedAt: pubDate,
			UpdatedAt: pubDate,
		},
		TitleID:  StableID("titles", titleID),
		AuthorID: StableID("users", author),
		Text:     rec.get("text"),
		Score:    score,
	}
	return im.repo.Review.Create(ctx, review)
}

func (im *Importer) importComment(ctx context.Context, rec record) error {
	id, err := rec.require("id")
	if err != nil {
		return err
	}
	reviewID, err := rec.require("review_id")
	if err != nil {
		return err
	}
	author, err := rec.require("author")
	if err != nil {
		return err
	}
	pubDate, err := rec.timeValue("pub_date")
	if err != nil {
		return err
	}

	comment := &entity.Comment{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        StableID("comments", id),
			CreatedAt: pubDate,
			UpdatedAt: pubDate,
		},
		ReviewID: StableID("reviews", reviewID),
		AuthorID: StableID("users", author),
		Text:     rec.get("text"),
	}
	return im.repo.Comment.Create(ctx, comment)
}
