package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resumeforge/internal/database"
	"resumeforge/internal/emitter"
	"resumeforge/internal/errcode"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
	"resumeforge/internal/tasks"
	"resumeforge/internal/templates"
)

type fakeStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	deleted      []string
}

func (s *fakeStore) PutObject(_ context.Context, key string, data []byte, contentType string) error {
	s.objects[key] = data
	s.contentTypes[key] = contentType
	return nil
}

func (s *fakeStore) DeleteObject(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeNotifier struct {
	owners   []string
	messages []ExportNotifyMessage
}

func (n *fakeNotifier) Notify(_ context.Context, owner string, msg ExportNotifyMessage) error {
	n.owners = append(n.owners, owner)
	n.messages = append(n.messages, msg)
	return nil
}

type fakePDF struct {
	err  error
	html string
}

func (p *fakePDF) FromHTML(_ context.Context, html string) ([]byte, error) {
	p.html = html
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fixture struct {
	db       *gorm.DB
	handler  *ExportHandler
	store    *fakeStore
	notifier *fakeNotifier
	pdf      *fakePDF
	tpl      schema.TemplateSchema
}

func sampleData() resume.Data {
	return resume.Data{
		PersonalInfo: resume.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com", Location: "Berlin"},
		Summary:      "Backend engineer.",
		Experience: []resume.Experience{{
			Company:   "Acme Corp",
			Title:     "Senior Engineer",
			StartDate: "2020-01",
			Current:   true,
			Bullets:   []string{"Built the export pipeline"},
		}},
		Skills: resume.Skills{Technical: []string{"Go", "SQL"}},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := templates.NewService(templates.NewStore(db))
	builtins, err := schema.LoadBuiltins()
	if err != nil {
		t.Fatalf("load builtins: %v", err)
	}
	if err := svc.Seed(context.Background(), builtins); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := &fixture{
		db:       db,
		store:    &fakeStore{objects: map[string][]byte{}, contentTypes: map[string]string{}},
		notifier: &fakeNotifier{},
		pdf:      &fakePDF{},
		tpl:      builtins[0],
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.handler = NewExportHandler(db, svc, f.store, f.notifier, f.pdf, render.DefaultOptions(), logger)
	n := 0
	f.handler.newID = func() string {
		n++
		return fmt.Sprintf("obj-%d", n)
	}
	return f
}

func (f *fixture) createResume(t *testing.T, owner string, data resume.Data) database.Resume {
	t.Helper()
	content, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	rec := database.Resume{
		OwnerID:    owner,
		Title:      "Main",
		TemplateID: f.tpl.ID,
		Content:    content,
		Status:     database.StatusExporting,
	}
	if err := f.db.Create(&rec).Error; err != nil {
		t.Fatalf("create resume: %v", err)
	}
	return rec
}

func exportTask(t *testing.T, p tasks.ExportPayload) *asynq.Task {
	t.Helper()
	task, err := tasks.NewExportTask(p)
	if err != nil {
		t.Fatalf("NewExportTask: %v", err)
	}
	return task
}

func TestExportDOCX(t *testing.T) {
	f := newFixture(t)
	rec := f.createResume(t, "u1", sampleData())

	err := f.handler.ProcessTask(context.Background(), exportTask(t, tasks.ExportPayload{
		ResumeID: rec.ID, OwnerID: "u1", Format: tasks.FormatDOCX, CorrelationID: "c-1",
	}))
	if err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	const key = "exports/u1/obj-1.docx"
	data, ok := f.store.objects[key]
	if !ok {
		t.Fatalf("object %s not uploaded, have %v", key, f.store.objects)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("docx is not a zip archive")
	}
	if f.store.contentTypes[key] != contentTypes[tasks.FormatDOCX] {
		t.Fatalf("content type = %q", f.store.contentTypes[key])
	}

	var got database.Resume
	if err := f.db.First(&got, rec.ID).Error; err != nil {
		t.Fatalf("reload resume: %v", err)
	}
	if got.DocxKey != key || got.Status != database.StatusExported {
		t.Fatalf("resume after export = key %q status %q", got.DocxKey, got.Status)
	}

	if len(f.notifier.messages) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.notifier.messages))
	}
	msg := f.notifier.messages[0]
	if f.notifier.owners[0] != "u1" || msg.Status != "completed" || msg.ErrorCode != errcode.OK || msg.CorrelationID != "c-1" {
		t.Fatalf("notification = %+v", msg)
	}
}

func TestExportPDFContentCheck(t *testing.T) {
	data := sampleData()

	t.Run("all segments present", func(t *testing.T) {
		f := newFixture(t)
		rec := f.createResume(t, "u1", data)
		texts := emitter.Texts(emitter.Render(f.tpl, data, render.DefaultOptions()).Layout)
		f.handler.extractText = func([]byte) (string, error) {
			return strings.Join(texts, "\n"), nil
		}

		if err := f.handler.ProcessTask(context.Background(), exportTask(t, tasks.ExportPayload{
			ResumeID: rec.ID, OwnerID: "u1", Format: tasks.FormatPDF,
		})); err != nil {
			t.Fatalf("ProcessTask: %v", err)
		}
		if !strings.Contains(f.pdf.html, "Senior Engineer") {
			t.Fatalf("printed html missing experience title")
		}
		if msg := f.notifier.messages[0]; msg.ErrorCode != errcode.OK || len(msg.MissingSegments) != 0 {
			t.Fatalf("notification = %+v", msg)
		}
	})

	t.Run("lost segments are reported", func(t *testing.T) {
		f := newFixture(t)
		rec := f.createResume(t, "u1", data)
		f.handler.extractText = func([]byte) (string, error) {
			return "Jane Doe", nil
		}

		if err := f.handler.ProcessTask(context.Background(), exportTask(t, tasks.ExportPayload{
			ResumeID: rec.ID, OwnerID: "u1", Format: tasks.FormatPDF,
		})); err != nil {
			t.Fatalf("ProcessTask: %v", err)
		}
		msg := f.notifier.messages[0]
		if msg.Status != "completed" || msg.ErrorCode != errcode.ContentMismatch {
			t.Fatalf("notification = %+v", msg)
		}
		found := false
		for _, s := range msg.MissingSegments {
			if s == "Acme Corp" {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing segments %v do not include Acme Corp", msg.MissingSegments)
		}

		var got database.Resume
		if err := f.db.First(&got, rec.ID).Error; err != nil {
			t.Fatalf("reload resume: %v", err)
		}
		if got.PdfKey != "exports/u1/obj-1.pdf" {
			t.Fatalf("pdf key = %q", got.PdfKey)
		}
	})
}

func TestExportReplacesPreviousObject(t *testing.T) {
	f := newFixture(t)
	rec := f.createResume(t, "u1", sampleData())
	if err := f.db.Model(&rec).Update("docx_key", "exports/u1/old.docx").Error; err != nil {
		t.Fatalf("set previous key: %v", err)
	}

	if err := f.handler.ProcessTask(context.Background(), exportTask(t, tasks.ExportPayload{
		ResumeID: rec.ID, OwnerID: "u1", Format: tasks.FormatDOCX,
	})); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != "exports/u1/old.docx" {
		t.Fatalf("deleted = %v", f.store.deleted)
	}
}

func TestExportSkipsOtherOwnersResume(t *testing.T) {
	f := newFixture(t)
	rec := f.createResume(t, "u1", sampleData())

	if err := f.handler.ProcessTask(context.Background(), exportTask(t, tasks.ExportPayload{
		ResumeID: rec.ID, OwnerID: "u2", Format: tasks.FormatDOCX,
	})); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if len(f.store.objects) != 0 || len(f.notifier.messages) != 0 {
		t.Fatalf("task for another owner should be skipped")
	}
}

func TestExportFailureBeforeFinalAttempt(t *testing.T) {
	f := newFixture(t)
	f.pdf.err = errors.New("chromium crashed")
	rec := f.createResume(t, "u1", sampleData())

	err := f.handler.ProcessTask(context.Background(), exportTask(t, tasks.ExportPayload{
		ResumeID: rec.ID, OwnerID: "u1", Format: tasks.FormatPDF,
	}))
	if err == nil || !strings.Contains(err.Error(), "chromium crashed") {
		t.Fatalf("ProcessTask error = %v", err)
	}
	if len(f.notifier.messages) != 0 {
		t.Fatalf("non-final attempt should not notify, got %+v", f.notifier.messages)
	}

	var got database.Resume
	if err := f.db.First(&got, rec.ID).Error; err != nil {
		t.Fatalf("reload resume: %v", err)
	}
	if got.Status != database.StatusExporting {
		t.Fatalf("status = %q, want %q", got.Status, database.StatusExporting)
	}
}
